package observability

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nantkhun/fintracker/internal/store"
)

// MeasuredStore wraps a record store with latency and error metrics.
type MeasuredStore struct {
	inner store.Store
	prom  *Prom
}

func NewMeasuredStore(inner store.Store, prom *Prom) *MeasuredStore {
	return &MeasuredStore{inner: inner, prom: prom}
}

func (s *MeasuredStore) Load(ctx context.Context, partition string, dest any) error {
	return s.observe("load", partition, func() error {
		return s.inner.Load(ctx, partition, dest)
	})
}

func (s *MeasuredStore) Save(ctx context.Context, partition string, records any) error {
	return s.observe("save", partition, func() error {
		return s.inner.Save(ctx, partition, records)
	})
}

func (s *MeasuredStore) observe(op, partition string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"
	if err != nil {
		status = "error"
		s.prom.StoreErrors.WithLabelValues(op, partition, classifyStoreErr(err)).Inc()
	}
	s.prom.StoreOpDuration.WithLabelValues(op, partition, status).Observe(time.Since(start).Seconds())

	return err
}

func classifyStoreErr(err error) string {
	switch {
	case errors.Is(err, store.ErrCorrupt):
		return "corrupt"
	case errors.Is(err, store.ErrWrite):
		return "write"
	case strings.Contains(strings.ToLower(err.Error()), "timeout"):
		return "timeout"
	default:
		return "unknown"
	}
}
