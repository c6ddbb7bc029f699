// Package repo implements the persistence layer on top of a record
// store. Every mutation is a full load-compute-save cycle over one
// partition, serialized by that repository's lock; reads share the lock
// so they never observe a half-applied write.
package repo

const (
	partitionUsers        = "users"
	partitionCategories   = "categories"
	partitionTransactions = "transactions"
)

// nextID allocates the next identifier for a partition: one more than
// the highest id currently present, or 1 when the partition is empty.
// Recomputed on every insert inside the partition lock, so no counter
// state is persisted and concurrent inserts cannot collide.
func nextID(ids []int64) int64 {
	var max int64
	for _, id := range ids {
		if id > max {
			max = id
		}
	}

	return max + 1
}
