package transaction

import "encoding/json"

// OptionalString distinguishes "field absent" from "field present but
// null". Set is true whenever the key appeared in the payload, even with
// a null value.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte(`null`), nil
	}
	return json.Marshal(*o.Value)
}
