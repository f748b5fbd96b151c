// internal/poller/types.go
package poller

import "time"

// FieldRead describes where one text field is read.
// Geometry only: no semantics.
type FieldRead struct {
	Name     string
	FC       uint8 // 3 or 4
	Address  uint16
	Quantity uint16
}

// FieldResult is the raw result of a single field read.
type FieldResult struct {
	Name     string
	FC       uint8
	Address  uint16
	Quantity uint16

	Registers []uint16
}

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	UnitID string
	At     time.Time

	// RawErrorCode is copied verbatim from the device.
	// 0 means success; non-zero is opaque and device-defined.
	RawErrorCode uint16

	Fields []FieldResult
	Err    error // non-nil means the poll cycle failed
}

// Field returns the result for the named field.
func (r PollResult) Field(name string) (FieldResult, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldResult{}, false
}
