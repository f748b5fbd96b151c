// internal/writer/types.go
package writer

import "github.com/tamzrod/modbus-display-bridge/internal/poller"

// FieldDest is where one text field lands inside every target.
type FieldDest struct {
	Name    string
	Address uint16 // register offset inside the target, before target offset
	Width   int    // display bytes
	Scroll  bool
}

// TargetEndpoint is one display endpoint and the unit id the text is written to.
type TargetEndpoint struct {
	TargetID uint32
	Endpoint string
	Protocol string
	Offset   uint16
}

// StatusPlan is one status block destination for a unit.
type StatusPlan struct {
	Endpoint   string
	Protocol   string
	UnitID     uint32
	BaseSlot   uint16
	DeviceName []byte // display bytes
}

// Plan is the fully-built write plan for one unit.
type Plan struct {
	UnitID  string
	Strict  bool
	Fields  []FieldDest
	Targets []TargetEndpoint
	Status  []StatusPlan
}

// Report summarizes one Write call.
type Report struct {
	Writes   int // register writes issued
	Degraded int // fields shown with lost or guessed characters
}

// Writer turns poll snapshots into display text and writes it into targets.
type Writer interface {
	Write(res poller.PollResult) (Report, error)
}
