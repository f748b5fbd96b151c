// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"

	"github.com/tamzrod/modbus-display-bridge/internal/status"
)

// StatusWriter is the delivery-only contract for device status.
// It receives a snapshot and writes it verbatim.
// No logic, no state, no interpretation.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// deviceStatusWriter writes one unit's status block into one status unit.
type deviceStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     status.Snapshot
}

// statusWriters fans one snapshot out to every status destination of a unit.
type statusWriters []*deviceStatusWriter

func (ws statusWriters) WriteStatus(s status.Snapshot) error {
	var errs []error
	for _, sw := range ws {
		if err := sw.WriteStatus(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewDeviceStatusWriter builds a status writer if status is enabled for the unit.
// If plan.Status is empty, status is disabled.
func NewDeviceStatusWriter(plan Plan, clients map[string]endpointClient) (StatusWriter, bool) {
	if len(plan.Status) == 0 {
		return nil, false
	}

	ws := make(statusWriters, 0, len(plan.Status))
	for _, sp := range plan.Status {
		ws = append(ws, newDeviceStatusWriter(sp, clients[endpointKey(sp.Protocol, sp.Endpoint)]))
	}
	return ws, true
}

func newDeviceStatusWriter(sp StatusPlan, cli endpointClient) *deviceStatusWriter {
	return &deviceStatusWriter{
		plan:     sp,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		last:     status.Snapshot{Health: status.HealthUnknown},
	}
}

// WriteStatus delivers a device status snapshot into status memory.
// On any write failure, the next successful call will re-assert the full block.
func (sw *deviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw.cli == nil {
		return fmt.Errorf("status writer: missing client for endpoint %s", sw.plan.Endpoint)
	}
	if sw.plan.UnitID > 255 {
		return fmt.Errorf("status writer: unit id %d out of range", sw.plan.UnitID)
	}

	baseAddr := sw.baseAddr()
	unitID := uint8(sw.plan.UnitID)

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		regs := status.Encode(s, sw.plan.DeviceName)

		if err := sw.cli.WriteRegisters(areaHoldingRegisters, unitID, baseAddr, regs); err != nil {
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}

		sw.needFull = false
		sw.last = s
		return nil
	}

	// Live slots, written only when changed.
	slots := []struct {
		name string
		slot uint16
		prev *uint16
		next uint16
	}{
		{"health", status.SlotHealthCode, &sw.last.Health, s.Health},
		{"last_error", status.SlotLastErrorCode, &sw.last.LastErrorCode, s.LastErrorCode},
		{"seconds_in_error", status.SlotSecondsInError, &sw.last.SecondsInError, s.SecondsInError},
		{"degraded_fields", status.SlotDegradedFields, &sw.last.DegradedFields, s.DegradedFields},
	}

	var errs []error
	for _, sl := range slots {
		if *sl.prev == sl.next {
			continue
		}
		if err := sw.cli.WriteRegisters(areaHoldingRegisters, unitID, baseAddr+sl.slot, []uint16{sl.next}); err != nil {
			errs = append(errs, fmt.Errorf("slot%d %s write failed: %w", sl.slot, sl.name, err))
			continue
		}
		*sl.prev = sl.next
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next success.
		sw.needFull = true
		return fmt.Errorf("status writer: %w", errors.Join(errs...))
	}

	return nil
}

func (sw *deviceStatusWriter) baseAddr() uint16 {
	// Each device owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}
