// internal/writer/device_status_writer_test.go
package writer

import (
	"errors"
	"testing"

	"github.com/tamzrod/modbus-display-bridge/internal/status"
)

func statusPlan(units ...uint32) Plan {
	p := Plan{}
	for _, id := range units {
		p.Status = append(p.Status, StatusPlan{
			Endpoint:   "status-endpoint",
			Protocol:   "modbus",
			UnitID:     id,
			BaseSlot:   2,
			DeviceName: []byte{'D', 0xC5, 'V'},
		})
	}
	return p
}

func statusClients(cli endpointClient) map[string]endpointClient {
	return map[string]endpointClient{
		endpointKey("modbus", "status-endpoint"): cli,
	}
}

func TestDeviceNameWrittenOnFullAssertOnly(t *testing.T) {
	cli := &fakeEndpointClient{}
	plan := statusPlan(1)

	sw, enabled := NewDeviceStatusWriter(plan, statusClients(cli))
	if !enabled {
		t.Fatalf("status writer should be enabled")
	}

	// ---- first write: FULL ASSERT ----
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK}); err != nil {
		t.Fatalf("initial full assert failed: %v", err)
	}

	if len(cli.lastRegs) != status.SlotsPerDevice {
		t.Fatalf(
			"expected full block write (%d regs), got %d",
			status.SlotsPerDevice,
			len(cli.lastRegs),
		)
	}
	if cli.lastRegsAddr != 2*status.SlotsPerDevice {
		t.Fatalf("unexpected block addr %d", cli.lastRegsAddr)
	}

	// Verify device name encoding EXACTLY
	expectedNameRegs := status.NameRegisters(plan.Status[0].DeviceName)
	for i := 0; i < status.SlotDeviceNameSlots; i++ {
		slot := status.SlotDeviceNameStart + i
		if cli.lastRegs[slot] != expectedNameRegs[i] {
			t.Fatalf(
				"device name slot %d mismatch: got=%d want=%d",
				slot,
				cli.lastRegs[slot],
				expectedNameRegs[i],
			)
		}
	}
	if cli.lastRegs[status.SlotDeviceNameStart] != 0x44C5 {
		t.Fatalf("display bytes not kept: %#04x", cli.lastRegs[status.SlotDeviceNameStart])
	}

	// ---- second write: INCREMENTAL ONLY ----
	second := status.Snapshot{
		Health:         status.HealthError,
		LastErrorCode:  7,
		SecondsInError: 1,
	}
	if err := sw.WriteStatus(second); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}

	if len(cli.lastRegs) == status.SlotsPerDevice {
		t.Fatalf("device name should not be rewritten on incremental update")
	}
	if len(cli.writes) != 4 { // full + 3 changed slots
		t.Fatalf("expected 4 writes, got %d", len(cli.writes))
	}
}

func TestSecondsInErrorResetOnRecovery(t *testing.T) {
	cli := &fakeEndpointClient{}
	plan := statusPlan(1)

	sw, _ := NewDeviceStatusWriter(plan, statusClients(cli))

	// simulate ERROR
	errSnap := status.Snapshot{
		Health:         status.HealthError,
		LastErrorCode:  42,
		SecondsInError: 3,
	}
	if err := sw.WriteStatus(errSnap); err != nil {
		t.Fatalf("error snapshot write failed: %v", err)
	}

	// simulate recovery
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK}); err != nil {
		t.Fatalf("recovery snapshot write failed: %v", err)
	}

	expectedAddr := plan.Status[0].BaseSlot*status.SlotsPerDevice + status.SlotSecondsInError

	if cli.lastRegsAddr != expectedAddr {
		t.Fatalf("unexpected write addr: got=%d want=%d", cli.lastRegsAddr, expectedAddr)
	}
	if len(cli.lastRegs) != 1 || cli.lastRegs[0] != 0 {
		t.Fatalf("seconds_in_error not reset: %v", cli.lastRegs)
	}
}

func TestDegradedFieldsSlot(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw, _ := NewDeviceStatusWriter(statusPlan(1), statusClients(cli))

	_ = sw.WriteStatus(status.Snapshot{Health: status.HealthOK})
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK, DegradedFields: 2}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	want := uint16(2*status.SlotsPerDevice + status.SlotDegradedFields)
	if cli.lastRegsAddr != want || cli.lastRegs[0] != 2 {
		t.Fatalf("unexpected write: addr=%d regs=%v", cli.lastRegsAddr, cli.lastRegs)
	}
}

func TestFullAssertAfterFailure(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw, _ := NewDeviceStatusWriter(statusPlan(1), statusClients(cli))

	_ = sw.WriteStatus(status.Snapshot{Health: status.HealthOK})

	cli.fail = errors.New("broken pipe")
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError}); err == nil {
		t.Fatalf("expected error, got nil")
	}

	cli.fail = nil
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cli.lastRegs) != status.SlotsPerDevice {
		t.Fatalf("expected full block re-assert, got %d regs", len(cli.lastRegs))
	}
}

func TestStatusFanOut(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw, _ := NewDeviceStatusWriter(statusPlan(1, 9), statusClients(cli))

	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cli.writes) != 2 || cli.writes[0].unitID != 1 || cli.writes[1].unitID != 9 {
		t.Fatalf("unexpected writes: %+v", cli.writes)
	}
}

func TestStatusDisabled(t *testing.T) {
	if _, enabled := NewDeviceStatusWriter(Plan{}, nil); enabled {
		t.Fatalf("status writer should be disabled")
	}
}
