// internal/writer/writer_test.go
package writer

import (
	"errors"
	"testing"

	"github.com/tamzrod/modbus-display-bridge/internal/poller"
	"github.com/tamzrod/modbus-display-bridge/internal/regtext"
)

// ---- fake endpoint client ----

type fakeEndpointClient struct {
	writes []writeCall
	fail   error

	lastRegs     []uint16
	lastRegsAddr uint16
}

type writeCall struct {
	area   byte
	unitID uint8
	addr   uint16
	regs   []uint16
}

func (f *fakeEndpointClient) WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error {
	if f.fail != nil {
		return f.fail
	}
	f.writes = append(f.writes, writeCall{
		area:   area,
		unitID: unitID,
		addr:   addr,
		regs:   append([]uint16(nil), regs...),
	})
	f.lastRegs = regs
	f.lastRegsAddr = addr
	return nil
}

// ---- helpers ----

func sourceRegs(s string) []uint16 {
	return regtext.Pack([]byte(s), regtext.Registers(len(s))+1)
}

func result(text string) poller.PollResult {
	return poller.PollResult{
		UnitID: "unit-1",
		Fields: []poller.FieldResult{
			{Name: "title", FC: 3, Registers: sourceRegs(text)},
		},
	}
}

func newTestWriter(fake *fakeEndpointClient, f FieldDest, strict bool) Writer {
	plan := Plan{
		UnitID: "unit-1",
		Strict: strict,
		Fields: []FieldDest{f},
		Targets: []TargetEndpoint{
			{TargetID: 2, Endpoint: "ep1", Protocol: "modbus", Offset: 100},
		},
	}
	return New(plan, map[string]endpointClient{
		endpointKey("modbus", "ep1"): fake,
	})
}

// ---- tests ----

func TestWriter_TransliteratesIntoTarget(t *testing.T) {
	fake := &fakeEndpointClient{}
	w := newTestWriter(fake, FieldDest{Name: "title", Address: 4, Width: 8}, false)

	rep, err := w.Write(result("Москва"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Writes != 1 || rep.Degraded != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	got := fake.writes[0]
	if got.addr != 104 { // 100 + 4
		t.Fatalf("expected addr 104, got %d", got.addr)
	}
	if got.unitID != 2 || got.area != areaHoldingRegisters {
		t.Fatalf("unexpected destination: %+v", got)
	}

	want := []uint16{0xCCEE, 0xF1EA, 0xE2E0, 0x0000}
	if len(got.regs) != len(want) {
		t.Fatalf("expected %d regs, got %d", len(want), len(got.regs))
	}
	for i := range want {
		if got.regs[i] != want[i] {
			t.Fatalf("reg %d: got=%#04x want=%#04x", i, got.regs[i], want[i])
		}
	}
}

func TestWriter_TruncatesToWidth(t *testing.T) {
	fake := &fakeEndpointClient{}
	w := newTestWriter(fake, FieldDest{Name: "title", Width: 4}, false)

	if _, err := w.Write(result("Hello")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(regtext.Unpack(fake.lastRegs)) != "Hell" {
		t.Fatalf("got %q", regtext.Unpack(fake.lastRegs))
	}
}

func TestWriter_SkipsUnchanged(t *testing.T) {
	fake := &fakeEndpointClient{}
	w := newTestWriter(fake, FieldDest{Name: "title", Width: 8}, false)

	for i := 0; i < 3; i++ {
		if _, err := w.Write(result("same")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(fake.writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(fake.writes))
	}

	if _, err := w.Write(result("new")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.writes) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(fake.writes))
	}
}

func TestWriter_RetriesAfterFailure(t *testing.T) {
	fake := &fakeEndpointClient{fail: errors.New("link down")}
	w := newTestWriter(fake, FieldDest{Name: "title", Width: 8}, false)

	if _, err := w.Write(result("abc")); err == nil {
		t.Fatalf("expected error, got nil")
	}

	fake.fail = nil
	if _, err := w.Write(result("abc")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.writes) != 1 {
		t.Fatalf("expected retry write, got %d writes", len(fake.writes))
	}
}

func TestWriter_FailedPollWritesNothing(t *testing.T) {
	fake := &fakeEndpointClient{}
	w := newTestWriter(fake, FieldDest{Name: "title", Width: 8}, false)

	res := result("abc")
	res.Err = errors.New("timeout")

	if _, err := w.Write(res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fake.writes) != 0 {
		t.Fatalf("expected no writes, got %d", len(fake.writes))
	}
}

func TestWriter_LenientDropsUnmapped(t *testing.T) {
	fake := &fakeEndpointClient{}
	w := newTestWriter(fake, FieldDest{Name: "title", Width: 8}, false)

	rep, err := w.Write(result("a€b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Degraded != 1 {
		t.Fatalf("expected 1 degraded field, got %d", rep.Degraded)
	}
	if string(regtext.Unpack(fake.lastRegs)) != "ab" {
		t.Fatalf("got %q", regtext.Unpack(fake.lastRegs))
	}
}

func TestWriter_StrictRejectsUnmapped(t *testing.T) {
	fake := &fakeEndpointClient{}
	w := newTestWriter(fake, FieldDest{Name: "title", Width: 8}, true)

	if _, err := w.Write(result("a€b")); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if len(fake.writes) != 0 {
		t.Fatalf("expected no writes, got %d", len(fake.writes))
	}
}

func TestWriter_DecodesEscapes(t *testing.T) {
	fake := &fakeEndpointClient{}
	w := newTestWriter(fake, FieldDest{Name: "title", Width: 8}, false)

	if _, err := w.Write(result(`\41\C3\A9`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(regtext.Unpack(fake.lastRegs)) != "Ae" {
		t.Fatalf("got %q", regtext.Unpack(fake.lastRegs))
	}
}

func TestWriter_Scrolls(t *testing.T) {
	fake := &fakeEndpointClient{}
	w := newTestWriter(fake, FieldDest{Name: "title", Width: 4, Scroll: true}, false)

	var shown []string
	for i := 0; i < 4; i++ {
		if _, err := w.Write(result("abcdef")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		shown = append(shown, string(regtext.Unpack(fake.lastRegs)))
	}

	want := []string{"abcd", "bcde", "cdef", "abcd"}
	for i := range want {
		if shown[i] != want[i] {
			t.Fatalf("step %d: got %q want %q", i, shown[i], want[i])
		}
	}
}

func TestWriter_MissingClient(t *testing.T) {
	plan := Plan{
		UnitID:  "unit-1",
		Fields:  []FieldDest{{Name: "title", Width: 8}},
		Targets: []TargetEndpoint{{TargetID: 1, Endpoint: "nowhere", Protocol: "modbus"}},
	}
	w := New(plan, map[string]endpointClient{})

	if _, err := w.Write(result("abc")); err == nil {
		t.Fatalf("expected missing client error, got nil")
	}
}

func TestWriter_MissingField(t *testing.T) {
	fake := &fakeEndpointClient{}
	w := newTestWriter(fake, FieldDest{Name: "artist", Width: 8}, false)

	if _, err := w.Write(result("abc")); err == nil {
		t.Fatalf("expected missing field error, got nil")
	}
}
