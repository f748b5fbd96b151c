// cmd/bridge/orchestrator_test.go
package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goburrow/modbus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tamzrod/modbus-display-bridge/internal/poller"
	"github.com/tamzrod/modbus-display-bridge/internal/status"
	"github.com/tamzrod/modbus-display-bridge/internal/writer"
)

type fakeWriter struct {
	rep writer.Report
	err error
	n   int
}

func (f *fakeWriter) Write(poller.PollResult) (writer.Report, error) {
	f.n++
	return f.rep, f.err
}

type fakeStatus struct {
	got []status.Snapshot
}

func (f *fakeStatus) WriteStatus(s status.Snapshot) error {
	f.got = append(f.got, s)
	return nil
}

func newTestOrchestrator(w writer.Writer, sw writer.StatusWriter) *orchestrator {
	return &orchestrator{
		data:   w,
		status: sw,
		log:    zap.NewNop(),
		snap:   status.Snapshot{Health: status.HealthUnknown},
	}
}

func TestHandle_OKThenError(t *testing.T) {
	o := newTestOrchestrator(&fakeWriter{}, nil)

	require.True(t, o.handle(poller.PollResult{}))
	require.Equal(t, status.HealthOK, o.snap.Health)
	require.False(t, o.handle(poller.PollResult{}))

	require.True(t, o.handle(poller.PollResult{Err: errors.New("timeout")}))
	require.Equal(t, status.HealthError, o.snap.Health)
	require.Equal(t, uint16(1), o.snap.LastErrorCode)
}

func TestHandle_Degraded(t *testing.T) {
	o := newTestOrchestrator(&fakeWriter{rep: writer.Report{Degraded: 2}}, nil)

	require.True(t, o.handle(poller.PollResult{}))
	require.Equal(t, status.HealthDegraded, o.snap.Health)
	require.Equal(t, uint16(2), o.snap.DegradedFields)
	require.False(t, o.tick())
}

func TestTick_CountsWhileFailing(t *testing.T) {
	o := newTestOrchestrator(&fakeWriter{}, nil)
	o.handle(poller.PollResult{Err: errors.New("down")})

	require.True(t, o.tick())
	require.True(t, o.tick())
	require.Equal(t, uint16(2), o.snap.SecondsInError)

	o.snap.SecondsInError = 0xFFFF
	require.False(t, o.tick())

	o.handle(poller.PollResult{})
	require.Zero(t, o.snap.SecondsInError)
	require.False(t, o.tick())
}

func TestPublish(t *testing.T) {
	sw := &fakeStatus{}
	o := newTestOrchestrator(&fakeWriter{}, sw)

	o.publish("start")
	o.handle(poller.PollResult{})
	o.publish("update")

	require.Len(t, sw.got, 2)
	require.Equal(t, status.HealthUnknown, sw.got[0].Health)
	require.Equal(t, status.HealthOK, sw.got[1].Health)

	// disabled status is a no-op
	newTestOrchestrator(&fakeWriter{}, nil).publish("start")
}

type codedErr struct{ code uint16 }

func (e codedErr) Error() string { return "coded" }
func (e codedErr) Code() uint16 { return e.code }

func TestErrorCode(t *testing.T) {
	require.Zero(t, errorCode(nil))
	require.Equal(t, uint16(1), errorCode(errors.New("plain")))
	require.Equal(t, uint16(77), errorCode(fmt.Errorf("wrap: %w", codedErr{77})))

	me := &modbus.ModbusError{FunctionCode: 3, ExceptionCode: modbus.ExceptionCodeIllegalDataAddress}
	require.Equal(t, uint16(2), errorCode(fmt.Errorf("read: %w", me)))
}
