// cmd/bridge/orchestrator.go
package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/modbus-display-bridge/internal/poller"
	"github.com/tamzrod/modbus-display-bridge/internal/status"
	"github.com/tamzrod/modbus-display-bridge/internal/transport"
	"github.com/tamzrod/modbus-display-bridge/internal/writer"
)

// orchestrator owns one unit's status snapshot. It feeds poll results to
// the display writer and keeps the status block current.
type orchestrator struct {
	data   writer.Writer
	status writer.StatusWriter // nil when status is disabled
	log    *zap.Logger

	snap status.Snapshot
}

func (o *orchestrator) run(ctx context.Context, in <-chan poller.PollResult) {
	// Default snapshot state on start.
	o.snap = status.Snapshot{Health: status.HealthUnknown}

	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	// Full block write on start (identity re-assert) if enabled.
	o.publish("start")

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-in:
			if o.handle(res) {
				o.publish("update")
			}

		case <-secTicker.C:
			if o.tick() {
				o.publish("seconds tick")
			}
		}
	}
}

// handle delivers res and reports whether the snapshot changed.
func (o *orchestrator) handle(res poller.PollResult) bool {
	// --- data delivery ---
	rep, err := o.data.Write(res)
	if err != nil {
		o.log.Warn("writer error", zap.Error(err))
	}

	// --- status update (device-level truth) ---
	next := o.snap

	if res.Err == nil {
		// Recovery / OK. Text loss keeps the device reachable but flagged.
		next.Health = status.HealthOK
		if rep.Degraded > 0 {
			next.Health = status.HealthDegraded
		}
		next.LastErrorCode = 0
		next.SecondsInError = 0
		next.DegradedFields = uint16(rep.Degraded)
	} else {
		o.log.Debug("poll failed", zap.Error(res.Err))
		next.Health = status.HealthError
		// seconds_in_error increments on the 1Hz ticker only.
		next.LastErrorCode = errorCode(res.Err)
	}

	changed := next != o.snap
	o.snap = next
	return changed
}

// tick advances seconds_in_error once per second while the source is failing.
func (o *orchestrator) tick() bool {
	switch o.snap.Health {
	case status.HealthOK, status.HealthDegraded:
		return false
	}
	// HARD INVARIANT: seconds_in_error MUST NOT wrap
	if o.snap.SecondsInError == 0xFFFF {
		return false
	}
	o.snap.SecondsInError++
	return true
}

func (o *orchestrator) publish(reason string) {
	if o.status == nil {
		return
	}
	if err := o.status.WriteStatus(o.snap); err != nil {
		o.log.Warn("status write failed", zap.String("on", reason), zap.Error(err))
	}
}

// errorCode extracts a best-effort uint16 code from an error.
// Modbus exception codes are passed through; otherwise errors exposing a
// code are honoured. If the error does not expose a code, returns 1 (generic error).
func errorCode(err error) uint16 {
	if err == nil {
		return 0
	}

	if code, ok := transport.ExceptionCode(err); ok {
		return code
	}

	type coderA interface{ Code() uint16 }
	type coderB interface{ ErrorCode() uint16 }

	var a coderA
	if errors.As(err, &a) {
		return a.Code()
	}
	var b coderB
	if errors.As(err, &b) {
		return b.ErrorCode()
	}

	return 1
}
