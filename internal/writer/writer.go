// internal/writer/writer.go
package writer

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/tamzrod/modbus-display-bridge/internal/display"
	"github.com/tamzrod/modbus-display-bridge/internal/poller"
	"github.com/tamzrod/modbus-display-bridge/internal/regtext"
	"github.com/tamzrod/modbus-display-bridge/internal/textnorm"
)

// endpointClient is the exact contract the writer uses.
// IMPORTANT: There must be NO other version of this interface anywhere.
type endpointClient interface {
	WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error
}

// areaHoldingRegisters is the memory area display text and status land in.
const areaHoldingRegisters byte = 3

// endpointKey identifies one client. The same host may serve several protocols.
func endpointKey(protocol, endpoint string) string {
	return protocol + "://" + endpoint
}

type destKey struct {
	endpoint string
	unitID   uint8
	addr     uint16
}

type displayWriter struct {
	plan    Plan
	clients map[string]endpointClient
	opts    textnorm.Options

	values map[string]*display.Value // scroll state per field
	last   map[destKey][]uint16      // last registers written per destination
}

// New builds a display writer. Clients are keyed by protocol and endpoint.
func New(plan Plan, clients map[string]endpointClient) Writer {
	return &displayWriter{
		plan:    plan,
		clients: clients,
		opts:    textnorm.Options{Strict: plan.Strict},
		values:  make(map[string]*display.Value),
		last:    make(map[destKey][]uint16),
	}
}

// Write renders every planned field of res and delivers it to every target.
// A failed poll writes nothing. Registers identical to the last successful
// write are skipped.
func (w *displayWriter) Write(res poller.PollResult) (Report, error) {
	var rep Report
	if res.Err != nil {
		return rep, nil
	}

	var errs []error

	for _, f := range w.plan.Fields {
		fr, ok := res.Field(f.Name)
		if !ok {
			errs = append(errs, fmt.Errorf("writer: field %q missing from poll result", f.Name))
			continue
		}

		text, degraded, err := w.render(f, regtext.Unpack(fr.Registers))
		if err != nil {
			errs = append(errs, fmt.Errorf("writer: field %q: %w", f.Name, err))
			continue
		}
		if degraded {
			rep.Degraded++
		}

		regs := regtext.Pack(text, regtext.Registers(f.Width))

		for _, tgt := range w.plan.Targets {
			n, err := w.deliver(tgt, f, regs)
			rep.Writes += n
			if err != nil {
				errs = append(errs, err)
			}
		}
	}

	return rep, errors.Join(errs...)
}

// render produces the display bytes for one field.
func (w *displayWriter) render(f FieldDest, raw []byte) ([]byte, bool, error) {
	capacity := f.Width
	if f.Scroll {
		capacity = display.TextSize - 1
	}

	dst := make([]byte, capacity)
	res, err := textnorm.Normalize(dst, raw, w.opts)
	if err != nil && !errors.Is(err, textnorm.ErrOutputFull) {
		Logger().Warn("text rejected",
			zap.String("unit", w.plan.UnitID),
			zap.String("field", f.Name),
			zap.Error(err),
		)
		return nil, false, err
	}
	text := dst[:res.N]

	if res.Degraded() {
		Logger().Debug("text degraded",
			zap.String("unit", w.plan.UnitID),
			zap.String("field", f.Name),
			zap.String("shown", textnorm.Preview(text)),
			zap.Int("dropped", res.Dropped),
			zap.Int("invalid_escapes", res.InvalidEscapes),
			zap.Bool("escape_truncated", res.EscapeTruncated),
			zap.Bool("incomplete", res.Incomplete),
		)
	}

	if !f.Scroll {
		return text, res.Degraded(), nil
	}

	v := w.values[f.Name]
	if v == nil || !bytes.Equal(v.Text, text) {
		nv := display.NewValue(text, 0)
		v = &nv
		w.values[f.Name] = v
	}
	window := v.Window(f.Width)
	v.Advance(f.Width)

	return window, res.Degraded(), nil
}

func (w *displayWriter) deliver(tgt TargetEndpoint, f FieldDest, regs []uint16) (int, error) {
	cli := w.clients[endpointKey(tgt.Protocol, tgt.Endpoint)]
	if cli == nil {
		return 0, fmt.Errorf("writer: missing client for endpoint %s", tgt.Endpoint)
	}
	if tgt.TargetID > 255 {
		return 0, fmt.Errorf("writer: target unit id %d out of range", tgt.TargetID)
	}

	key := destKey{
		endpoint: endpointKey(tgt.Protocol, tgt.Endpoint),
		unitID:   uint8(tgt.TargetID),
		addr:     tgt.Offset + f.Address,
	}
	if prev, ok := w.last[key]; ok && slices.Equal(prev, regs) {
		return 0, nil
	}

	if err := cli.WriteRegisters(areaHoldingRegisters, key.unitID, key.addr, regs); err != nil {
		// Forget the last value so the next cycle retries.
		delete(w.last, key)
		return 1, fmt.Errorf(
			"writer: ep=%s unit=%d field=%s addr=%d err=%w",
			tgt.Endpoint, key.unitID, f.Name, key.addr, err,
		)
	}

	w.last[key] = slices.Clone(regs)

	Logger().Debug("text written",
		zap.String("unit", w.plan.UnitID),
		zap.String("field", f.Name),
		zap.String("endpoint", tgt.Endpoint),
		zap.Uint16("addr", key.addr),
	)
	return 1, nil
}
