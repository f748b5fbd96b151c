// internal/poller/builder.go
package poller

import (
	"log"
	"time"

	"github.com/tamzrod/modbus-display-bridge/internal/config"
	"github.com/tamzrod/modbus-display-bridge/internal/transport"
)

// Build constructs a Poller and wires Modbus client lifecycle.
// Connection is reused while healthy.
// On transport death, Poller discards the client and uses factory on a future tick.
// No retries, no loops, no semantics.
// logger receives transport traces and may be nil.
func Build(u config.UnitConfig, logger *log.Logger) (*Poller, func() error, error) {
	// client factory: ONE attempt per call
	factory := func() (Client, error) {
		conn, err := transport.Dial(u.Source.TransportConfig(logger))
		if err != nil {
			return nil, err
		}
		return conn.Unit(u.Source.UnitID), nil
	}

	// initial client (fail fast at startup)
	client, err := factory()
	if err != nil {
		return nil, nil, err
	}

	p, err := New(
		Config{
			UnitID:   u.ID,
			Interval: time.Duration(u.Poll.IntervalMs) * time.Millisecond,
			Fields:   Fields(u),
		},
		client,
		factory,
	)
	if err != nil {
		return nil, nil, err
	}

	return p, p.Close, nil
}

// Fields converts the unit's field list into read geometry.
func Fields(u config.UnitConfig) []FieldRead {
	out := make([]FieldRead, 0, len(u.Fields))
	for _, f := range u.Fields {
		out = append(out, FieldRead{
			Name:     f.Name,
			FC:       f.FC,
			Address:  f.Address,
			Quantity: f.Quantity,
		})
	}
	return out
}
