// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Client abstracts Modbus operations needed by the poller.
// The poller depends on geometry only.
type Client interface {
	ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) // FC 3
	ReadInputRegisters(addr, qty uint16) ([]uint16, error)   // FC 4
}

// Factory makes one attempt to create a connected Client.
type Factory func() (Client, error)

// Config is the minimal runtime config the poller needs.
type Config struct {
	UnitID   string
	Interval time.Duration
	Fields   []FieldRead
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg     Config
	client  Client
	factory Factory
}

// New creates a poller with immutable config.
// factory may be nil, in which case a failed client is never replaced.
func New(cfg Config, client Client, factory Factory) (*Poller, error) {
	if cfg.UnitID == "" {
		return nil, errors.New("poller: unit id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if len(cfg.Fields) == 0 {
		return nil, errors.New("poller: at least one field required")
	}
	if client == nil && factory == nil {
		return nil, errors.New("poller: client or factory required")
	}
	return &Poller{cfg: cfg, client: client, factory: factory}, nil
}

// PollOnce performs exactly one poll cycle.
// All-or-nothing: any failure aborts the cycle.
// A failed read discards the client; the next cycle asks the factory for a new one.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		UnitID: p.cfg.UnitID,
		At:     time.Now(),
	}

	if p.client == nil {
		if p.factory == nil {
			res.Err = errors.New("poller: no client")
			return res
		}
		c, err := p.factory()
		if err != nil {
			res.Err = err
			return res
		}
		p.client = c
	}

	fields := make([]FieldResult, 0, len(p.cfg.Fields))

	for _, fr := range p.cfg.Fields {
		var (
			regs []uint16
			err  error
		)

		switch fr.FC {
		case 3:
			regs, err = p.client.ReadHoldingRegisters(fr.Address, fr.Quantity)
		case 4:
			regs, err = p.client.ReadInputRegisters(fr.Address, fr.Quantity)
		default:
			res.Err = fmt.Errorf("poller: field %q: unsupported function code %d", fr.Name, fr.FC)
			return res
		}
		if err != nil {
			p.discard()
			res.Err = err
			return res
		}

		fields = append(fields, FieldResult{
			Name: fr.Name, FC: fr.FC, Address: fr.Address, Quantity: fr.Quantity, Registers: regs,
		})
	}

	// Commit only if all reads succeeded
	res.Fields = fields
	return res
}

// Close releases the current client, if any.
func (p *Poller) Close() error {
	c, ok := p.client.(io.Closer)
	p.client = nil
	if !ok {
		return nil
	}
	return c.Close()
}

func (p *Poller) discard() {
	if p.factory == nil {
		return
	}
	_ = p.Close()
}
