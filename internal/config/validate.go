// internal/config/validate.go
package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/tamzrod/modbus-display-bridge/internal/pins"
	"github.com/tamzrod/modbus-display-bridge/internal/regtext"
	"github.com/tamzrod/modbus-display-bridge/internal/transport"
)

// maxReadQuantity is the Modbus limit for one FC3/FC4 request.
const maxReadQuantity = 125

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	if cfg.Log.Level != "" {
		if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}

	if len(cfg.Bridge.Units) == 0 {
		return errors.New("bridge: at least one unit required")
	}

	if err := validateUnits(cfg.Bridge.Units); err != nil {
		return err
	}

	if err := validateStatus(cfg); err != nil {
		return err
	}

	if err := validateDisplayGeometry(cfg.Bridge.Units); err != nil {
		return err
	}

	if cfg.Bridge.Pins != nil {
		if err := validatePins(cfg.Bridge.Pins); err != nil {
			return err
		}
	}

	return nil
}

func validateLink(where string, l LinkConfig) error {
	if l.Endpoint == "" {
		return fmt.Errorf("%s: endpoint required", where)
	}
	switch l.Transport {
	case "", transport.TransportTCP:
		if l.Serial != nil {
			return fmt.Errorf("%s: serial settings require transport %q", where, transport.TransportRTU)
		}
	case transport.TransportRTU:
		if l.Serial != nil {
			switch l.Serial.Parity {
			case "", "N", "E", "O":
			default:
				return fmt.Errorf("%s: parity %q must be N, E or O", where, l.Serial.Parity)
			}
			if l.Serial.BaudRate < 0 {
				return fmt.Errorf("%s: baud_rate must be > 0", where)
			}
		}
	default:
		return fmt.Errorf("%s: unsupported transport %q", where, l.Transport)
	}
	if l.TimeoutMs < 0 || l.IdleTimeoutMs < 0 {
		return fmt.Errorf("%s: timeouts must be >= 0", where)
	}
	return nil
}

func validateProtocol(where, p string) error {
	switch p {
	case "", ProtocolModbus, ProtocolIngest:
		return nil
	}
	return fmt.Errorf("%s: unsupported protocol %q", where, p)
}

func validateUnits(units []UnitConfig) error {
	seen := make(map[string]struct{}, len(units))

	for _, u := range units {
		if u.ID == "" {
			return errors.New("unit: id required")
		}
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("unit %q: duplicate id", u.ID)
		}
		seen[u.ID] = struct{}{}

		if err := validateLink(fmt.Sprintf("unit %q: source", u.ID), u.Source.LinkConfig); err != nil {
			return err
		}

		if u.Poll.IntervalMs < 0 {
			return fmt.Errorf("unit %q: poll.interval_ms must be >= 0", u.ID)
		}

		if len(u.Fields) == 0 {
			return fmt.Errorf("unit %q: at least one field required", u.ID)
		}

		names := make(map[string]struct{}, len(u.Fields))
		for _, f := range u.Fields {
			if f.Name == "" {
				return fmt.Errorf("unit %q: field name required", u.ID)
			}
			if _, dup := names[f.Name]; dup {
				return fmt.Errorf("unit %q: duplicate field %q", u.ID, f.Name)
			}
			names[f.Name] = struct{}{}

			if f.FC != 3 && f.FC != 4 {
				return fmt.Errorf("unit %q field %q: fc %d unsupported (3 or 4)", u.ID, f.Name, f.FC)
			}
			if f.Quantity == 0 || f.Quantity > maxReadQuantity {
				return fmt.Errorf("unit %q field %q: quantity must be 1..%d", u.ID, f.Name, maxReadQuantity)
			}
			if f.Display.Width < 0 {
				return fmt.Errorf("unit %q field %q: display.width must be >= 0", u.ID, f.Name)
			}
		}

		if len(u.Targets) == 0 {
			return fmt.Errorf("unit %q: at least one target required", u.ID)
		}
		for _, t := range u.Targets {
			if t.Endpoint == "" {
				return fmt.Errorf("unit %q: target endpoint required", u.ID)
			}
			if t.ID > 255 {
				return fmt.Errorf("unit %q: target id %d out of range", u.ID, t.ID)
			}
			if err := validateProtocol(fmt.Sprintf("unit %q target %s", u.ID, t.Endpoint), t.Protocol); err != nil {
				return err
			}
		}
	}
	return nil
}

// ------------------------------------------------------------
// DEVICE STATUS BLOCK VALIDATION (PER-TARGET, OPT-IN)
// ------------------------------------------------------------

func validateStatus(cfg *Config) error {
	// key = endpoint | status_unit_id | status_slot
	statusOwner := make(map[string]string)
	anyStatus := false

	for _, u := range cfg.Bridge.Units {
		// status is opt-in
		if u.Source.StatusSlot == nil {
			continue
		}
		anyStatus = true

		slot := *u.Source.StatusSlot

		for _, t := range u.Targets {
			// each target must declare status_unit_id
			if t.StatusUnitID == nil {
				return fmt.Errorf(
					"unit %q: status_slot is set but target %q has no status_unit_id",
					u.ID,
					t.Endpoint,
				)
			}

			key := fmt.Sprintf(
				"%s|%d|%d",
				cfg.Bridge.StatusMemory.Endpoint,
				*t.StatusUnitID,
				slot,
			)

			if prev, exists := statusOwner[key]; exists && prev != u.ID {
				return fmt.Errorf(
					"status_slot collision: endpoint=%s status_unit_id=%d slot=%d used by units %q and %q",
					cfg.Bridge.StatusMemory.Endpoint,
					*t.StatusUnitID,
					slot,
					prev,
					u.ID,
				)
			}

			statusOwner[key] = u.ID
		}
	}

	if anyStatus {
		if cfg.Bridge.StatusMemory.Endpoint == "" {
			return errors.New("status_memory: endpoint required when a unit sets status_slot")
		}
		if err := validateProtocol("status_memory", cfg.Bridge.StatusMemory.Protocol); err != nil {
			return err
		}
	}
	return nil
}

// ------------------------------------------------------------
// DISPLAY MEMORY GEOMETRY VALIDATION
// ------------------------------------------------------------

func validateDisplayGeometry(units []UnitConfig) error {
	type span struct {
		start int
		end   int
		owner string
	}

	// key = endpoint | unit id
	spans := make(map[string][]span)

	for _, u := range units {
		for _, t := range u.Targets {
			key := fmt.Sprintf("%s|%d", t.Endpoint, t.ID)

			for _, f := range u.Fields {
				start := int(t.Offset) + int(f.Display.Address)
				end := start + regtext.Registers(f.EffectiveWidth()) - 1
				owner := u.ID + "/" + f.Name

				if end > 0xFFFF {
					return fmt.Errorf(
						"display range out of bounds: endpoint=%s unit_id=%d field=%s range=%d-%d",
						t.Endpoint, t.ID, owner, start, end,
					)
				}

				for _, s := range spans[key] {
					// overlap check (inclusive)
					if !(end < s.start || start > s.end) {
						return fmt.Errorf(
							"display overlap: endpoint=%s unit_id=%d field=%s range=%d-%d overlaps with %s range=%d-%d",
							t.Endpoint, t.ID, owner, start, end, s.owner, s.start, s.end,
						)
					}
				}

				spans[key] = append(spans[key], span{start: start, end: end, owner: owner})
			}
		}
	}
	return nil
}

func validatePins(p *PinsConfig) error {
	if err := validateLink("pins.link", p.Link); err != nil {
		return err
	}

	count := p.Count
	if count == 0 {
		count = pins.DefaultCount
	}
	if count < 0 || count > 256 {
		return fmt.Errorf("pins: count %d out of range", p.Count)
	}
	if int(p.BaseAddress)+(count-1)/2 > 0xFFFF {
		return fmt.Errorf("pins: %d pins at base_address %d exceed the register space", count, p.BaseAddress)
	}

	assigned := make(map[uint8]struct{}, len(p.Modes))
	for _, m := range p.Modes {
		if int(m.Pin) >= count {
			return fmt.Errorf("pins: pin %d outside 0..%d", m.Pin, count-1)
		}
		if _, dup := assigned[m.Pin]; dup {
			return fmt.Errorf("pins: pin %d assigned twice", m.Pin)
		}
		assigned[m.Pin] = struct{}{}
	}
	return nil
}
