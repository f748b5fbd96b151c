// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/tamzrod/modbus-display-bridge/internal/config"
	"github.com/tamzrod/modbus-display-bridge/internal/writer/ingest"
	wmodbus "github.com/tamzrod/modbus-display-bridge/internal/writer/modbus"
)

// BuildPlan converts one unit config into a Writer Plan.
// Assumes config has already passed validation and normalization.
func BuildPlan(u config.UnitConfig, sm config.StatusMemoryConfig) (Plan, error) {
	if u.ID == "" {
		return Plan{}, errors.New("writer: unit.id required")
	}

	plan := Plan{
		UnitID: u.ID,
		Strict: u.Normalize.Strict,
	}

	for _, f := range u.Fields {
		plan.Fields = append(plan.Fields, FieldDest{
			Name:    f.Name,
			Address: f.Display.Address,
			Width:   f.EffectiveWidth(),
			Scroll:  f.Display.Scroll,
		})
	}

	for _, t := range u.Targets {
		plan.Targets = append(plan.Targets, TargetEndpoint{
			TargetID: t.ID,
			Endpoint: t.Endpoint,
			Protocol: protocolOrDefault(t.Protocol),
			Offset:   t.Offset,
		})
	}

	// Status is opt-in; one block per distinct status unit id.
	if u.Source.StatusSlot == nil {
		return plan, nil
	}
	seen := make(map[uint8]struct{})
	for _, t := range u.Targets {
		if t.StatusUnitID == nil {
			return Plan{}, fmt.Errorf("writer: unit %q target %s has no status_unit_id", u.ID, t.Endpoint)
		}
		id := *t.StatusUnitID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		plan.Status = append(plan.Status, StatusPlan{
			Endpoint:   sm.Endpoint,
			Protocol:   protocolOrDefault(sm.Protocol),
			UnitID:     uint32(id),
			BaseSlot:   *u.Source.StatusSlot,
			DeviceName: u.Source.DisplayName,
		})
	}

	return plan, nil
}

func protocolOrDefault(p string) string {
	if p == "" {
		return config.ProtocolModbus
	}
	return p
}

// BuildEndpointClients creates one client per unique protocol and endpoint
// used by plan, status destinations included.
// logger receives Modbus request traces and may be nil.
func BuildEndpointClients(plan Plan, timeout time.Duration, logger *log.Logger) (map[string]endpointClient, func() error, error) {
	type dest struct{ protocol, endpoint string }

	var dests []dest
	unique := map[string]struct{}{}
	add := func(protocol, endpoint string) {
		k := endpointKey(protocol, endpoint)
		if _, ok := unique[k]; ok {
			return
		}
		unique[k] = struct{}{}
		dests = append(dests, dest{protocol, endpoint})
	}
	for _, t := range plan.Targets {
		add(t.Protocol, t.Endpoint)
	}
	for _, s := range plan.Status {
		add(s.Protocol, s.Endpoint)
	}

	clients := make(map[string]endpointClient)
	var closers []func() error

	closeAll := func() error {
		var errs []error
		for _, fn := range closers {
			if err := fn(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	for _, d := range dests {
		var (
			cli    endpointClient
			closer func() error
		)

		switch d.protocol {
		case config.ProtocolModbus:
			c, err := wmodbus.NewEndpointClient(wmodbus.Config{
				Endpoint: d.endpoint,
				Timeout:  timeout,
				Logger:   logger,
			})
			if err != nil {
				_ = closeAll()
				return nil, nil, fmt.Errorf("writer: endpoint %s: %w", d.endpoint, err)
			}
			cli, closer = c, c.Close

		case config.ProtocolIngest:
			c, err := ingest.NewEndpointClient(ingest.Config{
				Endpoint: d.endpoint,
				Timeout:  timeout,
			})
			if err != nil {
				_ = closeAll()
				return nil, nil, fmt.Errorf("writer: endpoint %s: %w", d.endpoint, err)
			}
			cli, closer = c, c.Close

		default:
			_ = closeAll()
			return nil, nil, fmt.Errorf("writer: unsupported protocol %q for %s", d.protocol, d.endpoint)
		}

		clients[endpointKey(d.protocol, d.endpoint)] = cli
		closers = append(closers, closer)
	}

	return clients, closeAll, nil
}
