// internal/config/normalize.go
package config

import (
	"strings"

	"github.com/tamzrod/modbus-display-bridge/internal/pins"
	"github.com/tamzrod/modbus-display-bridge/internal/status"
	"github.com/tamzrod/modbus-display-bridge/internal/textnorm"
	"github.com/tamzrod/modbus-display-bridge/internal/transport"
)

const (
	defaultLogLevel   = "info"
	defaultTimeoutMs  = 1000
	defaultIntervalMs = 1000

	// Modbus RTU line default: 19200 8E1.
	defaultBaudRate = 19200
	defaultDataBits = 8
	defaultStopBits = 1
	defaultParity   = "E"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Bridge.StatusMemory.Protocol == "" {
		cfg.Bridge.StatusMemory.Protocol = ProtocolModbus
	}

	for ui := range cfg.Bridge.Units {
		u := &cfg.Bridge.Units[ui]

		normalizeLink(&u.Source.LinkConfig)

		if u.Poll.IntervalMs == 0 {
			u.Poll.IntervalMs = defaultIntervalMs
		}

		for fi := range u.Fields {
			f := &u.Fields[fi]
			f.Display.Width = f.EffectiveWidth()
		}

		for ti := range u.Targets {
			if u.Targets[ti].Protocol == "" {
				u.Targets[ti].Protocol = ProtocolModbus
			}
		}

		// ------------------------------------------------------------
		// DEVICE STATUS BLOCK NORMALIZATION (OPT-IN)
		// ------------------------------------------------------------

		u.Source.DeviceName = strings.TrimSpace(u.Source.DeviceName)

		// Skip units that did not opt in
		if u.Source.StatusSlot == nil {
			continue
		}

		// Device name is stored as display bytes, cut to the name slots.
		// Truncation is expected here; any other condition is lenient.
		name, _ := textnorm.String(u.Source.DeviceName, status.DeviceNameMaxChars, textnorm.Options{})
		u.Source.DisplayName = name
	}

	if p := cfg.Bridge.Pins; p != nil {
		normalizeLink(&p.Link)
		if p.Count == 0 {
			p.Count = pins.DefaultCount
		}
	}
}

func normalizeLink(l *LinkConfig) {
	if l.Transport == "" {
		l.Transport = transport.TransportTCP
	}
	if l.TimeoutMs == 0 {
		l.TimeoutMs = defaultTimeoutMs
	}

	if l.Transport != transport.TransportRTU {
		return
	}
	if l.Serial == nil {
		l.Serial = &SerialConfig{}
	}
	s := l.Serial
	if s.BaudRate == 0 {
		s.BaudRate = defaultBaudRate
	}
	if s.DataBits == 0 {
		s.DataBits = defaultDataBits
	}
	if s.StopBits == 0 {
		s.StopBits = defaultStopBits
	}
	if s.Parity == "" {
		s.Parity = defaultParity
	}
}
