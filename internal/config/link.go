// internal/config/link.go
package config

import (
	"log"
	"time"

	"github.com/tamzrod/modbus-display-bridge/internal/transport"
)

// TransportConfig converts the link section into a transport config.
// logger may be nil.
func (l LinkConfig) TransportConfig(logger *log.Logger) transport.Config {
	tc := transport.Config{
		Transport:   l.Transport,
		Endpoint:    l.Endpoint,
		Timeout:     time.Duration(l.TimeoutMs) * time.Millisecond,
		IdleTimeout: time.Duration(l.IdleTimeoutMs) * time.Millisecond,
		Logger:      logger,
	}

	if s := l.Serial; s != nil {
		tc.Serial = transport.SerialConfig{
			BaudRate: s.BaudRate,
			DataBits: s.DataBits,
			StopBits: s.StopBits,
			Parity:   s.Parity,
		}
		if r := s.RS485; r != nil {
			tc.Serial.RS485 = transport.RS485Config{
				Enabled:            r.Enabled,
				DelayRtsBeforeSend: time.Duration(r.DelayRtsBeforeSendMs) * time.Millisecond,
				DelayRtsAfterSend:  time.Duration(r.DelayRtsAfterSendMs) * time.Millisecond,
				RtsHighDuringSend:  r.RtsHighDuringSend,
				RtsHighAfterSend:   r.RtsHighAfterSend,
				RxDuringTx:         r.RxDuringTx,
			}
		}
	}
	return tc
}

// Timeout returns the link timeout as a duration.
func (l LinkConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutMs) * time.Millisecond
}

// EffectiveWidth is the display width of f, defaulting to the full source
// field (two bytes per register).
func (f FieldConfig) EffectiveWidth() int {
	if f.Display.Width > 0 {
		return f.Display.Width
	}
	return int(f.Quantity) * 2
}
