// internal/writer/modbus/client.go
package modbus

import (
	"errors"
	"log"
	"time"

	"github.com/tamzrod/modbus-display-bridge/internal/transport"
)

// EndpointClient is a single Modbus TCP connection to one display endpoint.
// The underlying connection serializes requests because it sets the unit id
// per write.
type EndpointClient struct {
	conn *transport.Conn
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
	Logger   *log.Logger // optional request trace
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer modbus: endpoint required")
	}

	conn, err := transport.Dial(transport.Config{
		Transport: transport.TransportTCP,
		Endpoint:  cfg.Endpoint,
		Timeout:   cfg.Timeout,
		Logger:    cfg.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &EndpointClient{conn: conn}, nil
}

func (c *EndpointClient) Close() error {
	return c.conn.Close()
}

// WriteRegisters writes regs into the holding registers of unitID.
// Modbus targets expose a single writable area, so area is not sent.
func (c *EndpointClient) WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error {
	return c.conn.WriteRegisters(unitID, addr, regs)
}
