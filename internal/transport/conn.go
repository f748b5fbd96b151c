// internal/transport/conn.go

// Package transport owns Modbus connections (TCP or RTU over a serial line).
package transport

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/goburrow/serial"
)

const (
	TransportTCP = "tcp"
	TransportRTU = "rtu"
)

// RS485Config mirrors the serial line RS485 switches.
type RS485Config struct {
	Enabled            bool
	DelayRtsBeforeSend time.Duration
	DelayRtsAfterSend  time.Duration
	RtsHighDuringSend  bool
	RtsHighAfterSend   bool
	RxDuringTx         bool
}

// SerialConfig holds RTU line settings.
type SerialConfig struct {
	BaudRate int
	DataBits int
	StopBits int
	Parity   string // "N", "E" or "O"
	RS485    RS485Config
}

// Config is the minimal connection config.
type Config struct {
	Transport   string // tcp (default) or rtu
	Endpoint    string // host:port for tcp, device path for rtu
	Timeout     time.Duration
	IdleTimeout time.Duration
	Serial      SerialConfig

	// Logger receives raw frame dumps from the Modbus handler. Optional.
	Logger *log.Logger
}

type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Conn is one Modbus connection. It serializes requests because the unit id
// (SlaveId) is switched per request.
type Conn struct {
	mu       sync.Mutex
	endpoint string
	handler  handler
	client   modbus.Client
	setUnit  func(id uint8)
}

// Dial builds the handler for cfg and connects it.
func Dial(cfg Config) (*Conn, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("transport: endpoint required")
	}

	c := &Conn{endpoint: cfg.Endpoint}

	switch cfg.Transport {
	case TransportTCP, "":
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		h.IdleTimeout = cfg.IdleTimeout
		h.Logger = cfg.Logger
		c.handler = h
		c.setUnit = func(id uint8) { h.SlaveId = id }

	case TransportRTU:
		h := modbus.NewRTUClientHandler(cfg.Endpoint)
		h.BaudRate = cfg.Serial.BaudRate
		h.DataBits = cfg.Serial.DataBits
		h.StopBits = cfg.Serial.StopBits
		h.Parity = cfg.Serial.Parity
		h.Timeout = cfg.Timeout
		h.IdleTimeout = cfg.IdleTimeout
		h.Logger = cfg.Logger
		h.RS485 = serial.RS485Config{
			Enabled:            cfg.Serial.RS485.Enabled,
			DelayRtsBeforeSend: cfg.Serial.RS485.DelayRtsBeforeSend,
			DelayRtsAfterSend:  cfg.Serial.RS485.DelayRtsAfterSend,
			RtsHighDuringSend:  cfg.Serial.RS485.RtsHighDuringSend,
			RtsHighAfterSend:   cfg.Serial.RS485.RtsHighAfterSend,
			RxDuringTx:         cfg.Serial.RS485.RxDuringTx,
		}
		c.handler = h
		c.setUnit = func(id uint8) { h.SlaveId = id }

	default:
		return nil, fmt.Errorf("transport: unsupported transport %q", cfg.Transport)
	}

	if err := c.handler.Connect(); err != nil {
		return nil, fmt.Errorf("transport: connect %s: %w", cfg.Endpoint, err)
	}
	c.client = modbus.NewClient(c.handler)
	return c, nil
}

// Endpoint returns the address the connection was dialed with.
func (c *Conn) Endpoint() string { return c.endpoint }

// Close closes the underlying connection or serial port.
func (c *Conn) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ReadHoldingRegisters reads qty registers with FC 3.
func (c *Conn) ReadHoldingRegisters(unitID uint8, addr, qty uint16) ([]uint16, error) {
	if qty == 0 {
		return nil, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setUnit(unitID)
	raw, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	return unpackRegisters(raw, qty)
}

// ReadInputRegisters reads qty registers with FC 4.
func (c *Conn) ReadInputRegisters(unitID uint8, addr, qty uint16) ([]uint16, error) {
	if qty == 0 {
		return nil, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setUnit(unitID)
	raw, err := c.client.ReadInputRegisters(addr, qty)
	if err != nil {
		return nil, err
	}
	return unpackRegisters(raw, qty)
}

// WriteRegisters writes regs starting at addr (FC 6 for one register,
// FC 16 otherwise).
func (c *Conn) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if len(regs) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setUnit(unitID)
	if len(regs) == 1 {
		_, err := c.client.WriteSingleRegister(addr, regs[0])
		return err
	}
	_, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), packRegisters(regs))
	return err
}

// Unit binds the connection to one unit id.
func (c *Conn) Unit(id uint8) *Unit {
	return &Unit{conn: c, id: id}
}

// Unit is a Conn view addressed to a single unit id.
type Unit struct {
	conn *Conn
	id   uint8
}

func (u *Unit) ReadHoldingRegisters(addr, qty uint16) ([]uint16, error) {
	return u.conn.ReadHoldingRegisters(u.id, addr, qty)
}

func (u *Unit) ReadInputRegisters(addr, qty uint16) ([]uint16, error) {
	return u.conn.ReadInputRegisters(u.id, addr, qty)
}

// ReadRegister reads one holding register.
func (u *Unit) ReadRegister(addr uint16) (uint16, error) {
	regs, err := u.conn.ReadHoldingRegisters(u.id, addr, 1)
	if err != nil {
		return 0, err
	}
	return regs[0], nil
}

// WriteRegister writes one holding register.
func (u *Unit) WriteRegister(addr uint16, value uint16) error {
	return u.conn.WriteRegisters(u.id, addr, []uint16{value})
}

// Close closes the shared connection.
func (u *Unit) Close() error { return u.conn.Close() }

// ExceptionCode extracts the Modbus exception code carried by err.
func ExceptionCode(err error) (uint16, bool) {
	var me *modbus.ModbusError
	if errors.As(err, &me) {
		return uint16(me.ExceptionCode), true
	}
	return 0, false
}

// ---- helpers (pure geometry) ----

func unpackRegisters(data []byte, qty uint16) ([]uint16, error) {
	if len(data)%2 != 0 {
		return nil, errors.New("transport: register payload length not even")
	}
	n := len(data) / 2
	if n < int(qty) {
		return nil, fmt.Errorf("transport: short register payload: got=%d want=%d", n, qty)
	}
	out := make([]uint16, qty)
	for i := range out {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out, nil
}

func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
