// internal/pins/pins.go

// Package pins sets the function of programmable output pins.
//
// Pin functions live in consecutive 16-bit mapping registers, two pins per
// register: an even pin owns the low byte, the following odd pin the high
// byte. Writes are read-modify-write so the neighbouring pin keeps its mode.
package pins

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// DefaultCount is the number of remappable output pins on the controller
// (19 mapping registers).
const DefaultCount = 38

// ErrUnknownPin is returned for a pin outside the configured range.
var ErrUnknownPin = errors.New("pins: unknown pin")

// RegisterIO reads and writes one 16-bit register.
type RegisterIO interface {
	ReadRegister(addr uint16) (uint16, error)
	WriteRegister(addr uint16, value uint16) error
}

// Controller assigns a function (mode) to an output pin.
type Controller interface {
	SetPinMode(pin uint8, mode uint8) error
}

type slot struct {
	addr uint16
	high bool
}

// RegisterController is a Controller backed by mapping registers.
type RegisterController struct {
	mu    sync.Mutex
	io    RegisterIO
	slots []slot
}

var _ Controller = (*RegisterController)(nil)

// NewRegisterController maps count pins onto registers starting at base.
func NewRegisterController(io RegisterIO, base uint16, count int) (*RegisterController, error) {
	if io == nil {
		return nil, errors.New("pins: register io required")
	}
	if count <= 0 || count > 256 {
		return nil, fmt.Errorf("pins: pin count %d out of range", count)
	}
	if int(base)+(count-1)/2 > 0xFFFF {
		return nil, fmt.Errorf("pins: %d pins at base %d exceed the register space", count, base)
	}

	slots := make([]slot, count)
	for pin := range slots {
		slots[pin] = slot{
			addr: base + uint16(pin/2),
			high: pin%2 == 1,
		}
	}
	return &RegisterController{io: io, slots: slots}, nil
}

// Count returns the number of mapped pins.
func (c *RegisterController) Count() int { return len(c.slots) }

// Register returns the mapping register address of pin and whether the pin
// owns its high byte.
func (c *RegisterController) Register(pin uint8) (addr uint16, high bool, err error) {
	if int(pin) >= len(c.slots) {
		return 0, false, fmt.Errorf("%w: %d", ErrUnknownPin, pin)
	}
	s := c.slots[pin]
	return s.addr, s.high, nil
}

// SetPinMode writes mode into pin's half of its mapping register.
func (c *RegisterController) SetPinMode(pin uint8, mode uint8) error {
	addr, high, err := c.Register(pin)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cur, err := c.io.ReadRegister(addr)
	if err != nil {
		return fmt.Errorf("pins: read register %d: %w", addr, err)
	}

	var next uint16
	if high {
		next = uint16(mode)<<8 | cur&0x00FF
	} else {
		next = cur&0xFF00 | uint16(mode)
	}

	if next == cur {
		return nil
	}
	if err := c.io.WriteRegister(addr, next); err != nil {
		return fmt.Errorf("pins: write register %d: %w", addr, err)
	}

	Logger().Debug("pin mode set",
		zap.Uint8("pin", pin),
		zap.Uint8("mode", mode),
		zap.Uint16("register", addr))
	return nil
}

// Assignment is one pin→mode pair.
type Assignment struct {
	Pin  uint8
	Mode uint8
}

// Apply sets every assignment in order and reports all failures.
func Apply(c Controller, assignments []Assignment) error {
	var errs []error
	for _, a := range assignments {
		if err := c.SetPinMode(a.Pin, a.Mode); err != nil {
			errs = append(errs, fmt.Errorf("pin %d: %w", a.Pin, err))
		}
	}
	return errors.Join(errs...)
}
