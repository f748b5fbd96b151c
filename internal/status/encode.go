// internal/status/encode.go
package status

import "github.com/tamzrod/modbus-display-bridge/internal/regtext"

// Encode converts a Snapshot into a full device status block.
// name is the device name in display bytes; it is cut to
// DeviceNameMaxChars and NUL padded.
// Layout is protocol-locked.
// No IO. No side effects.
func Encode(s Snapshot, name []byte) []uint16 {
	regs := make([]uint16, SlotsPerDevice)

	regs[SlotHealthCode] = s.Health
	regs[SlotLastErrorCode] = s.LastErrorCode
	regs[SlotSecondsInError] = s.SecondsInError
	regs[SlotDegradedFields] = s.DegradedFields

	copy(regs[SlotDeviceNameStart:SlotDeviceNameEnd+1], NameRegisters(name))

	return regs
}

// NameRegisters packs a display name into the device name slots.
func NameRegisters(name []byte) []uint16 {
	if len(name) > DeviceNameMaxChars {
		name = name[:DeviceNameMaxChars]
	}
	return regtext.Pack(name, SlotDeviceNameSlots)
}
