// internal/regtext/regtext.go

// Package regtext moves text between byte strings and 16-bit Modbus registers.
// Each register stores two bytes, high byte first. Unused bytes are NUL.
package regtext

// Unpack converts registers into bytes and stops at the first NUL byte.
func Unpack(regs []uint16) []byte {
	out := make([]byte, 0, len(regs)*2)
	for _, r := range regs {
		hi, lo := byte(r>>8), byte(r)
		if hi == 0 {
			return out
		}
		out = append(out, hi)
		if lo == 0 {
			return out
		}
		out = append(out, lo)
	}
	return out
}

// Pack stores b into exactly nregs registers.
// Bytes beyond 2*nregs are dropped; missing bytes are NUL.
func Pack(b []byte, nregs int) []uint16 {
	if nregs < 0 {
		nregs = 0
	}
	out := make([]uint16, nregs)
	for i := 0; i < nregs*2; i += 2 {
		var hi, lo byte
		if i < len(b) {
			hi = b[i]
		}
		if i+1 < len(b) {
			lo = b[i+1]
		}
		out[i/2] = uint16(hi)<<8 | uint16(lo)
	}
	return out
}

// Registers returns how many registers hold n bytes.
func Registers(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + 1) / 2
}
