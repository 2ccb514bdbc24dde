// Package conv formats integers into caller-owned buffers. No allocations,
// no fmt or strconv dependency, safe for TinyGo targets.
package conv

// Utoa writes the base-10 representation of n into buf and returns the used
// tail. buf should hold at least 20 bytes for a full uint64.
func Utoa(buf []byte, n uint64) []byte {
	if len(buf) == 0 {
		return buf[:0]
	}
	i := len(buf)
	if n == 0 {
		i--
		buf[i] = '0'
		return buf[i:]
	}
	for n > 0 && i > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return buf[i:]
}

// Itoa writes the base-10 representation of n into buf and returns the used
// tail. buf should hold at least 20 bytes for a full int64.
func Itoa(buf []byte, n int64) []byte {
	if n >= 0 {
		return Utoa(buf, uint64(n))
	}
	s := Utoa(buf, uint64(-n))
	if len(s) == len(buf) {
		return s // no room for the sign
	}
	i := len(buf) - len(s) - 1
	buf[i] = '-'
	return buf[i:]
}
