package conv

const hexDigits = "0123456789ABCDEF"

// AppendHex32 appends "0x" and 8 zero-padded uppercase hex digits of n.
func AppendHex32(dst []byte, n uint32) []byte {
	dst = append(dst, '0', 'x')
	for shift := 28; shift >= 0; shift -= 4 {
		dst = append(dst, hexDigits[(n>>uint(shift))&0xF])
	}
	return dst
}

// Hex32 formats n as "0xDEADBEEF" without fmt.
func Hex32(n uint32) string {
	var buf [10]byte
	return string(AppendHex32(buf[:0], n))
}

// AppendHex8 appends two uppercase hex digits of b, without prefix.
func AppendHex8(dst []byte, b byte) []byte {
	return append(dst, hexDigits[b>>4], hexDigits[b&0xF])
}
