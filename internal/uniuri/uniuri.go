// Package uniuri generates cryptographically random strings from a fixed
// alphabet, used for session identifiers. Bytes outside the usable range
// are rejected rather than reduced modulo the alphabet size, so the output
// distribution stays uniform.
package uniuri

import "crypto/rand"

// StdLen is the default length of a generated string (~95 bits of entropy).
const StdLen = 16

// StdChars is the default alphabet: URL-safe alphanumerics.
var StdChars = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// New returns a random string of the standard length over the standard alphabet.
func New() string {
	return NewLen(StdLen)
}

// NewLen returns a random string of the given length over the standard alphabet.
func NewLen(length int) string {
	return NewLenChars(length, StdChars)
}

// NewLenChars returns a random string of the given length over the given
// alphabet. The alphabet must contain between 2 and 256 bytes.
func NewLenChars(length int, chars []byte) string {
	if length == 0 {
		return ""
	}

	clen := len(chars)
	if clen < 2 || clen > 256 {
		panic("uniuri: wrong charset length for NewLenChars")
	}

	// Largest byte value that maps onto the alphabet without modulo bias.
	maxRb := 255 - (256 % clen)

	var (
		out = make([]byte, length)
		buf = make([]byte, length+length/4+16)
		i   int
	)

	for {
		if _, err := rand.Read(buf); err != nil {
			panic("uniuri: error reading random bytes: " + err.Error())
		}

		for _, rb := range buf {
			c := int(rb)
			if c > maxRb {
				continue
			}

			out[i] = chars[c%clen]
			i++

			if i == length {
				return string(out)
			}
		}
	}
}
