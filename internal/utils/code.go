package utils

import (
	"crypto/rand"
)

// Event codes go into registration links and QR codes, so the charset avoids
// characters that read ambiguously when printed (0/O, 1/I/L).
const codeCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateEventCode returns a short uppercase code of the given length.
func GenerateEventCode(length int) (string, error) {
	code := make([]byte, length)
	if _, err := rand.Read(code); err != nil {
		return "", err
	}
	for i := 0; i < length; i++ {
		code[i] = codeCharset[int(code[i])%len(codeCharset)]
	}
	return string(code), nil
}
