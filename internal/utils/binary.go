package utils

import (
	"unicode/utf8"
)

// sniffLength defines the maximum number of bytes inspected when detecting binary content.
const sniffLength = 8000

// IsBinary reports whether the provided byte slice appears to contain binary
// data. Detection is content-based: a NUL byte or invalid UTF-8 within the
// first sniffLength bytes classifies the data as binary. File extensions are
// never consulted.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if len(data) > sniffLength {
		data = data[:sniffLength]
	}
	for _, byteValue := range data {
		if byteValue == 0 {
			return true
		}
	}
	return !utf8.Valid(data)
}
