package utils

import (
	"net/http"
)

// UnknownMimeType is returned when the MIME type of data cannot be determined.
const UnknownMimeType = "application/octet-stream"

// DetectMimeType sniffs the MIME type of the provided data using
// http.DetectContentType. Only the first sniffLength bytes are inspected.
func DetectMimeType(data []byte) string {
	if len(data) > sniffLength {
		data = data[:sniffLength]
	}
	return http.DetectContentType(data)
}
