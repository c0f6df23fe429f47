package llmutils

import (
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vincent-petithory/dataurl"
)

// IsDataURI returns true if s is a data: URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// EncodeDataURI returns a base64 data URI for the content.
// When mimeType is empty, it is detected from the content.
func EncodeDataURI(mimeType string, data []byte) string {
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	mimeType, _, _ = strings.Cut(mimeType, ";")
	mimeType = strings.TrimSpace(mimeType)
	return dataurl.New(data, mimeType).String()
}

// DecodeDataURI returns the MIME type and the content of a data URI.
func DecodeDataURI(uri string) (string, []byte, error) {
	if !IsDataURI(uri) {
		return "", nil, errors.New("not a data URI")
	}
	du, err := dataurl.DecodeString(uri)
	if err != nil {
		return "", nil, errors.Wrap(err, "invalid data URI")
	}
	return du.MediaType.ContentType(), du.Data, nil
}
