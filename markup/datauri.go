package markup

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrInvalidDataURI is returned for image sources that are not base64 data URIs.
var ErrInvalidDataURI = errors.New("invalid data URI")

// DataURI encodes data as a base64 data URI with the given media type.
func DataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI decodes a base64 data URI into its media type and payload.
func ParseDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	mediaType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrInvalidDataURI, err)
	}
	return mediaType, data, nil
}
