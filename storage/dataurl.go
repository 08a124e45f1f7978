package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyImage   = errors.New("image data is empty")
	ErrInvalidImage = errors.New("image data is not valid base64")
)

// Image is a decoded upload payload.
type Image struct {
	Data        []byte
	Ext         string
	ContentType string
}

// base64 prefixes of the supported signatures
var signatures = []struct {
	prefix      string
	ext         string
	contentType string
}{
	{"iVBOR", "png", "image/png"},
	{"/9j/", "jpg", "image/jpeg"},
	{"R0lG", "gif", "image/gif"},
}

// DecodeDataURL accepts either a data URL ("data:image/png;base64,....") or a
// bare base64 payload. The extension comes from the payload signature, not
// from the declared media type; unknown signatures are stored as jpg.
func DecodeDataURL(s string) (Image, error) {
	payload := strings.TrimSpace(s)
	if i := strings.IndexByte(payload, ','); i >= 0 {
		payload = payload[i+1:]
	}
	if payload == "" {
		return Image{}, ErrEmptyImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	img := Image{Data: data, Ext: "jpg", ContentType: "image/jpeg"}
	for _, sig := range signatures {
		if strings.HasPrefix(payload, sig.prefix) {
			img.Ext = sig.ext
			img.ContentType = sig.contentType
			break
		}
	}
	return img, nil
}
