package qrcode

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	qr "github.com/skip2/go-qrcode"
)

const (
	codePrefix  = "VMS-"
	DefaultSize = 256
	MaxSize     = 1024
)

// NewCode returns an opaque, unguessable pre-registration code.
func NewCode() string {
	return codePrefix + uuid.NewString()
}

// LooksValid is a cheap shape check done before hitting the database.
func LooksValid(code string) bool {
	if !strings.HasPrefix(code, codePrefix) {
		return false
	}
	_, err := uuid.Parse(strings.TrimPrefix(code, codePrefix))
	return err == nil
}

// PNG renders content as a square PNG of size pixels.
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	png, err := qr.Encode(content, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
