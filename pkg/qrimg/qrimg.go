package qrimg

import (
	"encoding/base64"
	"fmt"

	"github.com/skip2/go-qrcode"
)

const pngSize = 256

// Encode renders a pairing challenge string into a PNG data URL suitable
// for direct embedding in an <img> tag.
func Encode(challenge string) (string, error) {
	if challenge == "" {
		return "", fmt.Errorf("empty challenge")
	}
	png, err := qrcode.Encode(challenge, qrcode.Medium, pngSize)
	if err != nil {
		return "", fmt.Errorf("qr encode failed: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
