package qrimg

import (
	"strings"
	"testing"
)

func TestEncodeEmptyChallenge(t *testing.T) {
	if _, err := Encode(""); err == nil {
		t.Fatal("expected error for empty challenge")
	}
}

func TestEncodeProducesDataURL(t *testing.T) {
	out, err := Encode("2@AbCdEfGh1234")
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasPrefix(out, "data:image/png;base64,") {
		t.Fatalf("unexpected prefix: %.40s", out)
	}
	if len(out) < 100 {
		t.Fatalf("suspiciously short image payload: %d bytes", len(out))
	}
}
