package vault

import (
	"encoding/hex"
	"fmt"
)

// fixedHex is a byte slice that always serializes to/from a lowercase hex
// string of an exact width. Each wire field (nonce, tag, key, salt) gets
// its own named type below so a malformed document fails at the field that
// is actually wrong, rather than with a generic "bad hex" error.
type fixedHex struct {
	width int
	bytes []byte
}

func (f fixedHex) marshalHex() string {
	return hex.EncodeToString(f.bytes)
}

func (f *fixedHex) unmarshalHex(label, s string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("vault: %s: invalid hex: %w", label, err)
	}
	if len(b) != f.width {
		return fmt.Errorf("vault: %s: want %d bytes, got %d", label, f.width, len(b))
	}
	f.bytes = b
	return nil
}

// Nonce is a 12-byte (96-bit) AES-GCM nonce, hex-encoded on the wire.
type Nonce [12]byte

func (n Nonce) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hex.EncodeToString(n[:]) + `"`), nil
}

func (n *Nonce) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return err
	}
	var fh fixedHex
	fh.width = len(n)
	if err := fh.unmarshalHex("nonce", s); err != nil {
		return err
	}
	copy(n[:], fh.bytes)
	return nil
}

// Tag is a 16-byte (128-bit) AES-GCM authentication tag, hex-encoded.
type Tag [16]byte

func (t Tag) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hex.EncodeToString(t[:]) + `"`), nil
}

func (t *Tag) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return err
	}
	var fh fixedHex
	fh.width = len(t)
	if err := fh.unmarshalHex("tag", s); err != nil {
		return err
	}
	copy(t[:], fh.bytes)
	return nil
}

// WrappedKey is the 32-byte AES-256-GCM ciphertext of a wrapped master key.
type WrappedKey [32]byte

func (k WrappedKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hex.EncodeToString(k[:]) + `"`), nil
}

func (k *WrappedKey) UnmarshalJSON(data []byte) error {
	s, err := unquote(data)
	if err != nil {
		return err
	}
	var fh fixedHex
	fh.width = len(k)
	if err := fh.unmarshalHex("key", s); err != nil {
		return err
	}
	copy(k[:], fh.bytes)
	return nil
}

// Salt is the 32-byte scrypt salt. Aegis-specific: scrypt itself accepts
// any salt length, but the wire format fixes it at 32 bytes.
type Salt [32]byte

func (s Salt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hex.EncodeToString(s[:]) + `"`), nil
}

func (s *Salt) UnmarshalJSON(data []byte) error {
	str, err := unquote(data)
	if err != nil {
		return err
	}
	var fh fixedHex
	fh.width = len(s)
	if err := fh.unmarshalHex("salt", str); err != nil {
		return err
	}
	copy(s[:], fh.bytes)
	return nil
}

func unquote(data []byte) (string, error) {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return "", fmt.Errorf("vault: expected JSON string, got %q", data)
	}
	return string(data[1 : len(data)-1]), nil
}
