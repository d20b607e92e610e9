// Package vault implements the Aegis Authenticator vault codec: the
// envelope layout, key hierarchy, and two-stage AEAD scheme that let a
// passphrase-protected collection of OTP entries round-trip through a
// byte-for-byte Aegis-compatible JSON document.
package vault

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"aegisvault/pkg/otp"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// EnvelopeVersion is the only top-level "version" this codec writes, and
// the only one it accepts on read.
const EnvelopeVersion uint32 = 1

// DatabaseVersion is the inner db.version this codec writes.
const DatabaseVersion uint32 = 3

// maxReadableDatabaseVersion is the highest db.version this codec will
// parse on read, on *either* branch. SPEC_FULL.md §9 aligns the two
// branches at 3 instead of reproducing the original's plaintext-only check.
const maxReadableDatabaseVersion uint32 = 3

// SlotTypePassword is the only Slot.Type this codec processes; other
// values (e.g. a biometric slot) are tolerated and skipped on read.
const SlotTypePassword uint32 = 1

// Default scrypt cost parameters used for every slot this codec writes.
const (
	DefaultScryptN uint32 = 1 << 15
	DefaultScryptR uint32 = 8
	DefaultScryptP uint32 = 1
)

// KeyParams carries the nonce and authentication tag for one AES-256-GCM
// operation. It is used both inside a Slot (wrapping the master key) and
// at the Header level (encrypting the database).
type KeyParams struct {
	Nonce Nonce `json:"nonce"`
	Tag   Tag   `json:"tag"`
}

// Slot is one wrapped copy of the master key, plus the scrypt parameters
// needed to unwrap it with a passphrase.
type Slot struct {
	Type      uint32     `json:"type"`
	UUID      string     `json:"uuid"`
	Key       WrappedKey `json:"key"`
	KeyParams KeyParams  `json:"key_params"`
	N         *uint32    `json:"n,omitempty"`
	R         *uint32    `json:"r,omitempty"`
	P         *uint32    `json:"p,omitempty"`
	Salt      Salt       `json:"salt"`
}

// scryptN returns the slot's N parameter, or the Aegis default if absent.
func (s Slot) scryptN() int {
	if s.N != nil {
		return int(*s.N)
	}
	return int(DefaultScryptN)
}

func (s Slot) scryptR() int {
	if s.R != nil {
		return int(*s.R)
	}
	return int(DefaultScryptR)
}

func (s Slot) scryptP() int {
	if s.P != nil {
		return int(*s.P)
	}
	return int(DefaultScryptP)
}

// Header carries the slot list and the database-plane AEAD parameters.
// Both are nil on a brand-new plaintext envelope and both are populated
// after a successful Encrypt.
type Header struct {
	Slots  []Slot     `json:"slots"`
	Params *KeyParams `json:"params"`
}

// Database is the plaintext OTP collection: the payload this codec
// encrypts on write and decrypts (then parses) on read.
type Database struct {
	Version uint32      `json:"version"`
	Entries []otp.Entry `json:"entries"`
	// Groups is not modeled; it is round-tripped as present/absent opaque
	// JSON per spec.md's non-goals.
	Groups json.RawMessage `json:"groups,omitempty"`
}

// shape discriminates the two legal forms of an Envelope's "db" field.
type shape int

const (
	shapePlaintext shape = iota
	shapeEncrypted
)

// Envelope is the outer Aegis JSON document, in one of two mutually
// exclusive shapes: Plaintext (db is an object) or Encrypted (db is a
// base64 string). The zero value is not valid; use NewEnvelope.
type Envelope struct {
	Version uint32
	Header  Header

	shape      shape
	db         Database // valid when shape == shapePlaintext
	cipherText string   // base64, valid when shape == shapeEncrypted
}

// NewEnvelope returns an empty plaintext envelope: envelope version 1,
// database version 3, no entries, no header slots or params. This is the
// only legal starting state; see the state machine in SPEC_FULL.md §4.4.
func NewEnvelope() *Envelope {
	return &Envelope{
		Version: EnvelopeVersion,
		shape:   shapePlaintext,
		db: Database{
			Version: DatabaseVersion,
		},
	}
}

// IsEncrypted reports whether the envelope has already been encrypted.
func (e *Envelope) IsEncrypted() bool {
	return e.shape == shapeEncrypted
}

// AddEntry appends an entry to the plaintext database. It is a contract
// violation to call this once the envelope has been encrypted.
func (e *Envelope) AddEntry(entry otp.Entry) error {
	if e.shape != shapePlaintext {
		return fmt.Errorf("%w: AddEntry on an encrypted envelope", ErrContractViolation)
	}
	e.db.Entries = append(e.db.Entries, entry)
	return nil
}

// Entries returns the entries of a plaintext envelope. It is a contract
// violation to call this on an encrypted envelope — decrypt it first via
// RestoreFromData.
func (e *Envelope) Entries() ([]otp.Entry, error) {
	if e.shape != shapePlaintext {
		return nil, fmt.Errorf("%w: Entries on an encrypted envelope", ErrContractViolation)
	}
	return e.db.Entries, nil
}

// envelopeWire is the JSON projection of Envelope used for both marshaling
// and the initial pass of unmarshaling, where Db is left as raw JSON so its
// shape (object vs. string) can be inspected before it's decoded for real.
type envelopeWire struct {
	Version uint32          `json:"version"`
	Header  Header          `json:"header"`
	Db      json.RawMessage `json:"db"`
}

// MarshalJSON serializes the envelope to its current shape: an object
// "db" for a plaintext envelope, a base64 string "db" for an encrypted one.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	var rawDB json.RawMessage
	var err error

	switch e.shape {
	case shapePlaintext:
		rawDB, err = jsonAPI.Marshal(e.db)
		if err != nil {
			return nil, fmt.Errorf("vault: marshal db: %w", err)
		}
	case shapeEncrypted:
		rawDB, err = jsonAPI.Marshal(e.cipherText)
		if err != nil {
			return nil, fmt.Errorf("vault: marshal db: %w", err)
		}
	}

	return jsonAPI.Marshal(envelopeWire{
		Version: e.Version,
		Header:  e.Header,
		Db:      rawDB,
	})
}

// UnmarshalJSON decodes an Aegis document into whichever shape its "db"
// field actually has. This is schema-directed dispatch rather than the
// untagged-enum trick the Rust original relies on: we look at the first
// non-whitespace byte of the raw "db" value to tell an object from a
// string before attempting to decode it as either.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	var wire envelopeWire
	if err := jsonAPI.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("vault: decode envelope: %w", err)
	}

	e.Version = wire.Version
	e.Header = wire.Header

	trimmed := skipWhitespace(wire.Db)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '{':
		var db Database
		if err := jsonAPI.Unmarshal(wire.Db, &db); err != nil {
			return fmt.Errorf("vault: decode plaintext db: %w", err)
		}
		e.shape = shapePlaintext
		e.db = db
	case len(trimmed) > 0 && trimmed[0] == '"':
		var cipherText string
		if err := jsonAPI.Unmarshal(wire.Db, &cipherText); err != nil {
			return fmt.Errorf("vault: decode encrypted db: %w", err)
		}
		e.shape = shapeEncrypted
		e.cipherText = cipherText
	default:
		return ErrMalformedEnvelope
	}

	return nil
}

func skipWhitespace(b []byte) []byte {
	i := 0
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\n', '\r':
			i++
			continue
		}
		break
	}
	return b[i:]
}
