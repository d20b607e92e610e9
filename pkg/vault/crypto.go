package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"

	"aegisvault/pkg/logging"
	"aegisvault/pkg/otp"
)

// masterKeySize is the size in bytes of the random master key that
// actually encrypts the database. It is itself wrapped by a
// passphrase-derived key and stored inside a Slot.
const masterKeySize = 32

// Encrypt consumes a plaintext envelope and replaces it in place with an
// encrypted one. It is a one-way shape change: once Encrypt returns
// successfully, AddEntry and a second call to Encrypt are both contract
// violations (ErrContractViolation). Calling Encrypt on an already
// encrypted envelope is likewise a contract violation.
//
// The pipeline, in order:
//  1. Draw a fresh 32-byte master key from crypto/rand.
//  2. Build a single password Slot: default scrypt parameters (N=2^15,
//     r=8, p=1), a fresh 32-byte salt, a fresh 12-byte slot nonce.
//  3. Derive a 32-byte wrapping key from (passphrase, slot.Salt) via
//     scrypt, using the slot's own N/r/p so a future implementation could
//     vary the cost per slot without breaking this codec.
//  4. AES-256-GCM-seal the master key under the wrapping key with the
//     slot nonce. The 48-byte output splits into slot.Key (first 32
//     bytes) and slot.KeyParams.Tag (trailing 16 bytes) — this is the
//     slot-plane AEAD.
//  5. Serialize the plaintext database to indented JSON.
//  6. AES-256-GCM-seal that JSON under the master key with a fresh
//     12-byte DB nonce — the DB-plane AEAD. The trailing 16 bytes become
//     header.Params.Tag; everything before that is base64-encoded into
//     the envelope's "db" string.
//
// No partial state is observable: the envelope is only mutated once every
// step above has succeeded.
func (e *Envelope) Encrypt(passphrase string) error {
	if e.shape != shapePlaintext {
		return fmt.Errorf("%w: Encrypt on an already-encrypted envelope", ErrContractViolation)
	}

	masterKey := make([]byte, masterKeySize)
	if _, err := io.ReadFull(rand.Reader, masterKey); err != nil {
		return fmt.Errorf("%w: generate master key: %v", ErrCryptoFailure, err)
	}
	defer SecureZero(masterKey)

	slot := Slot{
		Type: SlotTypePassword,
		UUID: newUUID(),
		N:    u32ptr(DefaultScryptN),
		R:    u32ptr(DefaultScryptR),
		P:    u32ptr(DefaultScryptP),
	}
	if _, err := io.ReadFull(rand.Reader, slot.Salt[:]); err != nil {
		return fmt.Errorf("%w: generate slot salt: %v", ErrCryptoFailure, err)
	}
	if _, err := io.ReadFull(rand.Reader, slot.KeyParams.Nonce[:]); err != nil {
		return fmt.Errorf("%w: generate slot nonce: %v", ErrCryptoFailure, err)
	}

	wrappingKey, err := deriveScryptKey(passphrase, slot.Salt[:], slot.scryptN(), slot.scryptR(), slot.scryptP())
	if err != nil {
		return err
	}
	defer SecureZero(wrappingKey)

	wrapped, err := sealGCM(wrappingKey, slot.KeyParams.Nonce[:], masterKey)
	if err != nil {
		return fmt.Errorf("%w: wrap master key: %v", ErrCryptoFailure, err)
	}
	copy(slot.Key[:], wrapped[:masterKeySize])
	copy(slot.KeyParams.Tag[:], wrapped[masterKeySize:])
	SecureZero(wrapped)

	plainJSON, err := jsonAPI.MarshalIndent(e.db, "", "  ")
	if err != nil {
		return fmt.Errorf("vault: marshal database: %w", err)
	}
	defer SecureZero(plainJSON)

	var dbNonce Nonce
	if _, err := io.ReadFull(rand.Reader, dbNonce[:]); err != nil {
		return fmt.Errorf("%w: generate db nonce: %v", ErrCryptoFailure, err)
	}

	sealed, err := sealGCM(masterKey, dbNonce[:], plainJSON)
	if err != nil {
		return fmt.Errorf("%w: encrypt database: %v", ErrCryptoFailure, err)
	}
	defer SecureZero(sealed)

	tagStart := len(sealed) - 16
	cipherBytes := sealed[:tagStart]
	var dbTag Tag
	copy(dbTag[:], sealed[tagStart:])

	e.Header = Header{
		Slots: []Slot{slot},
		Params: &KeyParams{
			Nonce: dbNonce,
			Tag:   dbTag,
		},
	}
	e.cipherText = base64.StdEncoding.EncodeToString(cipherBytes)
	e.db = Database{}
	e.shape = shapeEncrypted

	return nil
}

// RestoreFromData decodes an Aegis JSON document and returns its entries,
// normalized via otp.Entry.FixEmptyIssuer. For a plaintext envelope,
// passphrase is ignored. For an encrypted envelope, passphrase must be
// non-empty or ErrPasswordRequired is returned.
//
// Shape dispatch, version checks, slot iteration, and AEAD failures are
// all handled per SPEC_FULL.md §4 / §9; in particular db.version <= 3 is
// enforced on both branches, and the deliberately slower "n" floating
// point mistake from the original is never present here — scrypt.Key is
// called with the slot's literal N.
func RestoreFromData(data []byte, passphrase string) ([]otp.Entry, error) {
	return RestoreFromDataWithLogger(data, passphrase, nil)
}

// RestoreFromDataWithLogger is RestoreFromData with an explicit logger for
// the per-slot failure path (SPEC_FULL.md §4.7). A nil logger discards
// those messages.
func RestoreFromDataWithLogger(data []byte, passphrase string, log *logging.Logger) ([]otp.Entry, error) {
	// Envelope.UnmarshalJSON is called directly rather than through
	// jsonAPI.Unmarshal, which would flatten its sentinel errors (such as
	// ErrMalformedEnvelope) into plain strings.
	var env Envelope
	if err := env.UnmarshalJSON(data); err != nil {
		return nil, err
	}

	if env.Version != EnvelopeVersion {
		return nil, ErrUnsupportedEnvelopeVersion
	}

	var entries []otp.Entry
	switch env.shape {
	case shapePlaintext:
		if env.db.Version > maxReadableDatabaseVersion {
			return nil, ErrUnsupportedDatabaseVersion
		}
		entries = env.db.Entries
	case shapeEncrypted:
		if passphrase == "" {
			return nil, ErrPasswordRequired
		}
		decrypted, err := decryptDatabase(env, passphrase, log)
		if err != nil {
			return nil, err
		}
		defer SecureZero(decrypted)

		var db Database
		if err := jsonAPI.Unmarshal(decrypted, &db); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptDatabase, err)
		}
		if db.Version > maxReadableDatabaseVersion {
			return nil, ErrUnsupportedDatabaseVersion
		}
		entries = db.Entries
	}

	for i := range entries {
		if err := entries[i].FixEmptyIssuer(); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

// decryptDatabase recovers the master key by trying every password slot
// (first success wins — slot order in JSON is therefore observable), then
// opens the database-plane AEAD with it.
func decryptDatabase(env Envelope, passphrase string, log *logging.Logger) ([]byte, error) {
	if env.Header.Params == nil {
		return nil, fmt.Errorf("%w: missing header params", ErrCorruptDatabase)
	}

	cipherBytes, err := base64.StdEncoding.DecodeString(env.cipherText)
	if err != nil {
		return nil, fmt.Errorf("%w: base64 decode: %v", ErrCorruptDatabase, err)
	}
	sealed := append(cipherBytes, env.Header.Params.Tag[:]...)

	masterKey, err := recoverMasterKey(env.Header.Slots, passphrase, log)
	if err != nil {
		return nil, err
	}
	defer SecureZero(masterKey)

	plain, err := openGCM(masterKey, env.Header.Params.Nonce[:], sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: database AEAD: %v", ErrCorruptDatabase, err)
	}
	return plain, nil
}

// recoverMasterKey iterates the password slots in order and returns the
// plaintext master key from the first one that authenticates. Every other
// slot's failure is logged at Warn and does not abort the loop.
func recoverMasterKey(slots []Slot, passphrase string, log *logging.Logger) ([]byte, error) {
	for i, slot := range slots {
		if slot.Type != SlotTypePassword {
			continue
		}

		wrappingKey, err := deriveScryptKey(passphrase, slot.Salt[:], slot.scryptN(), slot.scryptR(), slot.scryptP())
		if err != nil {
			logWarn(log, "scrypt derivation failed for slot", i, err)
			continue
		}

		wrapped := append(append([]byte{}, slot.Key[:]...), slot.KeyParams.Tag[:]...)
		masterKey, err := openGCM(wrappingKey, slot.KeyParams.Nonce[:], wrapped)
		SecureZero(wrappingKey)
		SecureZero(wrapped)
		if err != nil {
			logWarn(log, "slot failed to unwrap master key", i, err)
			continue
		}
		return masterKey, nil
	}
	return nil, ErrWrongPassword
}

func logWarn(log *logging.Logger, msg string, slotIndex int, err error) {
	if log == nil {
		return
	}
	log.Warn(msg, map[string]interface{}{"slot": slotIndex, "error": err.Error()})
}

// deriveScryptKey derives a masterKeySize-byte key via scrypt. N, r, p are
// passed through to golang.org/x/crypto/scrypt.Key exactly as stored on
// the slot — no log2 conversion, see SPEC_FULL.md §9.
func deriveScryptKey(passphrase string, salt []byte, n, r, p int) ([]byte, error) {
	passphraseBytes := []byte(passphrase)
	defer SecureZero(passphraseBytes)
	key, err := scrypt.Key(passphraseBytes, salt, n, r, p, masterKeySize)
	if err != nil {
		return nil, fmt.Errorf("%w: scrypt: %v", ErrCryptoFailure, err)
	}
	return key, nil
}

func sealGCM(key, nonce, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

func openGCM(key, nonce, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func u32ptr(v uint32) *uint32 { return &v }
