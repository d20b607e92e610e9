package vault

import "errors"

// Error taxonomy for the envelope/crypto pipeline (C3/C4). Per-slot
// decrypt failures are the one exception that does not bubble up: they are
// logged and the next slot is tried (see recoverMasterKey).
var (
	// ErrUnsupportedEnvelopeVersion is returned when the top-level
	// "version" field is anything other than 1.
	ErrUnsupportedEnvelopeVersion = errors.New("vault: unsupported envelope version")

	// ErrUnsupportedDatabaseVersion is returned when db.version exceeds
	// what this codec knows how to read (currently 3, on both the
	// plaintext and encrypted branches — see SPEC_FULL.md §9).
	ErrUnsupportedDatabaseVersion = errors.New("vault: unsupported database version")

	// ErrPasswordRequired is returned when an encrypted envelope is
	// presented to RestoreFromData without a passphrase.
	ErrPasswordRequired = errors.New("vault: password required")

	// ErrWrongPassword is returned when no header slot's wrapped master
	// key authenticates under the supplied passphrase.
	ErrWrongPassword = errors.New("vault: wrong password")

	// ErrCorruptDatabase is returned when the outer base64 payload fails
	// to decode, the database-plane AEAD fails to authenticate, or the
	// decrypted bytes fail to parse as a Database.
	ErrCorruptDatabase = errors.New("vault: corrupt database")

	// ErrCryptoFailure indicates scrypt rejected its parameters or a
	// cipher rejected a key length — a programmer error or memory
	// corruption, not a user-correctable condition.
	ErrCryptoFailure = errors.New("vault: crypto failure")

	// ErrContractViolation is returned by AddEntry and Encrypt when
	// called on the wrong envelope shape. This is a programmer error.
	ErrContractViolation = errors.New("vault: contract violation")

	// ErrMalformedEnvelope is returned when the top-level "db" field is
	// neither a JSON object nor a JSON string.
	ErrMalformedEnvelope = errors.New("vault: malformed envelope: db is neither object nor string")
)
