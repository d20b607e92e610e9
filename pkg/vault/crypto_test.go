package vault

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aegisvault/pkg/otp"
)

func u32(v uint32) *uint32 { return &v }

func masonEntry() otp.Entry {
	return otp.Entry{
		UUID:   "mason-uuid",
		Method: otp.TOTP,
		Label:  "Mason",
		Issuer: "Deno",
		Info: otp.Detail{
			Secret:    "4SJHB4GSD43FZBAI7C2HLRJGPQ",
			Algorithm: otp.SHA1,
			Digits:    6,
			Period:    u32(30),
		},
	}
}

func jamesEntry() otp.Entry {
	return otp.Entry{
		UUID:   "james-uuid",
		Method: otp.HOTP,
		Label:  "James",
		Issuer: "Issuu",
		Info: otp.Detail{
			Secret:    "YOOMIXWS5GN6RTBPUFFWKTW5M4",
			Algorithm: otp.SHA1,
			Digits:    6,
			Counter:   u32(1),
		},
	}
}

// TestEncryptRestoreRoundTrip is S4: construct, add Mason and James,
// encrypt, serialize, deserialize, decrypt; entries compare equal.
func TestEncryptRestoreRoundTrip(t *testing.T) {
	env := NewEnvelope()
	require.NoError(t, env.AddEntry(masonEntry()))
	require.NoError(t, env.AddEntry(jamesEntry()))

	require.NoError(t, env.Encrypt("my-super-secure-password"))
	assert.True(t, env.IsEncrypted())

	data, err := jsonAPI.Marshal(env)
	require.NoError(t, err)

	entries, err := RestoreFromData(data, "my-super-secure-password")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, masonEntry(), entries[0])
	assert.Equal(t, jamesEntry(), entries[1])
}

// TestWrongPassword is S5: decrypting under a different passphrase fails
// with ErrWrongPassword.
func TestWrongPassword(t *testing.T) {
	env := NewEnvelope()
	require.NoError(t, env.AddEntry(masonEntry()))
	require.NoError(t, env.Encrypt("alpha"))

	data, err := jsonAPI.Marshal(env)
	require.NoError(t, err)

	_, err = RestoreFromData(data, "beta")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

// TestPasswordRequired covers decrypting an encrypted envelope with no
// passphrase at all.
func TestPasswordRequired(t *testing.T) {
	env := NewEnvelope()
	require.NoError(t, env.AddEntry(masonEntry()))
	require.NoError(t, env.Encrypt("alpha"))

	data, err := jsonAPI.Marshal(env)
	require.NoError(t, err)

	_, err = RestoreFromData(data, "")
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

// TestEncryptionFreshness is invariant 3: two encryptions of the same
// envelope under the same passphrase produce different ciphertexts and
// different slot salts/nonces.
func TestEncryptionFreshness(t *testing.T) {
	env1 := NewEnvelope()
	require.NoError(t, env1.AddEntry(masonEntry()))
	require.NoError(t, env1.Encrypt("same-password"))

	env2 := NewEnvelope()
	require.NoError(t, env2.AddEntry(masonEntry()))
	require.NoError(t, env2.Encrypt("same-password"))

	assert.NotEqual(t, env1.cipherText, env2.cipherText)
	assert.NotEqual(t, env1.Header.Slots[0].Salt, env2.Header.Slots[0].Salt)
	assert.NotEqual(t, env1.Header.Slots[0].KeyParams.Nonce, env2.Header.Slots[0].KeyParams.Nonce)
	assert.NotEqual(t, env1.Header.Params.Nonce, env2.Header.Params.Nonce)
}

// TestAddEntryOnEncryptedIsContractViolation covers the state machine
// invariant: AddEntry on an Encrypted envelope is a programmer error.
func TestAddEntryOnEncryptedIsContractViolation(t *testing.T) {
	env := NewEnvelope()
	require.NoError(t, env.Encrypt("whatever"))

	err := env.AddEntry(masonEntry())
	assert.ErrorIs(t, err, ErrContractViolation)
}

// TestEncryptTwiceIsContractViolation covers re-encrypting an already
// encrypted envelope.
func TestEncryptTwiceIsContractViolation(t *testing.T) {
	env := NewEnvelope()
	require.NoError(t, env.Encrypt("whatever"))

	err := env.Encrypt("whatever-again")
	assert.ErrorIs(t, err, ErrContractViolation)
}

// TestEnvelopeVersionRejected is S6: a document with top-level version 2
// fails with ErrUnsupportedEnvelopeVersion.
func TestEnvelopeVersionRejected(t *testing.T) {
	raw := []byte(`{"version":2,"header":{"slots":null,"params":null},"db":{"version":1,"entries":[]}}`)
	_, err := RestoreFromData(raw, "")
	assert.ErrorIs(t, err, ErrUnsupportedEnvelopeVersion)
}

// TestPlaintextDatabaseVersionTooHigh covers db.version exceeding the
// readable bound on the plaintext branch.
func TestPlaintextDatabaseVersionTooHigh(t *testing.T) {
	raw := []byte(`{"version":1,"header":{"slots":null,"params":null},"db":{"version":4,"entries":[]}}`)
	_, err := RestoreFromData(raw, "")
	assert.ErrorIs(t, err, ErrUnsupportedDatabaseVersion)
}

// TestSlotOrderFirstWins builds an envelope with two slots — a bad one
// first, a good one second — and confirms decryption still succeeds by
// falling through to the good slot, and that a slot which merely fails to
// authenticate does not abort the whole attempt.
func TestSlotOrderFirstWins(t *testing.T) {
	env := NewEnvelope()
	require.NoError(t, env.AddEntry(masonEntry()))
	require.NoError(t, env.Encrypt("correct-password"))

	goodSlot := env.Header.Slots[0]

	badSlot := goodSlot
	badSlot.UUID = "bad-slot"
	// Corrupt the tag so this slot never authenticates, regardless of
	// which password is tried against it.
	badSlot.KeyParams.Tag[0] ^= 0xFF

	env.Header.Slots = []Slot{badSlot, goodSlot}

	data, err := jsonAPI.Marshal(env)
	require.NoError(t, err)

	entries, err := RestoreFromData(data, "correct-password")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, masonEntry(), entries[0])
}

// TestPlaintextRestoreNoPassphraseNeeded covers the plaintext branch,
// which needs no passphrase at all and normalizes via FixEmptyIssuer.
func TestPlaintextRestoreNoPassphraseNeeded(t *testing.T) {
	env := NewEnvelope()
	require.NoError(t, env.AddEntry(otp.Entry{
		UUID:  "e1",
		Label: "missing-issuer@domain.com",
		Info:  otp.Detail{Secret: "ABC", Algorithm: otp.SHA1, Digits: 6},
	}))

	data, err := jsonAPI.Marshal(env)
	require.NoError(t, err)

	entries, err := RestoreFromData(data, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "domain.com", entries[0].Issuer)
	assert.Equal(t, "missing-issuer", entries[0].Label)
}

func TestMalformedEnvelopeDbShape(t *testing.T) {
	raw := []byte(`{"version":1,"header":{"slots":null,"params":null},"db":42}`)
	var env Envelope
	err := env.UnmarshalJSON(raw)
	assert.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestSecureZero(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	SecureZero(b)
	assert.True(t, bytes.Equal(b, []byte{0, 0, 0, 0}))
}
