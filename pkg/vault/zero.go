package vault

// SecureZero overwrites b with zero bytes in place. It is used on every
// transient buffer that ever held key material or a passphrase: the
// derived wrapping key, the master key, intermediate AEAD ciphertexts, and
// the decrypted database JSON. Adapted from the teacher's
// crypto.SecureZero; this codec has no OS-specific mlock path, so a plain
// overwrite is all that's provided — good enough to keep secrets out of a
// later heap dump, not a defense against an attacker who can read live
// process memory.
func SecureZero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
