package vault

import "github.com/google/uuid"

// newUUID mints a fresh identifier for a Slot this codec creates on
// Encrypt. Entries keep whatever uuid their caller assigned; this codec
// never invents one for a record it only read.
func newUUID() string {
	return uuid.New().String()
}
