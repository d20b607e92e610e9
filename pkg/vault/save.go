package vault

import (
	"fmt"
	"io"
)

// Save is a convenience wrapper: it encrypts the envelope with passphrase,
// then writes the resulting document as indented JSON to w. Like Encrypt,
// it is only legal on a plaintext envelope.
func (e *Envelope) Save(w io.Writer, passphrase string) error {
	if err := e.Encrypt(passphrase); err != nil {
		return err
	}

	data, err := jsonAPI.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("vault: marshal envelope: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("vault: write envelope: %w", err)
	}
	return nil
}
