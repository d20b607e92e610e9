package otp

import "strings"

// Entry represents one OTP credential. Tags and Thumbnail are round-tripped
// opaquely: this codec never interprets them, it just preserves whatever
// was present on read through to the next write.
type Entry struct {
	UUID      string `json:"uuid"`
	Method    Method `json:"type"`
	Label     string `json:"name"`
	Issuer    string `json:"issuer,omitempty"`
	Tags      string `json:"groups,omitempty"`
	Thumbnail string `json:"icon,omitempty"`
	Info      Detail `json:"info"`
}

// FixEmptyIssuer reconstructs a missing issuer from legacy entries whose
// label still carries it as a "label@issuer" suffix. If Issuer is already
// set, this is a no-op. Otherwise the label is split on the last '@': the
// trailing segment becomes the issuer and everything before it (rejoined
// with '@', in case the label itself contained one) becomes the new label.
// A label with no '@' at all cannot be fixed and returns ErrMissingIssuer.
func (e *Entry) FixEmptyIssuer() error {
	if e.Issuer != "" {
		return nil
	}

	idx := strings.LastIndex(e.Label, "@")
	if idx < 0 {
		return ErrMissingIssuer
	}

	e.Issuer = e.Label[idx+1:]
	e.Label = e.Label[:idx]
	return nil
}

// Zero scrubs the secret-bearing Detail embedded in the entry.
func (e *Entry) Zero() {
	e.Info.Zero()
}
