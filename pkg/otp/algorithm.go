package otp

import "strings"

// Algorithm identifies the HMAC primitive an OTP is computed with. The
// codec itself never computes a code; Algorithm is carried through purely
// so a downstream generator can pick the right hash.
type Algorithm uint32

const (
	SHA1 Algorithm = iota
	SHA256
	SHA512
)

// DefaultAlgorithm is used wherever an Algorithm is required but not specified.
const DefaultAlgorithm = SHA1

var algorithmWireTokens = map[Algorithm]string{
	SHA1:   "SHA1",
	SHA256: "SHA256",
	SHA512: "SHA512",
}

// ParseAlgorithm parses the uppercase wire token for an Algorithm,
// case-insensitively.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToUpper(s) {
	case "SHA1":
		return SHA1, nil
	case "SHA256":
		return SHA256, nil
	case "SHA512":
		return SHA512, nil
	default:
		return DefaultAlgorithm, ErrUnsupportedAlgorithm
	}
}

// AlgorithmFromOrdinal never fails: unknown ordinals round down to
// DefaultAlgorithm.
func AlgorithmFromOrdinal(n uint32) Algorithm {
	a := Algorithm(n)
	if _, ok := algorithmWireTokens[a]; !ok {
		return DefaultAlgorithm
	}
	return a
}

// WireToken returns the canonical uppercase JSON token for a.
func (a Algorithm) WireToken() string {
	if s, ok := algorithmWireTokens[a]; ok {
		return s
	}
	return algorithmWireTokens[DefaultAlgorithm]
}

// MarshalJSON encodes a as its wire token.
func (a Algorithm) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.WireToken() + `"`), nil
}

// UnmarshalJSON decodes a wire token into a, surfacing an unrecognized
// token as ErrUnsupportedAlgorithm rather than silently defaulting.
func (a *Algorithm) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseAlgorithm(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
