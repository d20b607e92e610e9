package otp

import "strings"

// Method identifies the OTP generation scheme carried by an Entry. The
// numeric ordinal is part of the wire contract: it must stay stable across
// releases since it can be interchanged with other Aegis-compatible tools
// that store the method as a bare integer rather than a string.
type Method uint32

const (
	TOTP Method = iota
	HOTP
	Steam
	Motp
	Yandex
)

// DefaultMethod is used wherever a Method is required but not specified.
const DefaultMethod = TOTP

var methodWireTokens = map[Method]string{
	TOTP:   "totp",
	HOTP:   "hotp",
	Steam:  "steam",
	Motp:   "motp",
	Yandex: "yandex",
}

var methodDisplayLabels = map[Method]string{
	TOTP:   "Time-based",
	HOTP:   "Counter-based",
	Steam:  "Steam",
	Motp:   "MOTP",
	Yandex: "Yandex",
}

// ParseMethod parses the textual wire token for a Method. It is
// case-insensitive and accepts "otp" as a legacy alias for "totp".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "totp", "otp":
		return TOTP, nil
	case "hotp":
		return HOTP, nil
	case "steam":
		return Steam, nil
	case "motp":
		return Motp, nil
	case "yandex":
		return Yandex, nil
	default:
		return DefaultMethod, ErrUnsupportedMethod
	}
}

// MethodFromOrdinal never fails: unknown ordinals round down to
// DefaultMethod so a stored numeric column never becomes un-parseable.
func MethodFromOrdinal(n uint32) Method {
	m := Method(n)
	if _, ok := methodWireTokens[m]; !ok {
		return DefaultMethod
	}
	return m
}

// WireToken returns the canonical lowercase JSON token for m.
func (m Method) WireToken() string {
	if s, ok := methodWireTokens[m]; ok {
		return s
	}
	return methodWireTokens[DefaultMethod]
}

// DisplayLabel returns the human-facing label for m. Never used in JSON.
func (m Method) DisplayLabel() string {
	if s, ok := methodDisplayLabels[m]; ok {
		return s
	}
	return methodDisplayLabels[DefaultMethod]
}

// IsTimeBased reports whether codes generated under m roll over on a
// fixed time period. Only TOTP and Steam are time-based; Motp and Yandex
// are neither time- nor event-based in this model.
func (m Method) IsTimeBased() bool {
	return m == TOTP || m == Steam
}

// IsEventBased reports whether codes generated under m advance on an
// explicit counter (HOTP).
func (m Method) IsEventBased() bool {
	return m == HOTP
}

// MarshalJSON encodes m as its wire token.
func (m Method) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.WireToken() + `"`), nil
}

// UnmarshalJSON decodes a wire token into m. Unlike the Rust original this
// surfaces an unrecognized token as an error instead of silently defaulting
// — see SPEC_FULL.md §9.
func (m *Method) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseMethod(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
