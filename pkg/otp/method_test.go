package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	cases := []struct {
		in   string
		want Method
	}{
		{"totp", TOTP},
		{"TOTP", TOTP},
		{"otp", TOTP},
		{"OTP", TOTP},
		{"hotp", HOTP},
		{"steam", Steam},
		{"motp", Motp},
		{"yandex", Yandex},
	}
	for _, c := range cases {
		got, err := ParseMethod(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseMethodUnsupported(t *testing.T) {
	_, err := ParseMethod("bogus")
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestMethodWireTokenRoundTrip(t *testing.T) {
	for _, m := range []Method{TOTP, HOTP, Steam, Motp, Yandex} {
		got, err := ParseMethod(m.WireToken())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}

func TestMethodFromOrdinal(t *testing.T) {
	assert.Equal(t, TOTP, MethodFromOrdinal(0))
	assert.Equal(t, HOTP, MethodFromOrdinal(1))
	assert.Equal(t, Yandex, MethodFromOrdinal(4))
	assert.Equal(t, DefaultMethod, MethodFromOrdinal(99))
}

func TestMethodPredicates(t *testing.T) {
	assert.True(t, TOTP.IsTimeBased())
	assert.True(t, Steam.IsTimeBased())
	assert.False(t, HOTP.IsTimeBased())
	assert.True(t, HOTP.IsEventBased())
	assert.False(t, TOTP.IsEventBased())

	// Motp and Yandex are neither time- nor event-based in this model.
	assert.False(t, Motp.IsTimeBased())
	assert.False(t, Motp.IsEventBased())
	assert.False(t, Yandex.IsTimeBased())
	assert.False(t, Yandex.IsEventBased())
}

func TestMethodJSON(t *testing.T) {
	data, err := TOTP.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"totp"`, string(data))

	var m Method
	require.NoError(t, m.UnmarshalJSON([]byte(`"steam"`)))
	assert.Equal(t, Steam, m)

	err = m.UnmarshalJSON([]byte(`"bogus"`))
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}
