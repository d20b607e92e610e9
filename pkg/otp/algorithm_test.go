package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	cases := []struct {
		in   string
		want Algorithm
	}{
		{"SHA1", SHA1},
		{"sha1", SHA1},
		{"SHA256", SHA256},
		{"SHA512", SHA512},
	}
	for _, c := range cases {
		got, err := ParseAlgorithm(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseAlgorithmUnsupported(t *testing.T) {
	_, err := ParseAlgorithm("MD5")
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestAlgorithmWireTokenRoundTrip(t *testing.T) {
	for _, a := range []Algorithm{SHA1, SHA256, SHA512} {
		got, err := ParseAlgorithm(a.WireToken())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
}

func TestAlgorithmFromOrdinal(t *testing.T) {
	assert.Equal(t, SHA1, AlgorithmFromOrdinal(0))
	assert.Equal(t, SHA512, AlgorithmFromOrdinal(2))
	assert.Equal(t, DefaultAlgorithm, AlgorithmFromOrdinal(77))
}
