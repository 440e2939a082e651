package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice(" 19.99 ")
	require.NoError(t, err)
	assert.Equal(t, "19.99", p.String())

	b, err := p.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "19.99", string(b))

	for _, ok := range []string{"0", "1e125", "9.5e-100", "1.500000000000000000000000000000000000000000"} {
		_, err := ParsePrice(ok)
		assert.NoError(t, err, ok)
	}
}

func TestParsePriceRejectsOutOfRange(t *testing.T) {
	for _, bad := range []string{
		"",
		"cheap",
		"1e300000000",
		"1e-300000000",
		"1e126",
		"10e125",
		"1e-131",
		"1.23456789012345678901234567890123456789",
	} {
		_, err := ParsePrice(bad)
		assert.Error(t, err, bad)
	}
}
