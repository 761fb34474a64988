package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	cur, err := ParseCurrency("SEK")
	require.NoError(t, err)
	assert.Equal(t, CurrencySEK, cur)

	_, err = ParseCurrency("EUR")
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	_, err = ParseCurrency("sek")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}
