package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCardNumber(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", FormatCardNumber("4111111111111111"))
	assert.Equal(t, "4111 11", FormatCardNumber("4111-11"))
	assert.Equal(t, "4111 1111 1111 1111", FormatCardNumber("41111111111111112222"))
	assert.Equal(t, "", FormatCardNumber("abc"))
}

func TestFormatExpiry(t *testing.T) {
	assert.Equal(t, "1", FormatExpiry("1"))
	assert.Equal(t, "12/", FormatExpiry("12"))
	assert.Equal(t, "12/2", FormatExpiry("122"))
	assert.Equal(t, "12/28", FormatExpiry("12/28"))
	assert.Equal(t, "12/28", FormatExpiry("122899"))
}

func TestSanitizeCVV(t *testing.T) {
	assert.Equal(t, "123", SanitizeCVV("1a2b3"))
	assert.Equal(t, "1234", SanitizeCVV("123456"))
}
