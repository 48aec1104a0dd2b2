package domain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

// appendLuhnCheckDigit completes a digit prefix with its Luhn check digit.
func appendLuhnCheckDigit(prefix string) string {
	sum := 0
	double := true
	for i := len(prefix) - 1; i >= 0; i-- {
		digit := int(prefix[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	check := (10 - sum%10) % 10
	return prefix + strconv.Itoa(check)
}

func TestLuhnCheck(t *testing.T) {
	t.Run("known valid numbers", func(t *testing.T) {
		valid := []string{
			"4111111111111111",
			"4111 1111 1111 1111",
			"5555555555554444",
			"378282246310005",
			"6212345678901265",
			"3530111333300000",
		}
		for _, num := range valid {
			assert.True(t, LuhnCheck(num), "expected %q to pass", num)
		}
	})

	t.Run("appended check digit always passes", func(t *testing.T) {
		prefixes := []string{
			"41111111111111",
			"51234567890123",
			"37828224631000",
			"62123456789012345",
		}
		for _, prefix := range prefixes {
			num := appendLuhnCheckDigit(prefix)
			assert.True(t, LuhnCheck(num), "expected %q to pass", num)
		}
	})

	t.Run("single digit mutation fails", func(t *testing.T) {
		num := "4111111111111111"
		mutated := "4111111111111112"
		assert.False(t, LuhnCheck(mutated))
		assert.True(t, LuhnCheck(num))
	})

	t.Run("fewer than 12 digits fails", func(t *testing.T) {
		assert.False(t, LuhnCheck("4111111111"))
		assert.False(t, LuhnCheck(""))
		// Luhn-valid 10-digit string still fails the length gate.
		assert.False(t, LuhnCheck(appendLuhnCheckDigit("411111111")))
	})

	t.Run("non-digits are stripped before checking", func(t *testing.T) {
		assert.True(t, LuhnCheck("4111-1111-1111-1111"))
	})
}

func TestValidNumberForNetwork(t *testing.T) {
	tests := []struct {
		name    string
		number  string
		network Network
		want    bool
	}{
		{"visa 16 digits", "4111111111111111", NetworkVisa, true},
		{"visa 13 digits", "4111111111111", NetworkVisa, true},
		{"visa 19 digits", "4111111111111111111", NetworkVisa, true},
		{"visa 12 digits too short", "411111111111", NetworkVisa, false},
		{"visa wrong prefix", "5111111111111111", NetworkVisa, false},
		{"mastercard old range", "5555555555554444", NetworkMastercard, true},
		{"mastercard new range", "2221000000000009", NetworkMastercard, true},
		{"mastercard range edge 2720", "2720990000000000", NetworkMastercard, true},
		{"mastercard out of range", "2121000000000000", NetworkMastercard, false},
		{"mastercard wrong length", "555555555555444", NetworkMastercard, false},
		{"amex 34 prefix", "343434343434343", NetworkAmex, true},
		{"amex 37 prefix", "378282246310005", NetworkAmex, true},
		{"amex wrong length", "3782822463100051", NetworkAmex, false},
		{"amex wrong prefix", "353434343434343", NetworkAmex, false},
		{"unionpay 16 digits", "6212345678901265", NetworkUnionPay, true},
		{"unionpay 19 digits", "6212345678901234567", NetworkUnionPay, true},
		{"unionpay wrong prefix", "6512345678901265", NetworkUnionPay, false},
		{"unionpay too short", "621234567890126", NetworkUnionPay, false},
		{"jcb in range", "3530111333300000", NetworkJCB, true},
		{"jcb range edge 3589", "3589111333300000", NetworkJCB, true},
		{"jcb out of range", "3527111333300000", NetworkJCB, false},
		{"jcb wrong length", "353011133330000", NetworkJCB, false},
		{"unknown network", "4111111111111111", Network("Discover"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidNumberForNetwork(tt.number, tt.network))
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain 16 digits", "4111111111111111", "4111 1111 1111 1111"},
		{"punctuation stripped", "4111-1111-1111-1111", "4111 1111 1111 1111"},
		{"15 digits groups 4-4-4-3", "378282246310005", "3782 8224 6310 005"},
		{"short input", "41", "41"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.raw))
		})
	}

	t.Run("idempotent on its own output", func(t *testing.T) {
		for _, raw := range []string{"4111111111111111", "378282246310005", "6212345678901265"} {
			once := FormatNumber(raw)
			assert.Equal(t, once, FormatNumber(once))
		}
	})
}

func TestMaskNumber(t *testing.T) {
	assert.Equal(t, "•••• •••• •••• 1111", MaskNumber("4111111111111111"))
	assert.Equal(t, "•••• •••• •••0 005", MaskNumber("378282246310005"))
	assert.Equal(t, "1111", MaskNumber("1111"))
	assert.Equal(t, "123", MaskNumber("123"))
}

func TestMaskNumberForNetwork(t *testing.T) {
	// Amex 15-digit numbers group as 4-6-5; every other network uses blocks of 4.
	assert.Equal(t, "•••• •••••• •0005", MaskNumberForNetwork("378282246310005", NetworkAmex))
	assert.Equal(t, "•••• •••• •••• 1111", MaskNumberForNetwork("4111111111111111", NetworkVisa))
	assert.Equal(t, "•••• •••• •••• •••4 561", MaskNumberForNetwork("6212345678901234561", NetworkUnionPay))
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "4111111111111111", NormalizeDigits("4111 1111 1111 1111"))
	assert.Equal(t, "4111111111111111", NormalizeDigits("4111-1111-1111-1111"))
	assert.Equal(t, "", NormalizeDigits("abc"))
}
