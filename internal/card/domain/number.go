package domain

import (
	"strconv"
	"strings"
)

// NormalizeDigits strips everything but digits from a card number.
// Cosmetic spacing is a presentation concern only.
func NormalizeDigits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LuhnCheck validates a card number with the standard alternating-doubling
// checksum. Numbers with fewer than 12 digits always fail.
func LuhnCheck(raw string) bool {
	s := NormalizeDigits(raw)
	if len(s) < 12 {
		return false
	}

	sum := 0
	double := false
	for i := len(s) - 1; i >= 0; i-- {
		digit := int(s[i] - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}
	return sum%10 == 0
}

// ValidNumberForNetwork checks length and leading-digit prefix against the
// numbering rules of the given network.
func ValidNumberForNetwork(raw string, network Network) bool {
	s := NormalizeDigits(raw)
	length := len(s)
	prefix2 := numericPrefix(s, 2)
	prefix4 := numericPrefix(s, 4)

	switch network {
	case NetworkVisa:
		return strings.HasPrefix(s, "4") && length >= 13 && length <= 19
	case NetworkMastercard:
		inOldRange := prefix2 >= 51 && prefix2 <= 55
		inNewRange := prefix4 >= 2221 && prefix4 <= 2720
		return length == 16 && (inOldRange || inNewRange)
	case NetworkAmex:
		return (prefix2 == 34 || prefix2 == 37) && length == 15
	case NetworkUnionPay:
		return strings.HasPrefix(s, "62") && length >= 16 && length <= 19
	case NetworkJCB:
		return prefix4 >= 3528 && prefix4 <= 3589 && length == 16
	default:
		return false
	}
}

// FormatNumber renders a card number for editable display: digits grouped
// in blocks of 4 separated by single spaces. Idempotent.
func FormatNumber(raw string) string {
	return groupDigits(NormalizeDigits(raw), []int{4})
}

// maskRune replaces hidden digits in masked renderings.
const maskRune = "•"

// MaskNumber reveals only the last 4 digits, replacing the rest with a
// placeholder glyph, grouped in blocks of 4.
func MaskNumber(raw string) string {
	digits := NormalizeDigits(raw)
	if len(digits) <= 4 {
		return digits
	}
	masked := strings.Repeat(maskRune, len(digits)-4) + digits[len(digits)-4:]
	return groupMasked(masked, []int{4})
}

// MaskNumberForNetwork masks like MaskNumber but varies the grouping pattern
// by network: Amex 15-digit numbers group as 4-6-5, everything else as
// blocks of 4. The last 4 digits are always the revealed ones.
func MaskNumberForNetwork(raw string, network Network) string {
	digits := NormalizeDigits(raw)
	if len(digits) <= 4 {
		return digits
	}
	masked := strings.Repeat(maskRune, len(digits)-4) + digits[len(digits)-4:]
	if network == NetworkAmex && len(digits) == 15 {
		return groupMasked(masked, []int{4, 6, 5})
	}
	return groupMasked(masked, []int{4})
}

// numericPrefix parses the first n characters as an integer, returning 0
// when the string is shorter or not numeric.
func numericPrefix(s string, n int) int {
	if len(s) < n {
		n = len(s)
	}
	v, err := strconv.Atoi(s[:n])
	if err != nil {
		return 0
	}
	return v
}

// groupDigits splits s into blocks following pattern, repeating the last
// block size for any remainder.
func groupDigits(s string, pattern []int) string {
	if s == "" {
		return ""
	}
	var groups []string
	i, p := 0, 0
	for i < len(s) {
		size := pattern[p]
		if p < len(pattern)-1 {
			p++
		}
		end := i + size
		if end > len(s) {
			end = len(s)
		}
		groups = append(groups, s[i:end])
		i = end
	}
	return strings.Join(groups, " ")
}

// groupMasked is groupDigits over a string that may contain multi-byte
// placeholder runes.
func groupMasked(s string, pattern []int) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return ""
	}
	var groups []string
	i, p := 0, 0
	for i < len(runes) {
		size := pattern[p]
		if p < len(pattern)-1 {
			p++
		}
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		groups = append(groups, string(runes[i:end]))
		i = end
	}
	return strings.Join(groups, " ")
}
