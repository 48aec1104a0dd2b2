// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/allisson/cardbook/internal/card/domain"
	apperrors "github.com/allisson/cardbook/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// stringValue indirects pointer fields so the same rules serve both create
// requests (string fields) and patch requests (*string fields). A nil
// pointer means "field absent" and skips the rule.
func stringValue(value interface{}) (string, bool, error) {
	v, isNil := validation.Indirect(value)
	if isNil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, validation.NewError("validation_string_type", "must be a string")
	}
	return s, true, nil
}

// NotBlank validates that a string contains non-whitespace characters.
var NotBlank = validation.By(func(value interface{}) error {
	s, present, err := stringValue(value)
	if err != nil || !present {
		return err
	}
	if s != "" && strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "cannot be blank")
	}
	return nil
})

// LuhnCardNumber validates that a string is a plausible card number:
// 12-19 digits after normalization and a passing Luhn checksum.
var LuhnCardNumber = validation.By(func(value interface{}) error {
	s, present, err := stringValue(value)
	if err != nil || !present {
		return err
	}
	if s == "" {
		return nil // Let Required handle empty strings
	}
	digits := domain.NormalizeDigits(s)
	if len(digits) < 12 || len(digits) > 19 {
		return validation.NewError("validation_card_number_length", "must contain 12 to 19 digits")
	}
	if !domain.LuhnCheck(digits) {
		return validation.NewError("validation_card_number_checksum", "failed checksum validation")
	}
	return nil
})

// CardNumberForNetwork builds a rule checking the number against a network's
// length and prefix rules. The network comes from the same request, so the
// rule is constructed per validation call.
func CardNumberForNetwork(network domain.Network) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, present, err := stringValue(value)
		if err != nil || !present {
			return err
		}
		if s == "" {
			return nil // Let Required handle empty strings
		}
		if !domain.ValidNumberForNetwork(s, network) {
			return validation.NewError(
				"validation_card_number_network",
				"does not match the numbering rules of "+string(network),
			)
		}
		return nil
	})
}

// GradientKey validates that a string names an entry of the gradient palette.
var GradientKey = validation.By(func(value interface{}) error {
	s, present, err := stringValue(value)
	if err != nil || !present {
		return err
	}
	if s == "" {
		return nil // empty resolves to the network default
	}
	if !domain.IsGradientKey(s) {
		return validation.NewError("validation_gradient", "must be a known gradient key")
	}
	return nil
})

// AnnualFeeCondition builds a rule requiring a non-empty condition whenever
// the annual fee is not waived. An absent field keeps the stored condition,
// so only present values are checked.
func AnnualFeeCondition(waived bool) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, present, err := stringValue(value)
		if err != nil || !present {
			return err
		}
		if !waived && strings.TrimSpace(s) == "" {
			return validation.NewError(
				"validation_annual_fee_condition",
				"is required when the annual fee is not waived",
			)
		}
		return nil
	})
}
