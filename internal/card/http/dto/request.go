// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/cardbook/internal/card/domain"
	customValidation "github.com/allisson/cardbook/internal/validation"
)

// CreateCardRequest contains the parameters for adding a card.
type CreateCardRequest struct {
	CardNumber         string  `json:"cardNumber"`
	Nickname           string  `json:"nickname"`
	Network            string  `json:"network"`
	Level              string  `json:"level"`
	Limit              float64 `json:"limit"`
	Color              string  `json:"color"`
	AnnualFeeWaived    bool    `json:"annualFeeWaived"`
	AnnualFeeCondition string  `json:"annualFeeCondition"`
	ExpiryDate         string  `json:"expiryDate"`
	CardholderName     string  `json:"cardholderName"`
	Notes              string  `json:"notes"`
	IsFavorite         bool    `json:"isFavorite"`
}

// Validate checks if the create card request is valid. The card number must
// pass the Luhn checksum and the rules of the declared network, so the
// network fields are validated first.
func (r *CreateCardRequest) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Network, validation.Required, validation.By(validNetwork)),
		validation.Field(&r.Level, validation.Required, validation.By(validLevel)),
	); err != nil {
		return err
	}

	network, _ := domain.ParseNetwork(r.Network)
	return validation.ValidateStruct(r,
		validation.Field(&r.CardNumber,
			validation.Required,
			customValidation.NotBlank,
			customValidation.LuhnCardNumber,
			customValidation.CardNumberForNetwork(network),
		),
		validation.Field(&r.Nickname, validation.Length(0, domain.MaxNicknameLength)),
		validation.Field(&r.Color, customValidation.GradientKey),
		validation.Field(&r.AnnualFeeCondition, customValidation.AnnualFeeCondition(r.AnnualFeeWaived)),
	)
}

// ToInput converts the request into a domain card input.
func (r *CreateCardRequest) ToInput() domain.CardInput {
	network, _ := domain.ParseNetwork(r.Network)
	level, _ := domain.ParseLevel(r.Level)

	return domain.CardInput{
		CardNumber:         r.CardNumber,
		Nickname:           r.Nickname,
		Network:            network,
		Level:              level,
		Limit:              r.Limit,
		Color:              r.Color,
		AnnualFeeWaived:    r.AnnualFeeWaived,
		AnnualFeeCondition: r.AnnualFeeCondition,
		ExpiryDate:         r.ExpiryDate,
		CardholderName:     r.CardholderName,
		Notes:              r.Notes,
		IsFavorite:         r.IsFavorite,
	}
}

// UpdateCardRequest contains the parameters for partially updating a card.
// Absent fields keep their stored values.
type UpdateCardRequest struct {
	CardNumber         *string  `json:"cardNumber"`
	Nickname           *string  `json:"nickname"`
	Network            *string  `json:"network"`
	Level              *string  `json:"level"`
	Limit              *float64 `json:"limit"`
	Color              *string  `json:"color"`
	AnnualFeeWaived    *bool    `json:"annualFeeWaived"`
	AnnualFeeCondition *string  `json:"annualFeeCondition"`
	ExpiryDate         *string  `json:"expiryDate"`
	CardholderName     *string  `json:"cardholderName"`
	Notes              *string  `json:"notes"`
	IsFavorite         *bool    `json:"isFavorite"`
}

// Validate checks the present fields of an update request. A patched card
// number always passes the Luhn checksum; when the patch also declares a
// network, the network's length and prefix rules apply on top.
func (r *UpdateCardRequest) Validate() error {
	if err := validation.ValidateStruct(r,
		validation.Field(&r.Network, validation.By(validNetwork)),
		validation.Field(&r.Level, validation.By(validLevel)),
	); err != nil {
		return err
	}

	numberRules := []validation.Rule{customValidation.LuhnCardNumber}
	if r.Network != nil {
		network, _ := domain.ParseNetwork(*r.Network)
		numberRules = append(numberRules, customValidation.CardNumberForNetwork(network))
	}

	waived := r.AnnualFeeWaived != nil && *r.AnnualFeeWaived
	return validation.ValidateStruct(r,
		validation.Field(&r.CardNumber, numberRules...),
		validation.Field(&r.Nickname, validation.Length(0, domain.MaxNicknameLength)),
		validation.Field(&r.Color, customValidation.GradientKey),
		validation.Field(&r.AnnualFeeCondition, customValidation.AnnualFeeCondition(waived)),
	)
}

// ToPatch converts the request into a domain card patch.
func (r *UpdateCardRequest) ToPatch() domain.CardPatch {
	patch := domain.CardPatch{
		CardNumber:         r.CardNumber,
		Nickname:           r.Nickname,
		Limit:              r.Limit,
		Color:              r.Color,
		AnnualFeeWaived:    r.AnnualFeeWaived,
		AnnualFeeCondition: r.AnnualFeeCondition,
		ExpiryDate:         r.ExpiryDate,
		CardholderName:     r.CardholderName,
		Notes:              r.Notes,
		IsFavorite:         r.IsFavorite,
	}
	if r.Network != nil {
		if network, err := domain.ParseNetwork(*r.Network); err == nil {
			patch.Network = &network
		}
	}
	if r.Level != nil {
		if level, err := domain.ParseLevel(*r.Level); err == nil {
			patch.Level = &level
		}
	}
	return patch
}

func validNetwork(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	s, _ := v.(string)
	_, err := domain.ParseNetwork(s)
	return err
}

func validLevel(value interface{}) error {
	v, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	s, _ := v.(string)
	_, err := domain.ParseLevel(s)
	return err
}
