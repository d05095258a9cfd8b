package checkout

import (
	"strings"
	"unicode/utf8"

	"github.com/oxygenixlabs/storefront/pkg/db/models"
	"github.com/oxygenixlabs/storefront/pkg/enums"
	pkgerrors "github.com/oxygenixlabs/storefront/pkg/errors"
	"github.com/oxygenixlabs/storefront/pkg/types"
)

func normalizeAddress(a models.ShippingAddress) models.ShippingAddress {
	return models.ShippingAddress{
		FullName: strings.TrimSpace(a.FullName),
		Phone:    strings.TrimSpace(a.Phone),
		Line1:    strings.TrimSpace(a.Line1),
		Line2:    strings.TrimSpace(a.Line2),
		City:     strings.TrimSpace(a.City),
		State:    strings.TrimSpace(a.State),
		Pincode:  strings.TrimSpace(a.Pincode),
	}
}

// validateInput checks the address and payment method. Field errors are
// reported together under the JSON field names.
func validateInput(a models.ShippingAddress, method string) (enums.PaymentMethod, error) {
	details := map[string]string{}

	if n := utf8.RuneCountInString(a.FullName); n < 2 || n > 50 {
		details["fullName"] = "must be between 2 and 50 characters"
	}
	if !types.IsIndianPhone(a.Phone) {
		details["phone"] = "must be a valid Indian phone number"
	}
	if utf8.RuneCountInString(a.Line1) < 5 {
		details["line1"] = "must be at least 5 characters"
	}
	if utf8.RuneCountInString(a.City) < 2 {
		details["city"] = "is required"
	}
	if utf8.RuneCountInString(a.State) < 2 {
		details["state"] = "is required"
	}
	if !types.IsPincode(a.Pincode) {
		details["pincode"] = "must be a 6-digit pincode"
	}

	pm, err := enums.ParsePaymentMethod(strings.ToLower(strings.TrimSpace(method)))
	if err != nil {
		details["paymentMethod"] = "must be one of card, upi, cod"
	}

	if len(details) > 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pm, nil
}
