// Package phone normalizes phone numbers to E.164 so the same customer typed
// two ways is still one customer.
package phone

import (
	"strings"
	"sync/atomic"

	"github.com/ttacon/libphonenumber"

	"storeledger/internal/core/apperror"
)

// DefaultRegion is used for numbers written without a country code.
const DefaultRegion = "UZ"

var region atomic.Value

func init() {
	region.Store(DefaultRegion)
}

// SetDefaultRegion changes the region used for local numbers.
// Commands call it once from configuration.
func SetDefaultRegion(r string) {
	r = strings.ToUpper(strings.TrimSpace(r))
	if r == "" {
		r = DefaultRegion
	}
	region.Store(r)
}

// Region returns the current default region.
func Region() string {
	return region.Load().(string)
}

// Normalize parses raw in the default region and returns it in E.164 form.
func Normalize(raw string) (string, error) {
	return NormalizeIn(raw, Region())
}

// NormalizeIn parses raw in the given region and returns it in E.164 form.
func NormalizeIn(raw, regionCode string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", apperror.NewValidation("phone number is required").
			WithDetail("field", "phoneNumber")
	}

	num, err := libphonenumber.Parse(trimmed, regionCode)
	if err != nil {
		return "", invalid(trimmed).WithCause(err)
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", invalid(trimmed)
	}

	return libphonenumber.Format(num, libphonenumber.E164), nil
}

func invalid(value string) *apperror.AppError {
	return apperror.NewValidation("phone number is not valid").
		WithDetail("field", "phoneNumber").
		WithDetail("value", value)
}
