package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// currencyCodePattern matches a three-letter uppercase code, per ISO 4217.
var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency represents a single currency. Each Account stores its value in
// one Currency. Currencies are created administratively and never deleted
// while accounts reference them.
type Currency struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidCurrencyCode reports whether code is a well-formed currency code.
func ValidCurrencyCode(code string) bool {
	return currencyCodePattern.MatchString(code)
}
