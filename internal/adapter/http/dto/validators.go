package dto

import (
	"regexp"

	"double-entry-ledger/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Account names are slugs: letters, digits, underscore, dash.
var accountNameRe = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currency_code", validateCurrencyCode)
		_ = v.RegisterValidation("account_name", validateAccountName)
	}
}

// validateCurrencyCode requires a three-letter uppercase code.
func validateCurrencyCode(fl validator.FieldLevel) bool {
	return domain.ValidCurrencyCode(fl.Field().String())
}

// validateAccountName allows alphanumeric, underscore, and dash.
func validateAccountName(fl validator.FieldLevel) bool {
	return accountNameRe.MatchString(fl.Field().String())
}
