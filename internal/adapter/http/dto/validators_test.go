package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validate(t *testing.T, v any) error {
	t.Helper()
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return engine.Struct(v)
}

func TestCreateCurrencyRequest_CodeValidation(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"AAA", true},
		{"VND", true},
		{"usd", false},
		{"ABCD", false},
		{"AB", false},
		{"A1B", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := validate(t, CreateCurrencyRequest{Code: tt.code})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCreateAccountRequest_NameValidation(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"bob123", true},
		{"alice-b_2", true},
		{"has space", false},
		{"semi;colon", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate(t, CreateAccountRequest{ID: tt.name, Currency: "AAA"})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCreateAccountRequest_OwnerMustBeUUID(t *testing.T) {
	owner := "not-a-uuid"
	err := validate(t, CreateAccountRequest{ID: "bob123", Currency: "AAA", Owner: &owner})
	assert.Error(t, err)

	owner = "0d19extra"
	err = validate(t, CreateAccountRequest{ID: "bob123", Currency: "AAA", Owner: &owner})
	assert.Error(t, err)

	owner = "7f9c24e6-3a1d-4c7b-9d2e-5a8b1c3d4e5f"
	err = validate(t, CreateAccountRequest{ID: "bob123", Currency: "AAA", Owner: &owner})
	assert.NoError(t, err)
}

func TestTransferRequest_Validation(t *testing.T) {
	err := validate(t, TransferRequest{From: "bob123", To: "alice"})
	assert.NoError(t, err)

	err = validate(t, TransferRequest{From: "", To: "alice"})
	assert.Error(t, err)

	err = validate(t, TransferRequest{From: "bob;drop", To: "alice"})
	assert.Error(t, err)
}
