package decision

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/iTrooz/cryo-dash/internal/market"
)

// ErrInvalidRequest wraps every validation failure
var ErrInvalidRequest = errors.New("invalid analysis request")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("supported_symbol", func(fl validator.FieldLevel) bool {
		_, ok := market.Lookup(fl.Field().String())
		return ok
	})
	return v
}

// Request is one analysis call
type Request struct {
	Symbol  string `json:"symbol" validate:"required,supported_symbol"`
	Minutes int    `json:"minutes" validate:"min=30,max=2880"`
}

// Validate checks the symbol is supported and the horizon is in range
func (r *Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	first := fieldErrs[0]
	switch first.Field() {
	case "Minutes":
		return fmt.Errorf("%w: %w", ErrInvalidRequest, ErrHorizonOutOfRange)
	case "Symbol":
		if first.Tag() == "required" {
			return fmt.Errorf("%w: symbol is required", ErrInvalidRequest)
		}
		return fmt.Errorf("%w: %w %q", ErrInvalidRequest, market.ErrUnsupportedSymbol, r.Symbol)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidRequest, first)
	}
}
