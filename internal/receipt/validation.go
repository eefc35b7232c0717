package receipt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// Amounts carry at most 12 integer digits so scoring stays well inside
	// the int range.
	moneyPattern     = regexp.MustCompile(`^\d{1,12}\.\d{2}$`)
	shortDescPattern = regexp.MustCompile(`^[A-Za-z0-9\s\-]+$`)
	tokenPattern     = regexp.MustCompile(`^\S+$`)
)

// ValidationError reports a receipt that does not match the request schema
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid receipt: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validator checks decoded receipts against the field patterns
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with the receipt-specific tags registered
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegisterPattern(v, "money", moneyPattern)
	mustRegisterPattern(v, "shortdesc", shortDescPattern)
	mustRegisterPattern(v, "nowhitespace", tokenPattern)
	return &Validator{validate: v}
}

func mustRegisterPattern(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("registering %s validation: %v", tag, err))
	}
}

// Validate checks r against the schema
func (v *Validator) Validate(r *Receipt) error {
	if err := v.validate.Struct(r); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ParseReceipt decodes a JSON receipt, trims the scalar fields the way
// clients have always been allowed to send them, and validates the result.
func (v *Validator) ParseReceipt(data []byte) (*Receipt, error) {
	var r Receipt
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&r); err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("decoding json: %w", err)}
	}

	r.Retailer = strings.TrimSpace(r.Retailer)
	r.PurchaseDate = strings.TrimSpace(r.PurchaseDate)
	r.PurchaseTime = strings.TrimSpace(r.PurchaseTime)
	r.Total = strings.TrimSpace(r.Total)

	if err := v.Validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}
