package checkout

import (
	"regexp"
	"strings"
)

var expiryRE = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

// PaymentCard holds the card fields submitted at the payment step. The card
// is never charged; validation is syntactic only and card data is never
// persisted.
type PaymentCard struct {
	CardholderName  string `json:"card_name"`
	Number          string `json:"card_number"`
	Expiry          string `json:"exp"`
	CVC             string `json:"cvc"`
	BillingPostcode string `json:"billing_postcode"`
	Authorized      bool   `json:"agree"`
}

// Normalize trims fields, strips spaces from the card number, and
// upper-cases the billing postcode.
func (p *PaymentCard) Normalize() {
	p.CardholderName = strings.TrimSpace(p.CardholderName)
	p.Number = strings.ReplaceAll(strings.TrimSpace(p.Number), " ", "")
	p.Expiry = strings.TrimSpace(p.Expiry)
	p.CVC = strings.TrimSpace(p.CVC)
	p.BillingPostcode = strings.ToUpper(strings.TrimSpace(p.BillingPostcode))
}

// Validate checks every card field and reports all failures together.
// A nil return means the submission passes.
func (p PaymentCard) Validate() *ValidationError {
	var fields []FieldError
	if p.CardholderName == "" {
		fields = append(fields, FieldError{Field: "card_name", Message: "name on card is required"})
	}
	if !digitsOnly(p.Number) || len(p.Number) < 12 || len(p.Number) > 19 {
		fields = append(fields, FieldError{Field: "card_number", Message: "card number looks invalid (digits only, 12-19 digits)"})
	}
	if !expiryRE.MatchString(p.Expiry) {
		fields = append(fields, FieldError{Field: "exp", Message: "expiry must be in MM/YY format"})
	}
	if !digitsOnly(p.CVC) || (len(p.CVC) != 3 && len(p.CVC) != 4) {
		fields = append(fields, FieldError{Field: "cvc", Message: "CVC looks invalid (3 or 4 digits)"})
	}
	if !ValidPostcode(p.BillingPostcode) {
		fields = append(fields, FieldError{Field: "billing_postcode", Message: "billing postcode must be a valid UK postcode"})
	}
	if !p.Authorized {
		fields = append(fields, FieldError{Field: "agree", Message: "you must confirm you are authorised to use this payment method"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
