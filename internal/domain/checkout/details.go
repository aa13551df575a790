package checkout

import (
	"regexp"
	"strings"
)

// ukPostcodeRE matches UK postcodes after trimming and upper-casing, plus the
// special-cased GIR 0AA.
var ukPostcodeRE = regexp.MustCompile(`^(GIR 0AA|[A-Z]{1,2}[0-9]{1,2}[A-Z]?\s?[0-9][A-Z]{2})$`)

// ValidPostcode reports whether s is a valid UK postcode. Input is trimmed
// and upper-cased before matching.
func ValidPostcode(s string) bool {
	return ukPostcodeRE.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// DeliveryDetails is the delivery address captured between the cart and the
// payment step. It is held in the session, and is re-stored even when invalid
// so the form can be repopulated.
type DeliveryDetails struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
}

// Normalize trims every field and upper-cases the postcode.
func (d *DeliveryDetails) Normalize() {
	d.FullName = strings.TrimSpace(d.FullName)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Address1 = strings.TrimSpace(d.Address1)
	d.Address2 = strings.TrimSpace(d.Address2)
	d.City = strings.TrimSpace(d.City)
	d.Postcode = strings.ToUpper(strings.TrimSpace(d.Postcode))
}

// Validate checks the delivery details and returns every failing field.
// A nil return means the details are acceptable.
func (d DeliveryDetails) Validate() *ValidationError {
	var fields []FieldError
	if d.FullName == "" {
		fields = append(fields, FieldError{Field: "full_name", Message: "full name is required"})
	}
	if d.Phone == "" {
		fields = append(fields, FieldError{Field: "phone", Message: "phone number is required"})
	}
	if d.Address1 == "" {
		fields = append(fields, FieldError{Field: "address1", Message: "address line 1 is required"})
	}
	if d.City == "" {
		fields = append(fields, FieldError{Field: "city", Message: "town/city is required"})
	}
	if !ValidPostcode(d.Postcode) {
		fields = append(fields, FieldError{Field: "postcode", Message: "enter a valid UK postcode"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
