package checkout

import "strings"

// Field ids used by the checkout page
const (
	FieldFirstName  = "fname"
	FieldLastName   = "lname"
	FieldStreet     = "street"
	FieldCity       = "city"
	FieldState      = "state"
	FieldZip        = "zip"
	FieldCardNumber = "cardNumber"
	FieldExpiry     = "expiry"
	FieldCVV        = "cvv"
	FieldCardName   = "cardName"
	FieldEmail      = "email"
	FieldPhone      = "phone"
)

// Form is the checkout form as submitted. Email and phone are optional.
type Form struct {
	FirstName  string `json:"fname" validate:"required"`
	LastName   string `json:"lname" validate:"required"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	Zip        string `json:"zip" validate:"required"`
	CardNumber string `json:"cardNumber" validate:"required"`
	Expiry     string `json:"expiry" validate:"required"`
	CVV        string `json:"cvv" validate:"required"`
	CardName   string `json:"cardName" validate:"required"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// requiredFields lists the required fields in page order with their labels
var requiredFields = []struct {
	id    string
	label string
}{
	{FieldFirstName, "First Name"},
	{FieldLastName, "Last Name"},
	{FieldStreet, "Street Address"},
	{FieldCity, "City"},
	{FieldState, "State"},
	{FieldZip, "ZIP Code"},
	{FieldCardNumber, "Card Number"},
	{FieldExpiry, "Expiry Date"},
	{FieldCVV, "CVV"},
	{FieldCardName, "Name on Card"},
}

// FormFromValues builds a Form from field id/value pairs such as a parsed
// HTML form or query string.
func FormFromValues(values map[string]string) Form {
	var f Form
	for id, v := range values {
		f.Set(id, v)
	}
	return f
}

// Get returns the value of the field with the given id
func (f Form) Get(id string) string {
	switch id {
	case FieldFirstName:
		return f.FirstName
	case FieldLastName:
		return f.LastName
	case FieldStreet:
		return f.Street
	case FieldCity:
		return f.City
	case FieldState:
		return f.State
	case FieldZip:
		return f.Zip
	case FieldCardNumber:
		return f.CardNumber
	case FieldExpiry:
		return f.Expiry
	case FieldCVV:
		return f.CVV
	case FieldCardName:
		return f.CardName
	case FieldEmail:
		return f.Email
	case FieldPhone:
		return f.Phone
	}
	return ""
}

// Set assigns the field with the given id. Unknown ids are ignored.
func (f *Form) Set(id, value string) {
	switch id {
	case FieldFirstName:
		f.FirstName = value
	case FieldLastName:
		f.LastName = value
	case FieldStreet:
		f.Street = value
	case FieldCity:
		f.City = value
	case FieldState:
		f.State = value
	case FieldZip:
		f.Zip = value
	case FieldCardNumber:
		f.CardNumber = value
	case FieldExpiry:
		f.Expiry = value
	case FieldCVV:
		f.CVV = value
	case FieldCardName:
		f.CardName = value
	case FieldEmail:
		f.Email = value
	case FieldPhone:
		f.Phone = value
	}
}

// Normalized returns a copy with every field trimmed and the state code
// upper-cased.
func (f Form) Normalized() Form {
	out := Form{
		FirstName:  strings.TrimSpace(f.FirstName),
		LastName:   strings.TrimSpace(f.LastName),
		Street:     strings.TrimSpace(f.Street),
		City:       strings.TrimSpace(f.City),
		State:      strings.ToUpper(strings.TrimSpace(f.State)),
		Zip:        strings.TrimSpace(f.Zip),
		CardNumber: strings.TrimSpace(f.CardNumber),
		Expiry:     strings.TrimSpace(f.Expiry),
		CVV:        strings.TrimSpace(f.CVV),
		CardName:   strings.TrimSpace(f.CardName),
		Email:      strings.TrimSpace(f.Email),
		Phone:      strings.TrimSpace(f.Phone),
	}
	return out
}
