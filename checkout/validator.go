package checkout

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Form-level messages shown above the checkout form
const (
	MsgRequiredSummary = "Please fill in all required fields."
	MsgInvalidSummary  = "Please correct the errors below and try again."
)

// Result is the outcome of checking one field
type Result struct {
	Field   string `json:"field"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func pass(field string) Result { return Result{Field: field, Valid: true} }

func fail(field, msg string) Result { return Result{Field: field, Message: msg} }

// Validator applies the checkout rules. It keeps no state besides the clock
// used for expiry dates, so one instance can be shared.
type Validator struct {
	now      func() time.Time
	validate *validator.Validate
}

func New() *Validator {
	return NewWithClock(time.Now)
}

// NewWithClock uses now to decide whether a card has expired
func NewWithClock(now func() time.Time) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{now: now, validate: v}
}

// ValidateField checks one field as the shopper leaves it. Blank values
// pass here; CheckRequired reports them at submission so a "too short"
// message never precedes "required". Unknown field ids pass.
func (v *Validator) ValidateField(fieldID, value string) Result {
	value = strings.TrimSpace(value)
	if value == "" {
		return pass(fieldID)
	}

	switch fieldID {
	case FieldFirstName, FieldLastName:
		if len(value) < 2 {
			return fail(fieldID, "Name must be at least 2 characters long")
		}
		if !IsValidName(value) {
			return fail(fieldID, "Name can only contain letters, spaces, hyphens, and apostrophes")
		}
	case FieldStreet:
		if !IsValidStreet(value) {
			return fail(fieldID, "Please enter a complete street address")
		}
	case FieldCity:
		if len(value) < 2 {
			return fail(fieldID, "City name must be at least 2 characters long")
		}
		if !IsValidName(value) {
			return fail(fieldID, "City name can only contain letters, spaces, hyphens, and apostrophes")
		}
	case FieldState:
		if !IsValidState(value) {
			return fail(fieldID, "Please enter a valid 2-letter state code (e.g., CA, NY)")
		}
	case FieldZip:
		if !IsValidZip(value) {
			return fail(fieldID, "Please enter a valid ZIP code (e.g., 12345 or 12345-6789)")
		}
	case FieldCardNumber:
		if !IsValidCardNumber(value) {
			return fail(fieldID, "Please enter a valid credit card number")
		}
	case FieldExpiry:
		if !IsValidExpiry(value, v.now()) {
			return fail(fieldID, "Please enter a valid expiry date (MM/YY) that hasn't passed")
		}
	case FieldCVV:
		if !IsValidCVV(value) {
			return fail(fieldID, "CVV must be 3 or 4 digits")
		}
	case FieldCardName:
		if len(value) < 2 {
			return fail(fieldID, "Name on card must be at least 2 characters long")
		}
		if !IsValidName(value) {
			return fail(fieldID, "Name can only contain letters, spaces, hyphens, and apostrophes")
		}
	case FieldEmail:
		if !v.isEmail(value) {
			return fail(fieldID, "Please enter a valid email address")
		}
	case FieldPhone:
		if !IsValidPhone(value) {
			return fail(fieldID, "Please enter a valid phone number")
		}
	}
	return pass(fieldID)
}

// CheckRequired reports every required field that is blank, in page order
func (v *Validator) CheckRequired(form Form) []Result {
	err := v.validate.Struct(form.Normalized())
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []Result{fail("", err.Error())}
	}

	missing := make(map[string]bool, len(errs))
	for _, fe := range errs {
		if fe.Tag() == "required" {
			missing[fe.Field()] = true
		}
	}
	var out []Result
	for _, f := range requiredFields {
		if missing[f.id] {
			out = append(out, fail(f.id, f.label+" is required"))
		}
	}
	return out
}

// ValidateForm runs the required check and, when everything is present,
// every field rule. It returns only the failures; an empty result means the
// form may be submitted.
func (v *Validator) ValidateForm(form Form) []Result {
	if missing := v.CheckRequired(form); len(missing) > 0 {
		return missing
	}

	f := form.Normalized()
	var out []Result
	check := func(ok bool, field, msg string) {
		if !ok {
			out = append(out, fail(field, msg))
		}
	}
	check(IsValidName(f.FirstName), FieldFirstName, "Please enter a valid first name")
	check(IsValidName(f.LastName), FieldLastName, "Please enter a valid last name")
	check(IsValidStreet(f.Street), FieldStreet, "Please enter a complete street address")
	check(IsValidName(f.City), FieldCity, "Please enter a valid city name")
	check(IsValidState(f.State), FieldState, "Please enter a valid 2-letter state code")
	check(IsValidZip(f.Zip), FieldZip, "Please enter a valid ZIP code")
	check(IsValidCardNumber(f.CardNumber), FieldCardNumber, "Please enter a valid credit card number")
	check(IsValidExpiry(f.Expiry, v.now()), FieldExpiry, "Please enter a valid expiry date that hasn't passed")
	check(IsValidCVV(f.CVV), FieldCVV, "CVV must be 3 or 4 digits")
	check(IsValidName(f.CardName), FieldCardName, "Please enter a valid name as it appears on the card")
	if f.Email != "" {
		check(v.isEmail(f.Email), FieldEmail, "Please enter a valid email address")
	}
	if f.Phone != "" {
		check(IsValidPhone(f.Phone), FieldPhone, "Please enter a valid phone number")
	}
	return out
}

// Summary picks the form-level message for a set of failures
func Summary(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	for _, r := range results {
		if !strings.HasSuffix(r.Message, " is required") {
			return MsgInvalidSummary
		}
	}
	return MsgRequiredSummary
}

func (v *Validator) isEmail(s string) bool {
	return v.validate.Var(s, "email") == nil
}
