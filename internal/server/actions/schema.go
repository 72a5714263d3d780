package actions

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Form field names as submitted by the dashboard forms.
const (
	fieldCustomerID = "customerId"
	fieldAmount     = "amount"
	fieldStatus     = "status"
)

// InvoiceForm is the coerced invoice payload. Amount is in dollars; the
// executor converts it to cents.
type InvoiceForm struct {
	CustomerID string  `validate:"required"`
	Amount     float64 `validate:"gt=0"`
	Status     string  `validate:"required,oneof=pending paid"`
}

var validate = validator.New()

var fieldMessages = map[string]string{
	fieldCustomerID: "Please select a customer",
	fieldAmount:     "Amount must be greater than $0",
	fieldStatus:     "Please select a status",
}

var structFieldNames = map[string]string{
	"CustomerID": fieldCustomerID,
	"Amount":     fieldAmount,
	"Status":     fieldStatus,
}

// ParseInvoiceForm coerces and validates the submitted fields. It reports
// every failing field, not just the first; an empty FieldErrors means the
// form is valid. Validation never touches storage.
func ParseInvoiceForm(form url.Values) (InvoiceForm, FieldErrors) {
	parsed := InvoiceForm{
		CustomerID: form.Get(fieldCustomerID),
		Status:     form.Get(fieldStatus),
	}

	// A non-numeric amount leaves Amount at zero, which the gt=0 rule
	// rejects with the same user-facing message as a submitted zero.
	if amount, err := strconv.ParseFloat(form.Get(fieldAmount), 64); err == nil {
		parsed.Amount = amount
	}

	err := validate.Struct(parsed)
	if err == nil {
		return parsed, nil
	}

	fieldErrs := FieldErrors{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			name := structFieldNames[fe.StructField()]
			fieldErrs[name] = append(fieldErrs[name], fieldMessages[name])
		}
	}
	return parsed, fieldErrs
}
