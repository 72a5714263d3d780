// Package actions implements the mutation pipeline behind the dashboard
// forms: validate the submitted fields, execute the mutation, invalidate
// the affected views and hand back either a re-render state or a redirect.
package actions

// FieldErrors maps a form field name to its validation messages, in rule
// declaration order.
type FieldErrors map[string][]string

// FormState is what a form submission gets back when it must re-render.
// The zero value means pending: no errors, nothing to display. A successful
// mutation never produces a FormState, it redirects instead.
type FormState struct {
	Errors  FieldErrors `json:"errors,omitempty"`
	Message string      `json:"message,omitempty"`
}

// OK reports whether the state carries nothing to display.
func (s FormState) OK() bool {
	return len(s.Errors) == 0 && s.Message == ""
}
