package actions

// Result is the tagged outcome of a create/update action. Exactly one
// variant is set: Redirect on success, Form on failure. Keeping the
// navigation target out of the error path makes it impossible for failure
// handling to swallow a successful mutation's redirect.
type Result struct {
	// Form carries field errors or an opaque failure message to re-render.
	Form FormState

	// Redirect is the path the client must navigate to. Non-empty only
	// after the mutation persisted and the views were invalidated.
	Redirect string
}

// IsRedirect reports whether the action succeeded and the caller must
// navigate instead of re-rendering the form.
func (r Result) IsRedirect() bool { return r.Redirect != "" }

func failed(state FormState) Result { return Result{Form: state} }

func redirect(path string) Result { return Result{Redirect: path} }
