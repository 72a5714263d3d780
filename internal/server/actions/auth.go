package actions

import (
	"context"
	"errors"
	"net/url"

	"github.com/dmitrijs2005/acmeadmin/internal/common"
	"github.com/dmitrijs2005/acmeadmin/internal/server/services"
)

// Credential failure messages. Both are deliberately vague.
const (
	MsgInvalidCredentials = "Invalid credentials."
	MsgAuthFailed         = "Something went wrong."
)

// Identity verifies operator credentials, implemented by
// services.UserService.
type Identity interface {
	SignIn(ctx context.Context, email, password string) (*services.TokenPair, error)
}

// AuthActions classifies identity-layer failures into user-facing messages.
type AuthActions struct {
	identity Identity
}

func NewAuthActions(identity Identity) *AuthActions {
	return &AuthActions{identity: identity}
}

// Authenticate verifies the submitted email/password. On success it returns
// the token pair and an empty message. Classified identity failures come
// back as a message with a nil error; anything the identity layer did not
// classify (infrastructure faults) propagates unchanged so it is not
// mistaken for bad credentials.
func (a *AuthActions) Authenticate(ctx context.Context, prev FormState, form url.Values) (*services.TokenPair, string, error) {
	email := form.Get("email")
	password := form.Get("password")

	pair, err := a.identity.SignIn(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			return nil, MsgInvalidCredentials, nil
		case errors.Is(err, common.ErrorInternal):
			return nil, MsgAuthFailed, nil
		default:
			return nil, "", err
		}
	}
	return pair, "", nil
}
