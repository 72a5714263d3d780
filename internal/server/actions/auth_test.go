package actions

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/acmeadmin/internal/common"
	"github.com/dmitrijs2005/acmeadmin/internal/server/services"
)

type fakeIdentity struct {
	pair *services.TokenPair
	err  error

	gotEmail    string
	gotPassword string
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*services.TokenPair, error) {
	f.gotEmail, f.gotPassword = email, password
	if f.err != nil {
		return nil, f.err
	}
	return f.pair, nil
}

func credentials(email, password string) url.Values {
	return url.Values{"email": {email}, "password": {password}}
}

func TestAuthenticate_Success(t *testing.T) {
	id := &fakeIdentity{pair: &services.TokenPair{AccessToken: "a", RefreshToken: "r"}}
	a := NewAuthActions(id)

	pair, msg, err := a.Authenticate(context.Background(), FormState{}, credentials("user@acme.test", "123456"))

	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Equal(t, "a", pair.AccessToken)
	assert.Equal(t, "user@acme.test", id.gotEmail)
	assert.Equal(t, "123456", id.gotPassword)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	a := NewAuthActions(&fakeIdentity{err: common.ErrorUnauthorized})

	pair, msg, err := a.Authenticate(context.Background(), FormState{}, credentials("user@acme.test", "wrong"))

	require.NoError(t, err)
	assert.Nil(t, pair)
	assert.Equal(t, "Invalid credentials.", msg)
}

func TestAuthenticate_IdentityFailure(t *testing.T) {
	a := NewAuthActions(&fakeIdentity{err: common.ErrorInternal})

	pair, msg, err := a.Authenticate(context.Background(), FormState{}, credentials("user@acme.test", "x"))

	require.NoError(t, err)
	assert.Nil(t, pair)
	assert.Equal(t, "Something went wrong.", msg)
}

func TestAuthenticate_UnclassifiedErrorPropagates(t *testing.T) {
	infra := errors.New("dial tcp: connection refused")
	a := NewAuthActions(&fakeIdentity{err: infra})

	pair, msg, err := a.Authenticate(context.Background(), FormState{}, credentials("user@acme.test", "x"))

	assert.Nil(t, pair)
	assert.Empty(t, msg)
	assert.ErrorIs(t, err, infra)
}
