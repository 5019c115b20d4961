package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type failingSource struct{}

func (failingSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("token refresh failed")
}

func TestTokenResolver_ValidToken(t *testing.T) {
	userID := uuid.New()
	source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "abc"})
	r := NewTokenResolver(source, userID, nil)

	got, ok := r.CurrentUser(context.Background())
	require.True(t, ok)
	require.Equal(t, userID, got)
}

func TestTokenResolver_TokenErrorMeansUnresolvable(t *testing.T) {
	r := NewTokenResolver(failingSource{}, uuid.New(), nil)

	_, ok := r.CurrentUser(context.Background())
	require.False(t, ok)
}

func TestTokenResolver_NilSource(t *testing.T) {
	r := NewTokenResolver(nil, uuid.New(), nil)

	_, ok := r.CurrentUser(context.Background())
	require.False(t, ok)
}

func TestStaticResolver(t *testing.T) {
	userID := uuid.New()
	got, ok := StaticResolver{UserID: userID}.CurrentUser(context.Background())
	require.True(t, ok)
	require.Equal(t, userID, got)

	_, ok = StaticResolver{}.CurrentUser(context.Background())
	require.False(t, ok)
}
