package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/repository/memstore"
)

// fixture wires the auth stack over an in-memory store.
type fixture struct {
	store     *memstore.Store
	tokens    *TokenIssuer
	auth      *AuthService
	salons    *SalonResolver
	federated *fakeVerifier
}

type fakeVerifier struct {
	id  FederatedIdentity
	err error
}

func (f *fakeVerifier) Verify(context.Context, FederatedCredential) (FederatedIdentity, error) {
	return f.id, f.err
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memstore.New()
	tokens, err := NewTokenIssuer("test-secret", time.Hour, 7*24*time.Hour, st.Users(), st.Tokens(), st.Transactor())
	require.NoError(t, err)
	fv := &fakeVerifier{}
	return &fixture{
		store:     st,
		tokens:    tokens,
		auth:      NewAuthService(st.Users(), st.Salons(), st.Transactor(), tokens, fv, bcrypt.MinCost, logging.Discard()),
		salons:    NewSalonResolver(st.Salons()),
		federated: fv,
	}
}

func (f *fixture) memberService() *MemberService {
	return NewMemberService(f.store.Members(), f.store.Transactor())
}

func ptr[T any](v T) *T { return &v }
