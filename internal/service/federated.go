package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

// FederatedCredential is what a client presents to sign in with Google.
// When both fields are set the ID token is used.
type FederatedCredential struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
}

// FederatedIdentity is the verified result of a FederatedCredential.
type FederatedIdentity struct {
	Email string
	Name  string
}

// FederatedVerifier checks a credential with the identity provider.
type FederatedVerifier interface {
	Verify(ctx context.Context, cred FederatedCredential) (FederatedIdentity, error)
}

// GoogleVerifier validates Google ID tokens against Google's signing keys
// and access tokens against the userinfo endpoint.
type GoogleVerifier struct {
	clientID    string
	userInfoURL string
	client      *http.Client
	validate    func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewGoogleVerifier(clientID, userInfoURL string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID:    clientID,
		userInfoURL: userInfoURL,
		client:      &http.Client{Timeout: 10 * time.Second},
		validate:    idtoken.Validate,
	}
}

func (g *GoogleVerifier) Verify(ctx context.Context, cred FederatedCredential) (FederatedIdentity, error) {
	var (
		id  FederatedIdentity
		err error
	)
	switch {
	case cred.IDToken != "":
		id, err = g.fromIDToken(ctx, cred.IDToken)
	case cred.AccessToken != "":
		id, err = g.fromAccessToken(ctx, cred.AccessToken)
	default:
		return FederatedIdentity{}, fail(ErrValidation, "Either id_token or access_token is required")
	}
	if err != nil {
		return FederatedIdentity{}, err
	}

	id.Email = strings.TrimSpace(id.Email)
	if id.Email == "" {
		return FederatedIdentity{}, fail(ErrValidation, "Could not retrieve email from Google")
	}
	if strings.TrimSpace(id.Name) == "" {
		id.Name, _, _ = strings.Cut(id.Email, "@")
	}
	return id, nil
}

func (g *GoogleVerifier) fromIDToken(ctx context.Context, raw string) (FederatedIdentity, error) {
	if g.clientID == "" {
		return FederatedIdentity{}, fail(ErrUnauthenticated, "Google sign-in is not configured")
	}
	payload, err := g.validate(ctx, raw, g.clientID)
	if err != nil {
		return FederatedIdentity{}, failWith(ErrUnauthenticated, "Invalid Google Token", err)
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	return FederatedIdentity{Email: email, Name: name}, nil
}

func (g *GoogleVerifier) fromAccessToken(ctx context.Context, raw string) (FederatedIdentity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return FederatedIdentity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+raw)

	resp, err := g.client.Do(req)
	if err != nil {
		return FederatedIdentity{}, failWith(ErrUpstream, "Could not reach Google", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FederatedIdentity{}, fail(ErrUnauthenticated, "Invalid Google Access Token")
	}
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return FederatedIdentity{}, failWith(ErrUpstream, "Malformed Google userinfo response", fmt.Errorf("decode userinfo: %w", err))
	}
	return FederatedIdentity{Email: info.Email, Name: info.Name}, nil
}
