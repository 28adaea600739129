package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/imroc/req"
)

const (
	DefaultLoginURL = "https://login.salesforce.com"
	jwtBearerGrant  = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionTTL    = 3 * time.Minute
)

// BearerOptions describes a connected app authorized for the JWT bearer
// flow.
type BearerOptions struct {
	LoginURL string
	ClientID string
	Username string
	Key      *rsa.PrivateKey
	Now      func() time.Time
}

// Token is the part of the OAuth token response modx uses.
type Token struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
	ID          string `json:"id"`
	TokenType   string `json:"token_type"`
}

type oauthError struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
}

func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key file: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("parsing key file %s: %w", path, err)
	}
	return key, nil
}

func (o BearerOptions) loginURL() string {
	if o.LoginURL == "" {
		return DefaultLoginURL
	}
	return strings.TrimRight(o.LoginURL, "/")
}

// Assertion signs the RS256 JWT sent to the token endpoint. The audience
// is the login host and the subject the org username.
func Assertion(o BearerOptions) (string, error) {
	if o.Key == nil {
		return "", ErrNilKey
	}
	if o.ClientID == "" || o.Username == "" {
		return "", ErrMissingClaim
	}
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}
	claims := jwt.RegisteredClaims{
		Issuer:    o.ClientID,
		Subject:   o.Username,
		Audience:  jwt.ClaimStrings{o.loginURL()},
		ExpiresAt: jwt.NewNumericDate(now().Add(assertionTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(o.Key)
}

// Exchange trades a signed assertion for an access token.
func Exchange(ctx context.Context, hc *http.Client, o BearerOptions) (*Token, error) {
	assertion, err := Assertion(o)
	if err != nil {
		return nil, err
	}
	r := req.New()
	if hc != nil {
		r.SetClient(hc)
	}
	endpoint := o.loginURL() + "/services/oauth2/token"
	AuthLogs.Debug("POST %s for %s", endpoint, o.Username)
	resp, err := r.Post(endpoint, ctx,
		req.Header{"Accept": "application/json"},
		req.Param{"grant_type": jwtBearerGrant, "assertion": assertion},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}
	body, err := resp.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrTokenExchange, err)
	}
	if status := resp.Response().StatusCode; status != http.StatusOK {
		var oe oauthError
		if json.Unmarshal(body, &oe) == nil && oe.Error != "" {
			return nil, fmt.Errorf("%w: %s: %s", ErrTokenExchange, oe.Error, oe.Description)
		}
		return nil, fmt.Errorf("%w: status %d", ErrTokenExchange, status)
	}
	var tok Token
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenExchange, err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("%w: response carried no access token", ErrTokenExchange)
	}
	return &tok, nil
}
