package auth

import "errors"

var (
	ErrNoCredentials = errors.New("no stored credentials for org")
	ErrNoTerminal    = errors.New("no terminal available for interactive token prompt")
	ErrEmptyToken    = errors.New("empty access token")
	ErrNilKey        = errors.New("private key is nil")
	ErrMissingClaim  = errors.New("client id and username are required for the JWT bearer flow")
	ErrTokenExchange = errors.New("token exchange failed")
)
