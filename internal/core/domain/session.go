package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CredentialPair holds the two bearer tokens backing an authenticated
// session: a short-lived access token sent on every call and a long-lived
// refresh token used solely to mint a new access token.
type CredentialPair struct {
	AccessToken  string
	RefreshToken string
}

// Session is the authenticated identity plus its credentials. The zero value
// is an unauthenticated session.
type Session struct {
	Actor       *Actor
	Credentials CredentialPair
}

// Authenticated reports whether the session can make authorised calls.
// It holds exactly when an actor and an access token are both present.
func (s Session) Authenticated() bool {
	return s.Actor != nil && s.Credentials.AccessToken != ""
}

// AccessExpiresWithin reports whether the access token's exp claim falls
// within d from now. The token is parsed without signature verification:
// the client holds no signing key; only the backend verifies tokens. A
// missing or unparsable claim reports false.
func (s Session) AccessExpiresWithin(d time.Duration) bool {
	if s.Credentials.AccessToken == "" {
		return false
	}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(s.Credentials.AccessToken, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Until(exp.Time) <= d
}
