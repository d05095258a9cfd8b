package auth

import "github.com/golang-jwt/jwt/v5"

// SessionTokenPayload captures the data available when minting a session token.
type SessionTokenPayload struct {
	UserID    string
	Email     string
	SessionID string
}

// SessionClaims is the typed JWT handed to storefront clients. The registered
// jti carries the session id that keys the stored session snapshot.
type SessionClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// SessionID returns the snapshot identifier carried in the jti claim.
func (c *SessionClaims) SessionID() string {
	return c.ID
}
