package models

// AccessClaims is the payload of a cruxlog access token.
type AccessClaims struct {
	Issuer    string `json:"iss,omitempty"`
	Subject   string `json:"sub"` // username
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
