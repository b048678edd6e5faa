package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingSubject = errors.New("identity assertion has no subject")

// Identity is what the login portal asserts about a person.
type Identity struct {
	OpenID      string `json:"sub"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	LoginMethod string `json:"login_method,omitempty"`
	FirstName   string `json:"given_name,omitempty"`
	LastName    string `json:"family_name,omitempty"`
}

type identityClaims struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	LoginMethod string `json:"login_method,omitempty"`
	FirstName   string `json:"given_name,omitempty"`
	LastName    string `json:"family_name,omitempty"`
	jwt.RegisteredClaims
}

// IdentityVerifier checks HS256 assertions signed with the secret shared
// with the portal. An empty issuer accepts any issuer.
type IdentityVerifier struct {
	secret []byte
	issuer string
}

func NewIdentityVerifier(secret, issuer string) (*IdentityVerifier, error) {
	if secret == "" {
		return nil, ErrEmptySecretKey
	}
	return &IdentityVerifier{secret: []byte(secret), issuer: issuer}, nil
}

// Verify returns the identity carried by a valid assertion.
func (v *IdentityVerifier) Verify(assertion string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims identityClaims
	_, err := jwt.ParseWithClaims(assertion, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrMissingSubject
	}
	return &Identity{
		OpenID:      claims.Subject,
		Name:        claims.Name,
		Email:       claims.Email,
		LoginMethod: claims.LoginMethod,
		FirstName:   claims.FirstName,
		LastName:    claims.LastName,
	}, nil
}

// Sign produces an assertion for id valid for ttl. The portal does this on
// its side; the server uses it in tests and the development login.
func (v *IdentityVerifier) Sign(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := identityClaims{
		Name:        id.Name,
		Email:       id.Email,
		LoginMethod: id.LoginMethod,
		FirstName:   id.FirstName,
		LastName:    id.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.OpenID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
