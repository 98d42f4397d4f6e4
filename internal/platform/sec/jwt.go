// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

// Package sec verifies access tokens minted by the upstream identity service.
//
// # Architecture
//
// Authentication is an external collaborator: this service never issues
// tokens, it only consumes them. The verifier extracts the (user_id, org_id)
// pair that drives tenant scoping, plus the user's allowed-language list.
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// By embedding the user ID, organisation ID, and allowed languages directly
// inside the JWT, the middleware can reconstruct the active tenant scope
// WITHOUT querying any identity database on every single API request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID string `json:"uid"`

	// OrgID is empty for users without an organisation (global visibility).
	OrgID string `json:"org"`

	// LanguagesAllowed is the set of languages the user may translate into.
	LanguagesAllowed []string `json:"lng"`
}

// TokenVerifier validates RS256 access tokens against the identity
// service's public key.
type TokenVerifier struct {
	publicKey *rsa.PublicKey
	issuer    string
}

// NewTokenVerifier reads the RSA public key from the given filesystem path.
func NewTokenVerifier(publicKeyPath, issuer string) (*TokenVerifier, error) {
	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenVerifier{publicKey: publicKey, issuer: issuer}, nil
}

// VerifyToken parses and validates a signed access token.
func (verifier *TokenVerifier) VerifyToken(tokenStr string) (*AuthClaims, error) {
	claims := &AuthClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method %v", token.Header["alg"])
		}
		return verifier.publicKey, nil
	},
		jwt.WithIssuer(verifier.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: token verification failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("sec: token is invalid")
	}

	return claims, nil
}
