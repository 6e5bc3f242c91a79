// Package auth verifies bearer tokens issued by the identity service and
// maps their claims onto domain actors. Both the HTTP middleware and the
// websocket handler go through ParseToken.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"parceltrack/internal/core/domain/model/actor"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/pkg/errs"
)

// TokenParser verifies signed tokens and extracts the calling actor.
type TokenParser struct {
	secret []byte
}

func NewTokenParser(secret string) (*TokenParser, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("secret")
	}
	return &TokenParser{secret: []byte(secret)}, nil
}

// ParseToken validates the signature and expiry of tokenString and returns
// the actor encoded in its "sub" and "role" claims.
func (p *TokenParser) ParseToken(tokenString string) (actor.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return actor.Actor{}, errs.NewNotAuthorizedError(fmt.Sprintf("parse token: %v", err))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return actor.Actor{}, errs.NewNotAuthorizedError("invalid token")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return actor.Actor{}, errs.NewNotAuthorizedError("token has no subject")
	}
	userID, err := kernel.UUIDFromString(sub)
	if err != nil {
		return actor.Actor{}, errs.NewNotAuthorizedError("token subject is not a valid user id")
	}

	roleClaim, _ := claims["role"].(string)
	role, err := actor.RoleFromString(roleClaim)
	if err != nil {
		return actor.Actor{}, errs.NewNotAuthorizedError("token has no valid role")
	}

	return actor.NewActor(userID, role)
}
