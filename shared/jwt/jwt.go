package jwt

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tastelink/tastelink/shared/domain"
	internal_errors "github.com/tastelink/tastelink/shared/errors"
	"github.com/tastelink/tastelink/shared/logger"
)

// IdentityCodec signs session identities so a cookie cannot be edited by hand.
// Nothing is verified about the identity itself and tokens do not expire.
type IdentityCodec interface {
	NewToken(id domain.Identity) (string, error)
	DecodeToken(token string) (domain.Identity, error)
}

type Jwt struct {
	secretKey []byte
}

func New(secretKey []byte) IdentityCodec {
	return &Jwt{secretKey: secretKey}
}

type identityClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func (j *Jwt) NewToken(id domain.Identity) (string, error) {
	if id.IsZero() {
		return "", errors.New("empty identity")
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, identityClaims{Email: id.Email, Name: id.Name})
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		logger.Log.Error("signing session token", "error", err)
		return "", errors.New("can't create token")
	}
	return signed, nil
}

func (j *Jwt) DecodeToken(tokenStr string) (domain.Identity, error) {
	var claims identityClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		logger.Log.Debug("rejected session token", "error", err)
		return domain.Identity{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid session token", StatusCode: http.StatusUnauthorized}
	}
	id := domain.Identity{Email: claims.Email, Name: claims.Name}
	if id.IsZero() {
		return domain.Identity{}, &internal_errors.ErrorWithStatusCode{Message: "Invalid session token", StatusCode: http.StatusUnauthorized}
	}
	return id, nil
}
