package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	UsoLogin        = "login"
	UsoRecuperacion = "recuperacion"
)

type Claims struct {
	Correo string `json:"correo"`
	Rol    string `json:"rol,omitempty"`
	Uso    string `json:"uso"`
	jwt.RegisteredClaims
}

// NewLoginToken issues the bearer credential returned by the login endpoint.
func NewLoginToken(secret, issuer string, ttl time.Duration, correo, rol string) (string, error) {
	return newToken(secret, issuer, ttl, Claims{
		Correo: correo,
		Rol:    rol,
		Uso:    UsoLogin,
	})
}

// NewRecoveryToken issues the short-lived token embedded in the password
// recovery email. It carries the email claim only.
func NewRecoveryToken(secret, issuer string, ttl time.Duration, correo string) (string, error) {
	return newToken(secret, issuer, ttl, Claims{
		Correo: correo,
		Uso:    UsoRecuperacion,
	})
}

func newToken(secret, issuer string, ttl time.Duration, claims Claims) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   claims.Correo,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
