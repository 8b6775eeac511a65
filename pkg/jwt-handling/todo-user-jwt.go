package jwthandling

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Information a token enocodes. Access and refresh tokens share the same claims and differ in
// sign key and lifetime.
type TodoUserClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func GenerateNewTodoUserToken(
	expiresIn time.Duration,
	id string,
	email string,
	role string,
	secretKey string,
) (tokenString string, err error) {
	now := time.Now()
	claims := TodoUserClaims{
		id,
		email,
		role,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   id,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(secretKey))
	return
}

func ValidateTodoUserToken(tokenString string, secretKey string) (claims *TodoUserClaims, valid bool, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &TodoUserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if token == nil {
		return
	}
	claims, valid = token.Claims.(*TodoUserClaims)
	valid = valid && token.Valid && err == nil
	return
}
