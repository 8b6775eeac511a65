package jwthandling

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateTodoUserToken(t *testing.T) {
	t.Parallel()

	tok, err := GenerateNewTodoUserToken(24*time.Hour, "user-1", "a@x.com", "user", "access-secret")
	if err != nil {
		t.Fatalf("GenerateNewTodoUserToken error: %v", err)
	}

	claims, valid, err := ValidateTodoUserToken(tok, "access-secret")
	if err != nil || !valid {
		t.Fatalf("expected valid token, got %v, %v", valid, err)
	}
	if claims.ID != "user-1" || claims.Subject != "user-1" {
		t.Errorf("unexpected id: %s / %s", claims.ID, claims.Subject)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("unexpected email: %s", claims.Email)
	}
	if claims.Role != "user" {
		t.Errorf("unexpected role: %s", claims.Role)
	}
	if claims.ExpiresAt.Time.After(time.Now().Add(24 * time.Hour)) {
		t.Errorf("token expires too late: %v", claims.ExpiresAt.Time)
	}
}

func TestValidateTodoUserToken(t *testing.T) {
	t.Parallel()

	t.Run("with wrong secret", func(t *testing.T) {
		tok, _ := GenerateNewTodoUserToken(time.Hour, "u1", "a@x.com", "user", "right-secret")
		_, valid, err := ValidateTodoUserToken(tok, "wrong-secret")
		if err == nil || valid {
			t.Errorf("expected invalid token, got %v, %v", valid, err)
		}
	})

	t.Run("with access token checked against refresh secret", func(t *testing.T) {
		tok, _ := GenerateNewTodoUserToken(time.Hour, "u1", "a@x.com", "user", "access-secret")
		_, valid, _ := ValidateTodoUserToken(tok, "refresh-secret")
		if valid {
			t.Error("token signed with another secret should be invalid")
		}
	})

	t.Run("with expired token", func(t *testing.T) {
		tok, _ := GenerateNewTodoUserToken(-time.Minute, "u1", "a@x.com", "user", "secret")
		_, valid, err := ValidateTodoUserToken(tok, "secret")
		if valid {
			t.Error("expired token should be invalid")
		}
		if !errors.Is(err, jwt.ErrTokenExpired) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("with malformed token", func(t *testing.T) {
		_, valid, err := ValidateTodoUserToken("not.a.jwt", "secret")
		if err == nil || valid {
			t.Errorf("expected error, got %v, %v", valid, err)
		}
	})

	t.Run("with other signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS512, TodoUserClaims{ID: "u1"})
		tok, err := token.SignedString([]byte("secret"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, valid, err := ValidateTodoUserToken(tok, "secret")
		if err == nil || valid {
			t.Errorf("expected error, got %v, %v", valid, err)
		}
	})
}
