package utils

import (
	"strings"

	userTypes "github.com/todo-app/todo-backend/pkg/user-management/types"
)

func InitNewEmailUser(
	name string,
	email string,
	passwordHash string,
) userTypes.User {
	return userTypes.NewUser(
		strings.TrimSpace(name),
		SanitizeEmail(email),
		passwordHash,
	)
}
