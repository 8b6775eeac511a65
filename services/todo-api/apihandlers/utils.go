package apihandlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	usermanagement "github.com/todo-app/todo-backend/pkg/user-management"
	userTypes "github.com/todo-app/todo-backend/pkg/user-management/types"
)

const (
	CodeEmailRequired   = "EMAIL_REQUIRED"
	CodePasswordInvalid = "PASSWORD_INVALID"
	CodeEmailTaken      = "EMAIL_TAKEN"
	CodeUserNotFound    = "USER_NOT_FOUND"
	CodeInvalidPassword = "INVALID_PASSWORD"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeTitleRequired   = "TITLE_REQUIRED"
	CodeTaskNotFound    = "TASK_NOT_FOUND"
	CodeBadRequest      = "BAD_REQUEST"
	CodeInternal        = "INTERNAL"
)

const (
	msgPasswordRegister = "Password is required and must be 6 characters minimum"
	msgPasswordLogin    = "Password is required and must be at least 6 characters long"
)

func writeError(c *gin.Context, status int, message string, code string) {
	c.JSON(status, gin.H{"message": message, "code": code})
}

// respondWithError maps service errors to the API error contract. Unknown errors are logged
// and answered with 500.
func respondWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usermanagement.ErrEmailRequired):
		writeError(c, http.StatusBadRequest, "Email is required", CodeEmailRequired)
	case errors.Is(err, usermanagement.ErrInvalidPassword):
		writeError(c, http.StatusBadRequest, msgPasswordRegister, CodePasswordInvalid)
	case errors.Is(err, userTypes.ErrEmailTaken):
		writeError(c, http.StatusConflict, "Email already registered", CodeEmailTaken)
	case errors.Is(err, usermanagement.ErrWrongPassword):
		writeError(c, http.StatusUnauthorized, "Invalid password", CodeInvalidPassword)
	case errors.Is(err, usermanagement.ErrUnauthorized):
		writeError(c, http.StatusUnauthorized, "Unauthorized", CodeUnauthorized)
	case errors.Is(err, usermanagement.ErrTitleRequired):
		writeError(c, http.StatusBadRequest, "Title is required", CodeTitleRequired)
	case errors.Is(err, userTypes.ErrUserNotFound):
		writeError(c, http.StatusNotFound, "User not found", CodeUserNotFound)
	case errors.Is(err, userTypes.ErrTaskNotFound):
		writeError(c, http.StatusNotFound, "Task not found", CodeTaskNotFound)
	default:
		slog.Error("unexpected error", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		writeError(c, http.StatusInternalServerError, "Internal server error", CodeInternal)
	}
}

// getUserID returns the account id set by the auth middleware, or writes 401
func getUserID(c *gin.Context) (string, bool) {
	userID := c.GetString("userId")
	if userID == "" {
		writeError(c, http.StatusUnauthorized, "Unauthorized", CodeUnauthorized)
		return "", false
	}
	return userID, true
}
