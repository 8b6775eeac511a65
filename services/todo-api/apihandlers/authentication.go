package apihandlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	mw "github.com/todo-app/todo-backend/pkg/apihelpers/middlewares"
	usermanagement "github.com/todo-app/todo-backend/pkg/user-management"
	userTypes "github.com/todo-app/todo-backend/pkg/user-management/types"
)

type RegisterReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// bindOptionalJSON binds the body into obj. An empty body leaves obj untouched.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		slog.Warn("failed to bind request", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		writeError(c, http.StatusBadRequest, "Invalid request body", CodeBadRequest)
		return false
	}
	return true
}

func (h *HttpEndpoints) register(c *gin.Context) {
	var req RegisterReq
	if !bindOptionalJSON(c, &req) {
		return
	}

	user, err := h.service.Register(req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Registered Successfully",
		"user":    user,
	})
}

func (h *HttpEndpoints) login(c *gin.Context) {
	var req LoginReq
	if !bindOptionalJSON(c, &req) {
		return
	}

	res, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usermanagement.ErrInvalidPassword):
			writeError(c, http.StatusBadRequest, msgPasswordLogin, CodePasswordInvalid)
		case errors.Is(err, userTypes.ErrUserNotFound):
			writeError(c, http.StatusUnauthorized, "User not found", CodeUserNotFound)
		default:
			respondWithError(c, err)
		}
		return
	}

	accessToken := res.Tokens.AccessToken
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		mw.AccessTokenCookie,
		accessToken,
		int(res.Tokens.ExpiresIn.Seconds()),
		"/",
		"",
		h.secureCookie,
		true,
	)
	c.Header(mw.HeaderAuthorization, "Bearer "+accessToken)

	c.JSON(http.StatusOK, gin.H{
		"message":          "User Login successful",
		"_id":              res.User.ID.Hex(),
		"email":            res.User.Email,
		"accessTokenUser":  accessToken,
		"refreshTokenUser": res.Tokens.RefreshToken,
		"expiresIn":        int64(res.Tokens.ExpiresIn.Seconds()),
	})
}
