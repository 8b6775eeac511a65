package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	usermanagement "github.com/todo-app/todo-backend/pkg/user-management"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	service      *usermanagement.Service
	secureCookie bool
}

// NewHTTPHandler creates the todo API handlers. secureCookie controls the Secure flag of the
// access token cookie and is only turned off for plain HTTP development setups.
func NewHTTPHandler(
	service *usermanagement.Service,
	secureCookie bool,
) *HttpEndpoints {
	return &HttpEndpoints{
		service:      service,
		secureCookie: secureCookie,
	}
}

func (h *HttpEndpoints) welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to the todo API"})
}
