package apihelpers

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRoutesToFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	noop := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.PUT("/edit/:id", noop)
	r.POST("/create", noop)
	r.GET("/get", noop)

	filename := filepath.Join(t.TempDir(), "routes.txt")
	require.NoError(t, WriteRoutesToFile(r, filename))

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "POST\t/create\nPUT\t/edit/:id\nGET\t/get\n", string(content))
}

func TestLoadTLSConfig(t *testing.T) {
	t.Run("with missing certificate", func(t *testing.T) {
		_, err := LoadTLSConfig(CertificatePaths{
			ServerCertPath: filepath.Join(t.TempDir(), "missing.crt"),
			ServerKeyPath:  filepath.Join(t.TempDir(), "missing.key"),
		})
		assert.Error(t, err)
	})
}
