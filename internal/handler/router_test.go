//go:build unit

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("route middleware observes the handler response via Next", func(t *testing.T) {
		var statusSeen int
		var bodySeen bool
		observer := func(c *gin.Context) {
			c.Next()
			statusSeen = c.Writer.Status()
			bodySeen = c.Writer.Size() > 0
		}

		engine := gin.New()
		group := engine.Group("/api")
		addRoutes(group, []route{
			{Method: http.MethodGet, Path: "/things", Handler: func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"ok": true})
			}, Mw: []gin.HandlerFunc{observer}},
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/things", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, http.StatusOK, statusSeen)
		assert.True(t, bodySeen, "middleware ran before the handler wrote the response")
	})

	t.Run("aborting middleware blocks the handler", func(t *testing.T) {
		var handlerRan bool

		engine := gin.New()
		group := engine.Group("/api")
		addRoutes(group, []route{
			{Method: http.MethodPost, Path: "/things", Handler: func(c *gin.Context) {
				handlerRan = true
				c.Status(http.StatusCreated)
			}, Mw: []gin.HandlerFunc{func(c *gin.Context) {
				c.AbortWithStatus(http.StatusForbidden)
			}}},
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/things", nil))

		require.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, handlerRan)
	})
}
