package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkspire/inkspire-client/internal/handlers"
	"github.com/stretchr/testify/assert"
)

func TestHealthHandler_Healthcheck(t *testing.T) {
	ready := make(chan struct{})
	handler := handlers.NewHealthHandler(ready)
	router := gin.New()
	router.GET("/healthcheck", handler.Healthcheck)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", http.NoBody))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	close(ready)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthcheck", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
