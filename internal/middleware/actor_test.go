package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openaccred/accreditation-mgt-api/internal/models"
	"github.com/openaccred/accreditation-mgt-api/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func actorTestRouter(extra ...gin.HandlerFunc) (*gin.Engine, *models.ActorContext) {
	var captured models.ActorContext

	router := gin.New()
	chain := append([]gin.HandlerFunc{ActorContext()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		captured = utils.GetActorFromContext(c)
		c.Status(http.StatusOK)
	})
	router.GET("/probe", chain...)

	return router, &captured
}

// TestActorContextRejectsMissingUserID tests the 401 on absent identity
func TestActorContextRejectsMissingUserID(t *testing.T) {
	router, _ := actorTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestActorContextRejectsInvalidUserID tests the 401 on garbage identity
func TestActorContextRejectsInvalidUserID(t *testing.T) {
	for _, value := range []string{"abc", "0", "-4"} {
		router, _ := actorTestRouter()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header.Set(HeaderUserID, value)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "user id %q should be rejected", value)
	}
}

// TestActorContextParsesCapabilities tests header splitting and trimming
func TestActorContextParsesCapabilities(t *testing.T) {
	router, captured := actorTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderUserID, "42")
	req.Header.Set(HeaderCapabilities, "admin, view_parameters ,")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), captured.UserID)
	assert.Equal(t, []string{"admin", "view_parameters"}, captured.Capabilities)
	assert.True(t, captured.IsAdmin())
}

// TestRequireAdminForbidsPlainUsers tests the 403 on non-admin actors
func TestRequireAdminForbidsPlainUsers(t *testing.T) {
	router, _ := actorTestRouter(RequireAdmin())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderUserID, "42")
	req.Header.Set(HeaderCapabilities, "view_parameters")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// TestRequireAdminAllowsAdmins tests that the admin capability passes
func TestRequireAdminAllowsAdmins(t *testing.T) {
	router, _ := actorTestRouter(RequireAdmin())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(HeaderUserID, "42")
	req.Header.Set(HeaderCapabilities, "admin")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
