package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-syllabus-api/internal/models"
	"github.com/noah-isme/sma-syllabus-api/internal/service"
	appErrors "github.com/noah-isme/sma-syllabus-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
	got    string
}

func (s *stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	s.got = token
	if s.claims == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

func withClaims(claims *models.JWTClaims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
		c.Next()
	}
}

func perform(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator := &stubValidator{claims: &models.JWTClaims{UserID: "U1", Role: models.RoleAdmin}}
	r := gin.New()
	r.GET("/secure", JWT(validator), func(c *gin.Context) {
		c.String(http.StatusOK, Claims(c).UserID)
	})

	rec := perform(r, http.MethodGet, "/secure", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = perform(r, http.MethodGet, "/secure", map[string]string{"Authorization": "Basic abc"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = perform(r, http.MethodGet, "/secure", map[string]string{"Authorization": "Bearer good-token"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "U1", rec.Body.String())
	assert.Equal(t, "good-token", validator.got)

	validator.claims = nil
	rec = perform(r, http.MethodGet, "/secure", map[string]string{"Authorization": "bearer bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRBAC(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	cases := []struct {
		name   string
		claims *models.JWTClaims
		path   string
		want   int
	}{
		{"no claims", nil, "/overview", http.StatusUnauthorized},
		{"admin allowed", &models.JWTClaims{UserID: "A1", Role: models.RoleAdmin}, "/overview", http.StatusOK},
		{"teacher forbidden", &models.JWTClaims{UserID: "T1", Role: models.RoleTeacher}, "/overview", http.StatusForbidden},
		{"teacher own progress", &models.JWTClaims{UserID: "T1", Role: models.RoleTeacher}, "/teacher/T1/progress", http.StatusOK},
		{"teacher other progress", &models.JWTClaims{UserID: "T1", Role: models.RoleTeacher}, "/teacher/T2/progress", http.StatusForbidden},
		{"admin any progress", &models.JWTClaims{UserID: "A1", Role: models.RoleSuperAdmin}, "/teacher/T2/progress", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.Use(withClaims(tc.claims))
			r.GET("/overview", RequireRoles(models.RoleSuperAdmin, models.RoleAdmin), ok)
			r.GET("/teacher/:teacher_id/progress", RBAC(string(models.RoleSuperAdmin), string(models.RoleAdmin), Self), ok)

			rec := perform(r, http.MethodGet, tc.path, nil)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestActorAttachesCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var captured service.Actor
	var found bool
	r := gin.New()
	r.Use(withClaims(&models.JWTClaims{UserID: "U9"}), Actor())
	r.GET("/", func(c *gin.Context) {
		captured, found = service.ActorFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	perform(r, http.MethodGet, "/", map[string]string{"User-Agent": "tests/1.0"})
	require.True(t, found)
	assert.Equal(t, "U9", captured.UserID)
	assert.Equal(t, "tests/1.0", captured.UserAgent)
	assert.NotEmpty(t, captured.IPAddress)
}

type recordingObserver struct {
	paths    []string
	statuses []int
}

func (r *recordingObserver) ObserveHTTPRequest(_ string, path string, status int, _ time.Duration) {
	r.paths = append(r.paths, path)
	r.statuses = append(r.statuses, status)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &recordingObserver{}
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/syllabus/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	perform(r, http.MethodGet, "/syllabus/E1", nil)
	perform(r, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, []string{"/syllabus/:id", unmatchedRoute}, observer.paths)
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, observer.statuses)
}

func TestClaimsIgnoresForeignValues(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, Claims(c))
	c.Set(ContextUserKey, errors.New("not claims"))
	assert.Nil(t, Claims(c))
}
