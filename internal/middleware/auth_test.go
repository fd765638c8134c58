package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
	"backend/internal/scope"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func authRouter(captured *scope.Caller) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Authenticate(testSecret), func(c *gin.Context) {
		caller, _ := CallerFrom(c)
		*captured = caller
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthenticateValidToken(t *testing.T) {
	userID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	orgID := primitive.NewObjectID()

	token := signToken(t, jwt.MapClaims{
		"id":             userID.Hex(),
		"email":          "a@b.com",
		"name":           "Asha",
		"role":           models.RoleUser,
		"adminId":        adminID.Hex(),
		"organisationId": orgID.Hex(),
		"exp":            time.Now().Add(time.Hour).Unix(),
	})

	var caller scope.Caller
	router := authRouter(&caller)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", rec.Code, rec.Body.String())
	}
	if caller.ID != userID || caller.AdminID != adminID || caller.OrganisationID != orgID {
		t.Fatalf("caller ids not propagated: %+v", caller)
	}
	if caller.Role != models.RoleUser || caller.Email != "a@b.com" {
		t.Fatalf("caller fields not propagated: %+v", caller)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	var caller scope.Caller
	router := authRouter(&caller)

	expired := signToken(t, jwt.MapClaims{
		"id":  primitive.NewObjectID().Hex(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status %d", tc.name, rec.Code)
		}
	}
}

func TestAuthenticateRejectsWrongSecret(t *testing.T) {
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  primitive.NewObjectID().Hex(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatal(err)
	}

	var caller scope.Caller
	router := authRouter(&caller)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin-only", Authenticate(testSecret), RequireRole(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	adminToken := signToken(t, jwt.MapClaims{
		"id":   primitive.NewObjectID().Hex(),
		"role": models.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	userToken := signToken(t, jwt.MapClaims{
		"id":   primitive.NewObjectID().Hex(),
		"role": models.RoleUser,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user: status %d", rec.Code)
	}
}
