package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/scope"
)

const callerKey = "caller"

// Authenticate validates the bearer token and injects the caller identity
// into the context.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		caller, err := callerFromClaims(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. Runs after
// Authenticate.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		for _, role := range roles {
			if caller.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// CallerFrom returns the authenticated caller set by Authenticate.
func CallerFrom(c *gin.Context) (scope.Caller, bool) {
	value, ok := c.Get(callerKey)
	if !ok {
		return scope.Caller{}, false
	}
	caller, ok := value.(scope.Caller)
	return caller, ok
}

func callerFromClaims(claims jwt.MapClaims) (scope.Caller, error) {
	id, err := objectIDClaim(claims, "id")
	if err != nil {
		return scope.Caller{}, err
	}

	caller := scope.Caller{
		ID:    id,
		Email: stringClaim(claims, "email"),
		Name:  stringClaim(claims, "name"),
		Role:  stringClaim(claims, "role"),
	}

	// adminId and organisationId may be absent on older tokens; the scoper
	// treats the zero value as most-restrictive.
	if adminID, err := objectIDClaim(claims, "adminId"); err == nil {
		caller.AdminID = adminID
	}
	if orgID, err := objectIDClaim(claims, "organisationId"); err == nil {
		caller.OrganisationID = orgID
	}
	return caller, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	value, _ := claims[key].(string)
	return value
}

func objectIDClaim(claims jwt.MapClaims, key string) (primitive.ObjectID, error) {
	raw, _ := claims[key].(string)
	return primitive.ObjectIDFromHex(strings.TrimSpace(raw))
}
