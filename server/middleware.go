package server

import (
	"strings"

	"github.com/duyshop/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const userContextKey = "user"

// requireAuth verifies the bearer token and loads the account onto the
// request context. Aborts with 401 on a missing or bad token, 404 when the
// token points at a deleted account.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, status, message := s.authenticate(c)
		if user == nil {
			c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// optionalAuth loads the account when a valid token is present and stays
// silent otherwise, so guests pass through.
func (s *Server) optionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, _, _ := s.authenticate(c); user != nil {
			c.Set(userContextKey, user)
		}
		c.Next()
	}
}

func (s *Server) authenticate(c *gin.Context) (*models.User, int, string) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, 401, "Không có token."
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.config.Auth.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, 401, "Token không hợp lệ."
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, 401, "Token không hợp lệ."
	}
	userHex, _ := claims["userId"].(string)
	userID, err := primitive.ObjectIDFromHex(userHex)
	if err != nil {
		return nil, 401, "Token không hợp lệ."
	}

	user, err := s.stores.Users.FindByID(c.Request.Context(), userID)
	if err != nil {
		return nil, 404, "Người dùng không tồn tại."
	}
	user.Password = ""
	return user, 0, ""
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userContextKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
