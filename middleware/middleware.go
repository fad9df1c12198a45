package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"echosphere/models"
)

// JwtKey signs every token the service issues. Set from config before the
// router starts.
var JwtKey = []byte("my_secret_key")

// Claims carries the user identity inside a signed token. Verification and
// reset tokens leave IsAdmin false; only login tokens set it.
type Claims struct {
	UserID  uint `json:"userId"`
	IsAdmin bool `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for the user with the given lifetime.
func IssueToken(userID uint, isAdmin bool, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JwtKey)
}

// ParseToken verifies the signature and expiry and returns the claims.
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return JwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// authenticate resolves the bearer token to a user. The presented token
// must also match the token stored on the user row, so sign-out (which
// nulls the stored token) invalidates sessions before their JWT expiry.
func authenticate(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.JSON(401, gin.H{"message": "Authorization header missing"})
		c.Abort()
		return nil, false
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	claims, err := ParseToken(tokenString)
	if err != nil {
		c.JSON(401, gin.H{"message": "Invalid or expired token"})
		c.Abort()
		return nil, false
	}

	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		c.JSON(401, gin.H{"message": "user not found"})
		c.Abort()
		return nil, false
	}
	if user.Token == nil || *user.Token != tokenString {
		c.JSON(401, gin.H{"message": "Session expired, please log in again"})
		c.Abort()
		return nil, false
	}

	c.Set("user_id", user.ID)
	c.Set("is_admin", user.IsAdmin)
	return &user, true
}

// Auth gates routes that need a signed-in user.
func Auth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c, db); !ok {
			return
		}
		c.Next()
	}
}

// Admin gates routes that mutate posts or promote users.
func Admin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := authenticate(c, db)
		if !ok {
			return
		}
		if !user.IsAdmin {
			c.JSON(403, gin.H{"message": "Admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
