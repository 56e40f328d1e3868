// Package middleware provides authentication, logging, metrics and rate
// limiting middleware for the application.
package middleware

import (
	"strconv"
	"strings"

	"meriter/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	userID, ok := userIDFromHeader(c)
	if !ok {
		// userIDFromHeader already wrote the response.
		return nil
	}

	c.Locals("userID", userID)
	return c.Next()
}

// AuthOptional resolves the user ID when an Authorization header is present but
// lets anonymous requests through. The permission evaluator turns missing
// authentication into a structured notLoggedIn denial instead of a 401.
func AuthOptional(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Next()
	}

	if userID, err := parseToken(parts[1]); err == nil {
		c.Locals("userID", userID)
	}
	return c.Next()
}

func userIDFromHeader(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
		return 0, false
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
		return 0, false
	}

	userID, err := parseToken(parts[1])
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
		return 0, false
	}

	return userID, true
}

// parseToken validates a JWT and extracts the user ID from the "sub" claim
// (subject claim per RFC 7519).
func parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	subClaim, ok := claims["sub"]
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}

	subStr, ok := subClaim.(string)
	if !ok {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid token subject type")
	}

	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}

	return uint(userIDVal), nil
}
