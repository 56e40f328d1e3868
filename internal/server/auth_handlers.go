package server

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"meriter/internal/models"
	"meriter/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Register handles POST /api/auth/register
// @Summary User registration
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string} true "Registration request"
// @Success 201 {object} object{token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, and password are required"))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if _, err := s.userRepo.GetByEmail(c.UserContext(), req.Email); err == nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("User already exists"))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}
	if createErr := s.userRepo.Create(c.UserContext(), user); createErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, createErr)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Login handles POST /api/auth/login
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string,password=string} true "Login credentials"
// @Success 200 {object} object{token=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByEmail(c.UserContext(), req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)
	user, err := s.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      "meriter-api",
		"aud":      "meriter-client",
		"exp":      now.Add(time.Hour * 24 * 7).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
