package controller

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/emptyfist/crypto-portfolio/internal/middleware"
	"github.com/emptyfist/crypto-portfolio/internal/models"
	"github.com/emptyfist/crypto-portfolio/internal/repo"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup registers a new account
// @Summary Sign up
// @Description Create an account and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup payload"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} APIError
// @Failure 409 {object} APIError
// @Router /api/auth/signup [post]
func (c *Controller) Signup(ctx *gin.Context) {
	var req SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRe.MatchString(req.Email) {
		badRequest(ctx, "invalid email address")
		return
	}
	if len(req.Password) < 8 {
		badRequest(ctx, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		internalError(ctx, "failed to hash password")
		return
	}

	user := &models.User{
		Email:        req.Email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hash),
	}
	if err := c.repo.CreateUser(user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			conflict(ctx, "email already registered")
			return
		}
		c.logger.Error("failed to create user", "error", err)
		internalError(ctx, "failed to create user")
		return
	}

	token, err := middleware.GenerateToken(c.jwtSecret, c.jwtIssuer, user.ID, c.tokenTTL)
	if err != nil {
		internalError(ctx, "failed to issue token")
		return
	}

	ctx.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login authenticates an existing account
// @Summary Log in
// @Description Verify credentials and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} APIError
// @Failure 401 {object} APIError
// @Router /api/auth/login [post]
func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequestWithDetails(ctx, "invalid input", err.Error())
		return
	}

	user, err := c.repo.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		unauthorized(ctx, "invalid email or password")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		unauthorized(ctx, "invalid email or password")
		return
	}

	token, err := middleware.GenerateToken(c.jwtSecret, c.jwtIssuer, user.ID, c.tokenTTL)
	if err != nil {
		internalError(ctx, "failed to issue token")
		return
	}

	ctx.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}
