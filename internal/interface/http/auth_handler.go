package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/internal/application"
	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
	"github.com/oksasatya/protocol-blackout/pkg/response"
	"github.com/oksasatya/protocol-blackout/pkg/validation"
)

// AuthUseCases is the slice of the auth service the HTTP layer drives.
type AuthUseCases interface {
	Register(ctx context.Context, in application.RegisterInput) (entity.PublicUser, error)
	Login(ctx context.Context, email, password string) (application.LoginResult, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ConfirmPasswordReset(ctx context.Context, rawToken, newPassword string) error
	VerifyEmail(ctx context.Context, rawToken string) error
	GetProfile(ctx context.Context, userID string) (entity.PublicUser, error)
	DeleteProfile(ctx context.Context, userID string) error
}

type AuthHandler struct {
	Svc    AuthUseCases
	Logger logrus.FieldLogger
}

func NewAuthHandler(svc AuthUseCases, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"present"`
	Email    string `json:"email" binding:"present"`
	Password string `json:"password" binding:"present"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"present"`
	Password string `json:"password" binding:"present"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Token       string `json:"token" binding:"present"`
	NewPassword string `json:"newPassword" binding:"present"`
}

type loginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      entity.PublicUser `json:"user"`
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, user, "registration successful, check your email to verify the account", nil)
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, loginResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, User: res.User}, "login successful", nil)
}

// RequestPasswordReset POST /auth/password-reset/request
// The answer is identical whether or not the email is registered.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	msg, err := h.Svc.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, msg, nil)
}

// ConfirmPasswordReset POST /auth/password-reset/confirm
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ConfirmPasswordReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated, please log in again", nil)
}

// VerifyEmail GET /auth/verify-email?token=
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.Svc.VerifyEmail(c.Request.Context(), c.Query("token")); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verified": true}, "email verified", nil)
}

// GetProfile GET /auth/profile (auth required)
func (h *AuthHandler) GetProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		writeError(c, h.Logger, application.ErrNotAuthorized)
		return
	}
	user, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, user, "profile loaded", nil)
}

// DeleteProfile DELETE /auth/profile (auth required)
func (h *AuthHandler) DeleteProfile(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		writeError(c, h.Logger, application.ErrNotAuthorized)
		return
	}
	if err := h.Svc.DeleteProfile(c.Request.Context(), uid); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "profile deleted", nil)
}
