package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/campnet-io/campnet-backend/internal/application"
	"github.com/campnet-io/campnet-backend/pkg/response"
	"github.com/campnet-io/campnet-backend/pkg/validation"
)

// AuthHandler covers registration, pin verification and password recovery.
type AuthHandler struct {
	Svc    *app.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *app.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,phone"`
	Password string `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), app.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrEmailTaken), errors.Is(err, app.ErrPhoneTaken):
			response.Fail(c, http.StatusConflict, err.Error(), nil)
		default:
			response.Fail(c, http.StatusInternalServerError, "registration failed", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
	}, "account created, check your phone for the verification pin", nil)
}

type verifyPinRequest struct {
	Pin string `json:"pin" binding:"required,len=4"`
}

func (h *AuthHandler) VerifyPin(c *gin.Context) {
	var req verifyPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.VerifyPin(c.Request.Context(), req.Pin)
	if err != nil {
		if errors.Is(err, app.ErrInvalidPin) {
			response.Fail(c, http.StatusUnauthorized, "invalid verification pin", nil)
			return
		}
		response.Fail(c, http.StatusInternalServerError, "verification failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"id": u.ID, "verified": true}, "account verified", nil)
}

type resendPinRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) ResendPin(c *gin.Context) {
	var req resendPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResendPin(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, app.ErrUserNotFound):
			response.Fail(c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, app.ErrAlreadyVerified):
			response.Fail(c, http.StatusConflict, "account already verified", nil)
		default:
			response.Fail(c, http.StatusInternalServerError, "resend failed", nil)
		}
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"sent": true}, "verification pin sent", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		// Do not leak which emails exist.
		if errors.Is(err, app.ErrUserNotFound) {
			response.Success[any](c, http.StatusOK, map[string]any{"sent": true}, "if the account exists a reset email was sent", nil)
			return
		}
		response.Fail(c, http.StatusInternalServerError, "could not send reset email", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"sent": true}, "if the account exists a reset email was sent", nil)
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, app.ErrResetTokenInvalid) {
			response.Fail(c, http.StatusUnauthorized, "reset token invalid or expired", nil)
			return
		}
		response.Fail(c, http.StatusInternalServerError, "could not reset password", nil)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"reset": true}, "password reset", nil)
}

// UploadAvatar accepts a multipart form with an "avatar" file field.
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	uid := c.GetString("userID")
	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "missing avatar file", nil)
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, file, header.Filename, contentType)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, "avatar upload failed", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar updated", nil)
}
