package http

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"auth-service/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth     service.AuthService
	recovery service.RecoveryService
	logger   *logrus.Logger
}

func NewHandler(auth service.AuthService, recovery service.RecoveryService, logger *logrus.Logger) *Handler {
	return &Handler{
		auth:     auth,
		recovery: recovery,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World!")
	})
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Server is running"})
	})
	router.GET("/reset-password", h.resetPasswordForm)
	router.POST("/reset-password", h.resetPassword)

	api := router.Group("/api")
	{
		api.POST("/signup", h.signup)
		api.POST("/login", h.login)
		api.POST("/recover", h.recover)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func (h *Handler) requestLog(c *gin.Context) *logrus.Entry {
	return h.logger.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
	})
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type recoverRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid request body")
		return
	}

	if _, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingEmail):
			c.String(http.StatusBadRequest, "Email is required")
		case errors.Is(err, service.ErrMissingPassword):
			c.String(http.StatusBadRequest, "Password is required")
		case errors.Is(err, service.ErrInvalidEmailFormat):
			c.String(http.StatusBadRequest, "Invalid email format")
		case errors.Is(err, service.ErrWeakPassword):
			c.String(http.StatusBadRequest, weakPasswordMessage)
		case errors.Is(err, service.ErrEmailExists):
			c.String(http.StatusConflict, "Email already exists")
		default:
			h.requestLog(c).WithError(err).Error("signup failed")
			c.String(http.StatusInternalServerError, "Server error")
		}
		return
	}

	c.String(http.StatusCreated, "User created")
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusUnauthorized, "Invalid credentials")
		return
	}

	sessionToken, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.String(http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.requestLog(c).WithError(err).Error("login failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": sessionToken})
}

func (h *Handler) recover(c *gin.Context) {
	var req recoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid email format")
		return
	}

	if err := h.recovery.RequestRecovery(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrInvalidEmailFormat) {
			c.String(http.StatusBadRequest, "Invalid email format")
			return
		}
		h.requestLog(c).WithError(err).Error("recovery request failed")
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	c.String(http.StatusOK, "Recovery email sent")
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid or expired token.")
		return
	}

	if err := h.recovery.ConsumeReset(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrExpiredToken):
			c.String(http.StatusBadRequest, "Invalid or expired token.")
		case errors.Is(err, service.ErrWeakPassword):
			c.String(http.StatusBadRequest, weakPasswordMessage)
		default:
			h.requestLog(c).WithError(err).Error("password reset failed")
			c.String(http.StatusInternalServerError, "Server error")
		}
		return
	}

	c.String(http.StatusOK, "Password has been reset successfully.")
}

const weakPasswordMessage = "Password must be at least 8 characters long and include a mix of letters, numbers, or symbols."

var resetFormTemplate = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<head><title>Reset Password</title></head>
<body>
  <form method="POST" action="/reset-password">
    <input type="hidden" name="token" value="{{.Token}}">
    <label for="newPassword">New password</label>
    <input type="password" id="newPassword" name="newPassword" required>
    <button type="submit">Reset Password</button>
  </form>
</body>
</html>
`))

func (h *Handler) resetPasswordForm(c *gin.Context) {
	resetToken := c.Query("token")
	if resetToken == "" {
		c.String(http.StatusBadRequest, "Token is required")
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := resetFormTemplate.Execute(c.Writer, gin.H{"Token": resetToken}); err != nil {
		h.requestLog(c).WithError(err).Error("render reset form")
	}
}
