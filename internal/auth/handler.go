package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vistara-fest/backend/pkg/response"
	"github.com/vistara-fest/backend/pkg/utils"
)

// LoginRequest is the body for POST /admin/login.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse is returned on success. The token sits at the top level, next to success.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// Secret is the configured admin credential. Hash (bcrypt) takes precedence over Plain.
type Secret struct {
	Plain string
	Hash  string
}

// Configured reports whether any admin secret is set.
func (s Secret) Configured() bool { return s.Plain != "" || s.Hash != "" }

// Matches checks password against the secret.
func (s Secret) Matches(password string) bool {
	if s.Hash != "" {
		return utils.CheckPassword(password, s.Hash)
	}
	return s.Plain != "" && utils.EqualSecret(password, s.Plain)
}

// Handler handles admin auth HTTP endpoints.
type Handler struct {
	secret  Secret
	jwt     *JWTService
	limiter *Limiter
	logger  *zap.Logger
}

// NewHandler creates an auth handler. limiter may be nil.
func NewHandler(secret Secret, jwt *JWTService, limiter *Limiter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{secret: secret, jwt: jwt, limiter: limiter, logger: logger}
}

// Login handles POST /admin/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Password == "" {
		response.BadRequest(c, "password is required")
		return
	}
	if !h.secret.Configured() {
		h.logger.Error("admin login attempted but no admin secret is configured")
		response.ServiceUnavailable(c, "admin login is not configured")
		return
	}

	ctx := c.Request.Context()
	client := c.ClientIP()
	blocked, err := h.limiter.Blocked(ctx, client)
	if err != nil {
		h.logger.Warn("login limiter unavailable", zap.Error(err))
	}
	if blocked {
		response.TooManyRequests(c, "too many failed attempts, try again later")
		return
	}

	if !h.secret.Matches(req.Password) {
		if err := h.limiter.Fail(ctx, client); err != nil {
			h.logger.Warn("record login failure", zap.Error(err))
		}
		h.logger.Info("admin login failed", zap.String("client_ip", client))
		response.Unauthorized(c, "invalid password")
		return
	}

	token, err := h.jwt.Generate()
	if err != nil {
		h.logger.Error("generate token failed", zap.Error(err))
		response.Internal(c, "failed to generate token")
		return
	}
	if err := h.limiter.Reset(ctx, client); err != nil {
		h.logger.Warn("reset login failures", zap.Error(err))
	}
	h.logger.Info("admin login", zap.String("client_ip", client))
	c.JSON(http.StatusOK, LoginResponse{Success: true, Token: token})
}
