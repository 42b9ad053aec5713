package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"chat-relay/internal/domain"
	"chat-relay/internal/repository"
	"chat-relay/internal/service"
)

// AuthHandler implementa los endpoints de identidad que consumen los clientes
// del chat.
type AuthHandler struct {
	logger  *zap.Logger
	users   repository.UserRepository
	jwtServ *service.JWTService
}

func NewAuthHandler(logger *zap.Logger, users repository.UserRepository, jwtServ *service.JWTService) *AuthHandler {
	return &AuthHandler{logger: logger, users: users, jwtServ: jwtServ}
}

// Register maneja POST /api/auth/local/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorBody("invalid request"))
		return
	}

	if _, err := h.users.GetByIdentifier(c.Request.Context(), req.Username); err == nil {
		c.JSON(http.StatusBadRequest, errorBody("Email or Username are already taken"))
		return
	}
	if _, err := h.users.GetByIdentifier(c.Request.Context(), req.Email); err == nil {
		c.JSON(http.StatusBadRequest, errorBody("Email or Username are already taken"))
		return
	}

	hash, err := service.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hash password failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("could not register user"))
		return
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.logger.Error("create user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("could not register user"))
		return
	}

	h.respondWithToken(c, user)
}

// Login maneja POST /api/auth/local.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier" binding:"required"`
		Password   string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorBody("invalid request"))
		return
	}

	user, err := h.users.GetByIdentifier(c.Request.Context(), req.Identifier)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			h.logger.Error("lookup user failed", zap.Error(err))
		}
		c.JSON(http.StatusBadRequest, errorBody("Invalid identifier or password"))
		return
	}
	if !service.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusBadRequest, errorBody("Invalid identifier or password"))
		return
	}

	h.respondWithToken(c, user)
}

// Me maneja GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorBody("missing token"))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, errorBody("user not found"))
			return
		}
		h.logger.Error("lookup user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("could not load user"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AuthHandler) respondWithToken(c *gin.Context, user domain.User) {
	token, err := h.jwtServ.Generate(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("could not issue token"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"jwt": token, "user": user})
}
