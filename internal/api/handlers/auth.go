package handlers

import (
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/api/middleware"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/config"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/domain"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/repository"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/internal/store"
	"github.com/FERRETERIA-JyM-GUTIERREZ/AP-WEB-FERRE-JMG-sub001/pkg/errors"
)

// RegisterRequest is the client signup payload. Staff accounts are created
// out of band, never through this endpoint.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	DNI      string `json:"dni"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone"`
	FullName string      `json:"full_name"`
	DNI      *string     `json:"dni,omitempty"`
	Role     domain.Role `json:"role"`
}

func toUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		Phone:    user.Phone,
		FullName: user.FullName,
		DNI:      user.DNI,
		Role:     user.Role,
	}
}

func HandleRegister(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if req.DNI != "" && utf8.RuneCountInString(req.DNI) != 8 {
			verr := &errors.ErrValidation{}
			verr.Add("dni", "national id must be exactly 8 characters")
			respondError(c, logger, verr)
			return
		}

		if _, err := repos.User.GetByEmail(c.Request.Context(), req.Email); err == nil {
			respondError(c, logger, &errors.ErrConflict{Message: "email already registered"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		user := &domain.User{
			Email:        req.Email,
			Phone:        req.Phone,
			FullName:     req.FullName,
			PasswordHash: string(hash),
			Role:         domain.RoleClient,
			IsActive:     true,
		}
		if req.DNI != "" {
			user.DNI = &req.DNI
		}

		if err := repos.User.Create(c.Request.Context(), user); err != nil {
			respondError(c, logger, err)
			return
		}

		token, err := middleware.GenerateToken(cfg.JWT, user)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("Account registered", zap.String("user_id", user.ID.String()))
		c.JSON(http.StatusCreated, AuthResponse{Token: token, User: toUserResponse(user)})
	}
}

// HandleLogin authenticates both clients and staff; the issued token carries
// the stored role. On a client login any guest favorites collected under the
// session key are merged into the account and the session copy is cleared.
func HandleLogin(cfg *config.Config, repos *repository.Repositories, sessions *store.SessionStore, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		user, err := checkCredentials(c, repos, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		token, err := middleware.GenerateToken(cfg.JWT, user)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		if user.Role == domain.RoleClient {
			mergeGuestFavorites(c, repos, sessions, user, logger)
		}

		logger.Info("Login", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: toUserResponse(user)})
	}
}

// HandleStaffLogin is the back-office entry point. Client accounts are
// rejected with the same message as bad credentials so the endpoint does not
// reveal which emails exist.
func HandleStaffLogin(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		user, err := checkCredentials(c, repos, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		if user.Role != domain.RoleStaff {
			respondError(c, logger, &errors.ErrUnauthorized{Message: "invalid credentials"})
			return
		}

		token, err := middleware.GenerateToken(cfg.JWT, user)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		logger.Info("Staff login", zap.String("user_id", user.ID.String()))
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: toUserResponse(user)})
	}
}

func checkCredentials(c *gin.Context, repos *repository.Repositories, req LoginRequest) (*domain.User, error) {
	user, err := repos.User.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		return nil, &errors.ErrUnauthorized{Message: "invalid credentials"}
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, &errors.ErrUnauthorized{Message: "invalid credentials"}
	}

	if !user.IsActive {
		return nil, &errors.ErrUnauthorized{Message: "account is inactive"}
	}

	return user, nil
}

// mergeGuestFavorites folds session favorites into the account. Best-effort:
// a failure leaves the guest list in place for the next login.
func mergeGuestFavorites(c *gin.Context, repos *repository.Repositories, sessions *store.SessionStore, user *domain.User, logger *zap.Logger) {
	sessionKey := middleware.GetSessionKey(c)
	if sessionKey == "" {
		return
	}

	ctx := c.Request.Context()

	guest, err := sessions.GuestFavorites.List(ctx, sessionKey)
	if err != nil {
		logger.Warn("Failed to read guest favorites for merge", zap.Error(err))
		return
	}
	if len(guest) == 0 {
		return
	}

	account, err := repos.Favorite.ListProductIDs(ctx, user.ID)
	if err != nil {
		logger.Warn("Failed to read account favorites for merge", zap.Error(err))
		return
	}

	missing := store.MergeGuestFavorites(account, guest)
	if len(missing) > 0 {
		if err := repos.Favorite.AddBatch(ctx, user.ID, missing); err != nil {
			logger.Warn("Failed to merge guest favorites", zap.Error(err))
			return
		}
	}

	if err := sessions.GuestFavorites.Clear(ctx, sessionKey); err != nil {
		logger.Warn("Failed to clear guest favorites after merge", zap.Error(err))
	}

	logger.Info("Merged guest favorites",
		zap.String("user_id", user.ID.String()),
		zap.Int("merged", len(missing)),
	)
}

func HandleGetProfile(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	DNI      string `json:"dni"`
}

func HandleUpdateProfile(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if req.DNI != "" && utf8.RuneCountInString(req.DNI) != 8 {
			verr := &errors.ErrValidation{}
			verr.Add("dni", "national id must be exactly 8 characters")
			respondError(c, logger, verr)
			return
		}

		user.FullName = req.FullName
		user.Phone = req.Phone
		if req.DNI != "" {
			user.DNI = &req.DNI
		} else {
			user.DNI = nil
		}

		if err := repos.User.Update(c.Request.Context(), user); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toUserResponse(user))
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

func HandleChangePassword(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
			respondError(c, logger, &errors.ErrUnauthorized{Message: "current password is incorrect"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		if err := repos.User.UpdatePassword(c.Request.Context(), user.ID, string(hash)); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "password updated"})
	}
}
