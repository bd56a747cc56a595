package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jpart-gallery/gallery-api/internal/apperr"
	"github.com/jpart-gallery/gallery-api/internal/config"
	"github.com/jpart-gallery/gallery-api/internal/logger"
	"github.com/jpart-gallery/gallery-api/internal/middleware"
	"github.com/jpart-gallery/gallery-api/internal/models"
	"gorm.io/gorm"
)

const (
	adminSubject    = "admin"
	bootstrapName   = "Admin"
	secondsInMinute = 60
)

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// LoginRequest without an email is the gallery owner's password login
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"`
}

type BootstrapRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
	Secret   string `json:"secret" form:"secret"`
}

// Login verifies the credentials and sets the session cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	subject, role, ok := h.authenticate(c, req)
	if !ok {
		logger.Warn("Login rejected", logger.WithContext(c))
		c.JSON(http.StatusUnauthorized, gin.H{"error": invalidCredentialsMsg})
		return
	}

	token, err := middleware.IssueToken(h.cfg, subject, role)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, token, h.cfg.JWTExpiresMin*secondsInMinute)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) authenticate(c *gin.Context, req LoginRequest) (subject, role string, ok bool) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		if models.CheckPasswordHash(req.Password, h.cfg.AdminPasswordHash) {
			return adminSubject, models.RoleAdmin, true
		}
		return "", "", false
	}

	if h.db == nil {
		return "", "", false
	}
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to load user", err, logger.WithContext(c))
		}
		return "", "", false
	}
	if !user.CheckPassword(req.Password) {
		return "", "", false
	}
	return user.Email, user.Role, true
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me reports whether the caller holds an admin session. It never fails.
func (h *AuthHandler) Me(c *gin.Context) {
	isAdmin := false
	if token := middleware.TokenFromRequest(c); token != "" {
		if claims, err := middleware.ParseToken(h.cfg, token); err == nil {
			isAdmin = models.IsAdmin(claims.Role)
		}
	}
	c.JSON(http.StatusOK, gin.H{"isAdmin": isAdmin})
}

// Register creates a regular user account
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing int64
	if err := h.db.WithContext(c.Request.Context()).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		respondError(c, err)
		return
	}
	if existing > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}

	user, err := h.createUser(c, email, strings.TrimSpace(req.Name), req.Password, models.RoleUser)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Bootstrap creates the first admin account. It is refused once any user exists.
func (h *AuthHandler) Bootstrap(c *gin.Context) {
	var req BootstrapRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	var count int64
	if err := h.db.WithContext(c.Request.Context()).Model(&models.User{}).Count(&count).Error; err != nil {
		respondError(c, err)
		return
	}
	if count > 0 {
		respondError(c, apperr.New(apperr.KindForbidden, "Bootstrap not allowed after users exist"))
		return
	}
	if h.cfg.BootstrapSecret != "" && req.Secret != h.cfg.BootstrapSecret {
		respondError(c, apperr.New(apperr.KindForbidden, "Invalid bootstrap secret"))
		return
	}

	user, err := h.createUser(c, strings.ToLower(strings.TrimSpace(req.Email)), bootstrapName, req.Password, models.RoleAdmin)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Admin bootstrapped", logger.Fields{"email": user.Email})
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) createUser(c *gin.Context, email, name, password, role string) (*models.User, error) {
	user := &models.User{Email: email, Name: name, Role: role}
	if err := user.HashPassword(password); err != nil {
		return nil, err
	}
	if err := h.db.WithContext(c.Request.Context()).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// setSessionCookie sends the token as an HttpOnly cookie. Cross-site storefronts need
// SameSite=None, which browsers only accept together with Secure.
func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	secure := isHTTPS(c.Request)
	if secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", h.cfg.CookieDomain, secure, true)
}

func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), forwardedProtoHTTPS)
}
