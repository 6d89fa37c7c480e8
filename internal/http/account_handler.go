package http

import (
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"superlists/internal/domain"
	"superlists/internal/repository"
	"superlists/internal/service"
)

const (
	homePath            = "/"
	registerSuccessPath = "/accounts/register/success/"
)

// AccountHandler mantiene dependencias para registro, confirmacion y sesiones.
type AccountHandler struct {
	logger   *zap.Logger
	accounts *service.AccountService
	sessions *service.SessionService
	lists    repository.TodoListRepository
	cookies  CookieOptions
}

// NewAccountHandler crea una instancia de AccountHandler con dependencias necesarias.
func NewAccountHandler(
	logger *zap.Logger,
	accounts *service.AccountService,
	sessions *service.SessionService,
	lists repository.TodoListRepository,
	cookies CookieOptions,
) *AccountHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountHandler{
		logger:   logger,
		accounts: accounts,
		sessions: sessions,
		lists:    lists,
		cookies:  cookies,
	}
}

// RegisterForm maneja GET /accounts/register/.
func (h *AccountHandler) RegisterForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": service.RegisterFormRules()})
}

// Register maneja POST /accounts/register/ con formulario o JSON.
func (h *AccountHandler) Register(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBind(&input); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if _, err := h.accounts.Register(c.Request.Context(), input); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"errors": verr.ByField()})
			return
		}
		h.logger.Error("register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
		return
	}

	c.Redirect(http.StatusFound, registerSuccessPath)
}

// RegisterSuccess maneja GET /accounts/register/success/.
func (h *AccountHandler) RegisterSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "pending_confirmation"})
}

// Confirm maneja GET /accounts/register/confirm/:profile_id/:code/.
func (h *AccountHandler) Confirm(c *gin.Context) {
	profileID, err := strconv.ParseInt(c.Param("profile_id"), 10, 64)
	code := c.Param("code")
	if err != nil || profileID <= 0 || utf8.RuneCountInString(code) != domain.ConfirmationCodeLength {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	res, err := h.accounts.Confirm(c.Request.Context(), profileID, code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound),
			errors.Is(err, service.ErrConfirmationInvalid),
			errors.Is(err, service.ErrConfirmationExpired):
			h.logger.Warn("confirmation failed", zap.Error(err), zap.Int64("profile_id", profileID))
			c.JSON(http.StatusOK, service.ConfirmationResult{Success: false})
			return
		default:
			h.logger.Error("confirm failed", zap.Error(err), zap.Int64("profile_id", profileID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not confirm"})
			return
		}
	}

	c.JSON(http.StatusOK, res)
}

// LoginRedirect maneja GET /accounts/login/. No hay formulario propio.
func (h *AccountHandler) LoginRedirect(c *gin.Context) {
	c.Redirect(http.StatusFound, homePath)
}

// Login maneja POST /accounts/login/.
func (h *AccountHandler) Login(c *gin.Context) {
	var req struct {
		Username string `form:"username" json:"username"`
		Password string `form:"password" json:"password"`
	}
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		addFlash(c, h.cookies, service.MsgLoginIncorrect)
		c.Redirect(http.StatusFound, homePath)
		return
	}

	res, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) &&
			!errors.Is(err, service.ErrAccountInactive) &&
			!errors.Is(err, service.ErrRateLimited) {
			h.logger.Error("login failed", zap.Error(err))
		}
		addFlash(c, h.cookies, h.sessions.LoginFailureMessage(err))
		c.Redirect(http.StatusFound, homePath)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, res.Token, int(h.sessions.TTL().Seconds()), "/", "", h.cookies.Secure, true)
	c.Redirect(http.StatusFound, homePath)
}

// Logout maneja GET /accounts/logout/.
func (h *AccountHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(sessionCookieName); err == nil && token != "" {
		if err := h.sessions.Logout(c.Request.Context(), token); err != nil {
			h.logger.Warn("logout failed", zap.Error(err))
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", h.cookies.Secure, true)
	c.Redirect(http.StatusFound, homePath)
}

// User maneja GET /accounts/user/. Requiere sesion.
func (h *AccountHandler) User(c *gin.Context) {
	session, ok := GetSession(c)
	if !ok {
		c.Redirect(http.StatusFound, loginPath)
		return
	}

	lists := []domain.TodoList{}
	if h.lists != nil && session.ProfileID > 0 {
		found, err := h.lists.ListByProfile(c.Request.Context(), session.ProfileID)
		if err != nil {
			h.logger.Error("list user lists failed", zap.Error(err), zap.String("username", session.Username))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load lists"})
			return
		}
		if found != nil {
			lists = found
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"username":   session.Username,
		"todo_lists": lists,
	})
}
