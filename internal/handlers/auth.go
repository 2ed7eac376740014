package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/biodex/internal/domain"
	"github.com/nfrund/biodex/internal/email"
	"github.com/nfrund/biodex/internal/metrics"
	"github.com/nfrund/biodex/internal/middleware"
	"github.com/nfrund/biodex/internal/view"
)

// AuthHandler handles sign-up, sign-in and sign-out.
type AuthHandler struct {
	userStore domain.UserRepository
	emailer   domain.EmailSender
	metrics   *metrics.Metrics
	baseURL   string
}

// NewAuthHandler creates a new AuthHandler. emailer and m may be nil.
func NewAuthHandler(userStore domain.UserRepository, emailer domain.EmailSender, m *metrics.Metrics, baseURL string) *AuthHandler {
	return &AuthHandler{
		userStore: userStore,
		emailer:   emailer,
		metrics:   m,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

// SignUpPost creates the account and profile, then signs the user in.
func (h *AuthHandler) SignUpPost(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid sign-up form").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		h.recordAuth("signup", false)
		return h.rejectForm(c, req.Email, validationMessage(err))
	}

	signUp := domain.SignUpRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: strings.TrimSpace(req.DisplayName),
	}
	if bio := strings.TrimSpace(req.Biography); bio != "" {
		signUp.Biography = &bio
	}

	user, sess, err := h.userStore.SignUp(ctx, signUp)
	if err != nil {
		h.recordAuth("signup", false)
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return h.rejectForm(c, req.Email, "A user with this email already exists.")
		}
		logger.Error("Error creating user", "error", err)
		return h.rejectForm(c, req.Email, "Could not create your account.")
	}
	h.recordAuth("signup", true)

	middleware.SetAuthCookie(c, sess)
	h.sendWelcome(c, user)

	view.SetFlashSuccess(c, "Account created successfully!")
	return c.Redirect(http.StatusSeeOther, "/species")
}

// LoginPost verifies credentials and sets the session cookie.
func (h *AuthHandler) LoginPost(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid login form").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		h.recordAuth("login", false)
		return h.rejectForm(c, req.Email, "Invalid email or password.")
	}

	_, sess, err := h.userStore.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		h.recordAuth("login", false)
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			middleware.FromContext(ctx).Error("Sign-in failed", "error", err)
		} else {
			middleware.FromContext(ctx).Warn("Failed login attempt", "email", req.Email)
		}
		return h.rejectForm(c, req.Email, "Invalid email or password.")
	}
	h.recordAuth("login", true)

	middleware.SetAuthCookie(c, sess)
	view.SetFlashSuccess(c, "Logged in successfully!")
	return c.Redirect(http.StatusSeeOther, "/species")
}

// Logout invalidates the session and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.AuthCookieName); err == nil && cookie.Value != "" {
		if err := h.userStore.SignOut(c.Request().Context(), cookie.Value); err != nil {
			middleware.FromContext(c.Request().Context()).Error("Failed to sign out", "error", err)
		}
	}
	middleware.ClearAuthCookie(c)

	view.SetFlashSuccess(c, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, "/")
}

// rejectForm flashes msg, remembers the email and sends the user back home.
func (h *AuthHandler) rejectForm(c echo.Context, emailAddr, msg string) error {
	view.SetFlashError(c, msg)
	view.SetFlashEmail(c, emailAddr)
	return c.Redirect(http.StatusSeeOther, "/")
}

// sendWelcome never fails the sign-up. Errors are logged.
func (h *AuthHandler) sendWelcome(c echo.Context, user *domain.User) {
	if h.emailer == nil || user == nil {
		return
	}
	logger := middleware.FromContext(c.Request().Context())
	body, err := email.WelcomeBody(user.DisplayName, h.baseURL)
	if err != nil {
		logger.Error("Failed to render welcome email", "error", err)
		return
	}
	if err := h.emailer.Send(user.Email, email.WelcomeSubject, body); err != nil {
		logger.Error("Failed to send welcome email", "error", err, "email", user.Email)
	}
}

func (h *AuthHandler) recordAuth(action string, ok bool) {
	if h.metrics != nil {
		h.metrics.Auth(action, ok)
	}
}
