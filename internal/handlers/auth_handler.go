package handlers

import (
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/config"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/dto"
	"github.com/ahmetcoskunkizilkaya/habit-tracker/internal/services"
	"github.com/gofiber/fiber/v2"
)

const refreshCookie = "refresh_token"

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
	clock       Clock
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config, clock Clock) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg, clock: clock}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.authService.Register(c.UserContext(), &req, h.clock.today())
	if err != nil {
		return serviceError(c, err)
	}

	h.setSessionCookies(c, resp)
	return c.JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, err)
	}

	h.setSessionCookies(c, resp)
	return c.JSON(resp)
}

// Refresh takes the refresh token from the body, falling back to the cookie.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
	}
	if req.RefreshToken == "" {
		req.RefreshToken = c.Cookies(refreshCookie)
	}

	resp, err := h.authService.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return serviceError(c, err)
	}

	h.setSessionCookies(c, resp)
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
	}
	if req.RefreshToken == "" {
		req.RefreshToken = c.Cookies(refreshCookie)
	}

	if err := h.authService.Logout(c.UserContext(), req.RefreshToken); err != nil {
		return err
	}

	h.clearSessionCookies(c)
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// Me resolves the session if there is one. No session is not an error.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	raw := c.Cookies(h.cfg.SessionCookie)
	if raw == "" {
		raw = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	}
	if raw == "" {
		return c.JSON(dto.MeResponse{})
	}

	userID, err := h.authService.ParseAccessToken(raw)
	if err != nil {
		return c.JSON(dto.MeResponse{})
	}

	user, err := h.authService.GetUser(c.UserContext(), userID)
	if err != nil {
		return c.JSON(dto.MeResponse{})
	}

	resp := dto.NewUserResponse(user)
	return c.JSON(dto.MeResponse{User: &resp})
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.authService.DeleteAccount(c.UserContext(), userID, req.Password); err != nil {
		return serviceError(c, err)
	}

	h.clearSessionCookies(c)
	return c.JSON(dto.MessageResponse{Message: "Account deleted successfully"})
}

func (h *AuthHandler) setSessionCookies(c *fiber.Ctx, resp *dto.AuthResponse) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.SessionCookie,
		Value:    resp.AccessToken,
		Path:     "/",
		Expires:  resp.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    resp.RefreshToken,
		Path:     "/api/auth",
		Expires:  time.Now().Add(h.cfg.JWTRefreshExpiry),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookies(c *fiber.Ctx) {
	for _, ck := range []struct{ name, path string }{
		{h.cfg.SessionCookie, "/"},
		{refreshCookie, "/api/auth"},
	} {
		c.Cookie(&fiber.Cookie{
			Name:     ck.name,
			Value:    "",
			Path:     ck.path,
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HTTPOnly: true,
			Secure:   h.cfg.CookieSecure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
}
