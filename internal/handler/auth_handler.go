package handler

import (
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/tutor"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler serves registration, login and password reset.
type AuthHandler struct {
	authService tutor.AuthService
}

func NewAuthHandler(authService tutor.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// loginForm is the OAuth2 password grant body of POST /token.
type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Register handles POST /register/
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(err)
	}
	token, err := h.authService.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TokenResponse{AccessToken: token, TokenType: tutor.TokenTypeBearer})
}

// Login handles POST /token. The username field carries the e-mail address.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form loginForm
	if err := c.BodyParser(&form); err != nil {
		return invalidInput(err)
	}
	if form.Username == "" || form.Password == "" {
		return domain.NewUnauthorizedError("Incorrect email or password")
	}
	token, err := h.authService.Login(c.UserContext(), form.Username, form.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{AccessToken: token, TokenType: tutor.TokenTypeBearer})
}

// ForgotPassword handles POST /forgot-password
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(err)
	}
	msg, err := h.authService.ForgotPassword(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}

// ResetPassword handles POST /reset-password
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidInput(err)
	}
	msg, err := h.authService.ResetPassword(c.UserContext(), req.Token, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}
