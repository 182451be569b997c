package http

import (
	"jobboard_server/core/port/in"
	"jobboard_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	auth in.AuthService
}

func NewAuthHandler(auth in.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register mounts the public credential routes.
func (h *AuthHandler) Register(r fiber.Router) {
	r.Post("/register/student", h.RegisterStudent)
	r.Post("/register/company", h.RegisterCompany)
	r.Post("/login", h.Login)
	r.Post("/admin/login", h.AdminLogin)
}

func (h *AuthHandler) RegisterStudent(c *fiber.Ctx) error {
	var req in.RegisterStudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.auth.RegisterStudent(c.Context(), &req)
	if err != nil {
		return err
	}
	return response.Created(c, "Student registered successfully", resp)
}

func (h *AuthHandler) RegisterCompany(c *fiber.Ctx) error {
	var req in.RegisterCompanyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.auth.RegisterCompany(c.Context(), &req)
	if err != nil {
		return err
	}
	return response.Created(c, "Company registered successfully", resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req in.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.auth.Login(c.Context(), &req)
	if err != nil {
		return err
	}
	return response.OK(c, "Login successful", resp)
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req in.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	resp, err := h.auth.AdminLogin(c.Context(), &req)
	if err != nil {
		return err
	}
	return response.OK(c, "Admin login successful", resp)
}

// ChangePassword serves both the student and company password routes.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req in.ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.auth.ChangePassword(c.Context(), id, &req); err != nil {
		return err
	}
	return response.OK(c, "Password updated successfully", nil)
}
