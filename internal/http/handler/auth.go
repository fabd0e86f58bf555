package handler

import (
	"github.com/gofiber/fiber/v2"

	"fitbook/internal/http/middleware"
	"fitbook/internal/model"
	"fitbook/internal/service"
)

type confirmRequest struct {
	Token string `json:"token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

const checkEmail = "check your email to confirm your account"

type registerResponse struct {
	User    *model.User    `json:"user"`
	Trainer *model.Trainer `json:"trainer,omitempty"`
	Message string         `json:"message"`
}

// Register godoc
// @Summary Register a client account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterInput true "Account"
// @Success 201 {object} registerResponse
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /auth/register [post]
func Register(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		u, err := svc.Register(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(registerResponse{User: u, Message: checkEmail})
	}
}

// RegisterTrainer godoc
// @Summary Register a trainer account with its profile
// @Tags auth
// @Accept json
// @Produce json
// @Param body body service.RegisterTrainerInput true "Account and trainer profile"
// @Success 201 {object} registerResponse
// @Failure 400 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /auth/register/trainer [post]
func RegisterTrainer(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterTrainerInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
		u, tr, err := svc.RegisterTrainer(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(registerResponse{User: u, Trainer: tr, Message: checkEmail})
	}
}

// ConfirmEmail godoc
// @Summary Confirm an email address
// @Description Accepts the token as a JSON body or as the token query parameter of the emailed link.
// @Tags auth
// @Accept json
// @Produce json
// @Param token query string false "Confirmation token"
// @Success 200 {object} model.User
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /auth/confirm [post]
func ConfirmEmail(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := confirmRequest{Token: c.Query("token")}
		if req.Token == "" && len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return invalidBody(c)
			}
		}
		u, err := svc.Confirm(c.UserContext(), req.Token)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

// ResendConfirmation godoc
// @Summary Resend the confirmation email
// @Description Always answers 202 so account existence is not disclosed.
// @Tags auth
// @Accept json
// @Param body body emailRequest true "Email"
// @Success 202
// @Failure 400 {object} errorPayload
// @Router /auth/resend-confirmation [post]
func ResendConfirmation(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req emailRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		if err := svc.ResendConfirmation(c.UserContext(), req.Email); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusAccepted)
	}
}

// SignIn godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param body body signInRequest true "Credentials"
// @Success 200 {object} service.SignInResult
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Router /auth/signin [post]
func SignIn(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req signInRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidBody(c)
		}
		res, err := svc.SignIn(c.UserContext(), req.Email, req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// SignOut godoc
// @Summary Revoke the current access token
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errorPayload
// @Router /auth/signout [post]
func SignOut(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.SignOut(c.UserContext(), middleware.ClaimsFrom(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Me godoc
// @Summary Current user and role
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} service.CurrentUser
// @Failure 401 {object} errorPayload
// @Router /auth/me [get]
func Me(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cu, err := svc.CurrentUser(c.UserContext(), middleware.ClaimsFrom(c).UserID())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(cu)
	}
}
