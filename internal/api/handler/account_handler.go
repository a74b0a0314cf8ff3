package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/empresatop10/employee-manager/internal/api/metrics"
	"github.com/empresatop10/employee-manager/internal/core/domain"
	"github.com/empresatop10/employee-manager/internal/core/ports"
)

// recoverMessage is answered for every well-formed recover-password request,
// whether or not the address belongs to an employee.
const recoverMessage = "If the e-mail is registered, a message with instructions to reset the password has been sent."

// AccountHandler serves login and the self-service account operations.
type AccountHandler struct {
	accounts ports.AccountService
	log      zerolog.Logger
}

func NewAccountHandler(accounts ports.AccountService, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, log: log}
}

// Login authenticates an employee and returns a bearer token.
//
// @Summary      Login
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.LoginResult
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	res, err := h.accounts.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, res)
}

// ChangePassword replaces the caller's password after checking the old one.
//
// @Summary      Change own password
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Old and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/change-password [put]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ChangePassword(c.Request().Context(), actor, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "old password is wrong")
		}
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated successfully"})
}

// RecoverPassword sends a reset link. The answer never reveals whether the
// address is registered.
//
// @Summary      Request a password reset link
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      recoverPasswordRequest  true  "Account e-mail"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/v1/recover-password [post]
func (h *AccountHandler) RecoverPassword(c echo.Context) error {
	var req recoverPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err := h.accounts.RequestReset(c.Request().Context(), req.Email)
	switch {
	case err == nil:
		metrics.PasswordResetsRequestedTotal.Inc()
	case errors.Is(err, domain.ErrEmployeeNotFound):
		h.log.Debug().Msg("password reset requested for an unknown address")
	case errors.Is(err, domain.ErrGatewayFailure):
		metrics.MailFailuresTotal.WithLabelValues("reset").Inc()
		return err
	default:
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: recoverMessage})
}

// CheckResetToken reports whether a reset link can still be used.
//
// @Summary      Check a password reset link
// @Tags         account
// @Produce      json
// @Param        hash  path      string  true  "Reset token"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/reset-password/{hash} [get]
func (h *AccountHandler) CheckResetToken(c echo.Context) error {
	if err := h.accounts.ResetTokenValid(c.Request().Context(), c.Param("hash")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Reset link is valid"})
}

// ResetPassword sets a new password with a reset link and signs the
// employee out everywhere.
//
// @Summary      Reset password
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        hash  path      string                true  "Reset token"
// @Param        body  body      resetPasswordRequest  true  "New password twice"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/reset-password/{hash} [post]
func (h *AccountHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.accounts.ConsumeReset(c.Request().Context(), c.Param("hash"), req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	metrics.PasswordResetsConsumedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Password has been reset"})
}

// DeviceToken stores the caller's push notification token.
//
// @Summary      Register device token
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      deviceTokenRequest  true  "Device token"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/v1/device-token [post]
func (h *AccountHandler) DeviceToken(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req deviceTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.accounts.SetDeviceToken(c.Request().Context(), actor, req.DeviceToken); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Device token saved"})
}

// Contact forwards a message from the caller to the support address.
//
// @Summary      Contact support
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      contactRequest  true  "Message"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/v1/contact [post]
func (h *AccountHandler) Contact(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req contactRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	err = h.accounts.SendContact(c.Request().Context(), actor, ports.ContactInput{Subject: req.Subject, Message: req.Message})
	if err != nil {
		if errors.Is(err, domain.ErrGatewayFailure) {
			metrics.MailFailuresTotal.WithLabelValues("contact").Inc()
		}
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Message sent"})
}
