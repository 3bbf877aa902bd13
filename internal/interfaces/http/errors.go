package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/trebol-admin/internal/application/dto"
	"github.com/jhoicas/trebol-admin/internal/domain"
)

// errNoDraft no hay venta en curso.
var errNoDraft = errors.New("no hay una venta en curso")

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: los errores más específicos primero.
var errorMappings = []errorMapping{
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrNoClientSelected, fiber.StatusBadRequest, "NO_CLIENT"},
	{domain.ErrEmptyDraft, fiber.StatusBadRequest, "EMPTY_DRAFT"},
	{domain.ErrSubmitInProgress, fiber.StatusConflict, "SUBMIT_IN_PROGRESS"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "INVALID_INPUT"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrRefreshFailed, fiber.StatusUnauthorized, "REFRESH_FAILED"},
	{domain.ErrNotAuthenticated, fiber.StatusUnauthorized, "NOT_AUTHENTICATED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{errNoDraft, fiber.StatusNotFound, "NO_DRAFT"},
	{domain.ErrNetwork, fiber.StatusBadGateway, "BACKEND_UNAVAILABLE"},
	{domain.ErrProfileFetchFailed, fiber.StatusBadGateway, "PROFILE_UNAVAILABLE"},
}

// respondError traduce un error de dominio a status + dto.ErrorResponse.
// Los errores de validación del backend viajan por campo en Fields.
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: verr.Error(),
			Fields:  verr.Fields,
		})
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// paramID lee un id positivo de la ruta.
func paramID(c *fiber.Ctx, name string) (int, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s inválido: %w", name, domain.ErrInvalidInput)
	}
	return id, nil
}
