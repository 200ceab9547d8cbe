package handler

import (
	"errors"

	"skill-barter/internal/delivery/http/middleware"
	"skill-barter/internal/pkg/response"
	"skill-barter/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, response.MessageBadRequest, nil, err)
	case errors.Is(err, usecase.ErrQuotaExceeded):
		return middleware.NewAppError(fiber.StatusTooManyRequests, usecase.ErrQuotaExceeded.Error(), nil, err)
	case errors.Is(err, usecase.ErrMatchNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, usecase.ErrMatchNotFound.Error(), nil, err)
	case errors.Is(err, usecase.ErrProfileNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, usecase.ErrProfileNotFound.Error(), nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
