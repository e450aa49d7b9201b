package handler

import (
	"log/slog"

	"storefront-service/app/domain"
	"storefront-service/app/handler/api/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ManufacturerOrderHandler struct {
	manufacturerUsecase domain.ManufacturerOrderUsecase
	validator           *validator.Validate
}

func NewManufacturerOrderHandler(manufacturerUsecase domain.ManufacturerOrderUsecase, validator *validator.Validate) *ManufacturerOrderHandler {
	return &ManufacturerOrderHandler{
		manufacturerUsecase: manufacturerUsecase,
		validator:           validator,
	}
}

func (h *ManufacturerOrderHandler) Create(c *fiber.Ctx) error {
	var req domain.ManufacturerOrderCreateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[manufacturerOrderHandler] Create", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[manufacturerOrderHandler] Create", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	order, err := h.manufacturerUsecase.Create(c.Context(), req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[manufacturerOrderHandler] Create", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusCreated).JSON(response.Success(order))
}

func (h *ManufacturerOrderHandler) GetList(c *fiber.Ctx) error {
	orders, err := h.manufacturerUsecase.GetList(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "[manufacturerOrderHandler] GetList", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(orders))
}

func (h *ManufacturerOrderHandler) UpdateStatus(c *fiber.Ctx) error {
	mfgOrderID := c.Params("id")
	if mfgOrderID == "" {
		slog.ErrorContext(c.Context(), "[manufacturerOrderHandler] UpdateStatus", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	var req domain.ManufacturerOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[manufacturerOrderHandler] UpdateStatus", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[manufacturerOrderHandler] UpdateStatus", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	order, err := h.manufacturerUsecase.UpdateStatus(c.Context(), mfgOrderID, req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[manufacturerOrderHandler] UpdateStatus", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(order))
}

func (h *ManufacturerOrderHandler) Delete(c *fiber.Ctx) error {
	mfgOrderID := c.Params("id")
	if mfgOrderID == "" {
		slog.ErrorContext(c.Context(), "[manufacturerOrderHandler] Delete", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.manufacturerUsecase.Delete(c.Context(), mfgOrderID); err != nil {
		slog.ErrorContext(c.Context(), "[manufacturerOrderHandler] Delete", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(nil))
}
