package handler

import (
	"log/slog"

	"storefront-service/app/domain"
	"storefront-service/app/handler/api/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	orderUsecase domain.OrderUsecase
	validator    *validator.Validate
}

func NewOrderHandler(orderUsecase domain.OrderUsecase, validator *validator.Validate) *OrderHandler {
	return &OrderHandler{
		orderUsecase: orderUsecase,
		validator:    validator,
	}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req domain.OrderCreateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[orderHandler] Create", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[orderHandler] Create", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	order, err := h.orderUsecase.Create(c.Context(), req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[orderHandler] Create", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusCreated).JSON(response.Success(order))
}

func (h *OrderHandler) GetList(c *fiber.Ctx) error {
	orders, err := h.orderUsecase.GetList(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "[orderHandler] GetList", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(orders))
}

func (h *OrderHandler) GetDetail(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if orderID == "" {
		slog.ErrorContext(c.Context(), "[orderHandler] GetDetail", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	detail, err := h.orderUsecase.GetDetail(c.Context(), orderID)
	if err != nil {
		slog.ErrorContext(c.Context(), "[orderHandler] GetDetail", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(detail))
}

func (h *OrderHandler) UpdateDeliveryStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if orderID == "" {
		slog.ErrorContext(c.Context(), "[orderHandler] UpdateDeliveryStatus", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	var req domain.DeliveryStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[orderHandler] UpdateDeliveryStatus", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[orderHandler] UpdateDeliveryStatus", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	order, err := h.orderUsecase.UpdateDeliveryStatus(c.Context(), orderID, req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[orderHandler] UpdateDeliveryStatus", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(order))
}

func (h *OrderHandler) GetDeliveryLogs(c *fiber.Ctx) error {
	logs, err := h.orderUsecase.GetDeliveryLogs(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "[orderHandler] GetDeliveryLogs", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(logs))
}
