package handler

import (
	"log/slog"

	"storefront-service/app/domain"
	"storefront-service/app/handler/api/response"
	"storefront-service/pkg/ctxutil"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type RequisitionHandler struct {
	requisitionUsecase domain.RequisitionUsecase
	validator          *validator.Validate
}

func NewRequisitionHandler(requisitionUsecase domain.RequisitionUsecase, validator *validator.Validate) *RequisitionHandler {
	return &RequisitionHandler{
		requisitionUsecase: requisitionUsecase,
		validator:          validator,
	}
}

func (h *RequisitionHandler) Create(c *fiber.Ctx) error {
	var req domain.RequisitionCreateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[requisitionHandler] Create", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[requisitionHandler] Create", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	if req.RequestedBy == "" {
		req.RequestedBy = ctxutil.GetUserName(c.Context())
	}

	requisition, err := h.requisitionUsecase.Create(c.Context(), req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[requisitionHandler] Create", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusCreated).JSON(response.Success(requisition))
}

func (h *RequisitionHandler) GetList(c *fiber.Ctx) error {
	requisitions, err := h.requisitionUsecase.GetList(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "[requisitionHandler] GetList", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(requisitions))
}

func (h *RequisitionHandler) GetDetail(c *fiber.Ctx) error {
	requisitionID := c.Params("id")
	if requisitionID == "" {
		slog.ErrorContext(c.Context(), "[requisitionHandler] GetDetail", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	detail, err := h.requisitionUsecase.GetDetail(c.Context(), requisitionID)
	if err != nil {
		slog.ErrorContext(c.Context(), "[requisitionHandler] GetDetail", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(detail))
}

func (h *RequisitionHandler) Allocate(c *fiber.Ctx) error {
	requisitionID := c.Params("id")
	if requisitionID == "" {
		slog.ErrorContext(c.Context(), "[requisitionHandler] Allocate", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	requisition, err := h.requisitionUsecase.Allocate(c.Context(), requisitionID)
	if err != nil {
		slog.ErrorContext(c.Context(), "[requisitionHandler] Allocate", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(requisition))
}

func (h *RequisitionHandler) UpdateCounts(c *fiber.Ctx) error {
	requisitionID := c.Params("id")
	if requisitionID == "" {
		slog.ErrorContext(c.Context(), "[requisitionHandler] UpdateCounts", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	var req domain.UpdateCountsRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[requisitionHandler] UpdateCounts", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[requisitionHandler] UpdateCounts", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	requisition, err := h.requisitionUsecase.UpdateCounts(c.Context(), requisitionID, req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[requisitionHandler] UpdateCounts", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(requisition))
}

func (h *RequisitionHandler) Close(c *fiber.Ctx) error {
	requisitionID := c.Params("id")
	if requisitionID == "" {
		slog.ErrorContext(c.Context(), "[requisitionHandler] Close", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	requisition, err := h.requisitionUsecase.Close(c.Context(), requisitionID)
	if err != nil {
		slog.ErrorContext(c.Context(), "[requisitionHandler] Close", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(requisition))
}

func (h *RequisitionHandler) Cancel(c *fiber.Ctx) error {
	requisitionID := c.Params("id")
	if requisitionID == "" {
		slog.ErrorContext(c.Context(), "[requisitionHandler] Cancel", "id", "missing")
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	requisition, err := h.requisitionUsecase.Cancel(c.Context(), requisitionID)
	if err != nil {
		slog.ErrorContext(c.Context(), "[requisitionHandler] Cancel", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(requisition))
}
