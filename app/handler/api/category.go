package handler

import (
	"log/slog"

	"storefront-service/app/domain"
	"storefront-service/app/handler/api/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	categoryUsecase domain.CategoryUsecase
	validator       *validator.Validate
}

func NewCategoryHandler(categoryUsecase domain.CategoryUsecase, validator *validator.Validate) *CategoryHandler {
	return &CategoryHandler{
		categoryUsecase: categoryUsecase,
		validator:       validator,
	}
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req domain.CategoryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		slog.ErrorContext(c.Context(), "[categoryHandler] Create", "bodyParser", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.validator.Struct(req); err != nil {
		slog.ErrorContext(c.Context(), "[categoryHandler] Create", "validation", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrValidation))
	}

	category, err := h.categoryUsecase.Create(c.Context(), req)
	if err != nil {
		slog.ErrorContext(c.Context(), "[categoryHandler] Create", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusCreated).JSON(response.Success(category))
}

func (h *CategoryHandler) GetList(c *fiber.Ctx) error {
	categories, err := h.categoryUsecase.GetList(c.Context())
	if err != nil {
		slog.ErrorContext(c.Context(), "[categoryHandler] GetList", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(categories))
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		slog.ErrorContext(c.Context(), "[categoryHandler] Delete", "parseID", err)
		return c.Status(fiber.StatusBadRequest).JSON(response.Error(domain.ErrBadRequest))
	}

	if err := h.categoryUsecase.Delete(c.Context(), id); err != nil {
		slog.ErrorContext(c.Context(), "[categoryHandler] Delete", "usecase", err)
		status, resp := response.FromError(err)
		return c.Status(status).JSON(resp)
	}

	return c.Status(fiber.StatusOK).JSON(response.Success(nil))
}
