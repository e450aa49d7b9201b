package handler

import (
	"storefront-service/app/middleware"
	"storefront-service/config"

	"github.com/gofiber/fiber/v2"
)

func SetupRouter(app *fiber.App,
	productHandler *ProductHandler,
	categoryHandler *CategoryHandler,
	requisitionHandler *RequisitionHandler,
	orderHandler *OrderHandler,
	manufacturerHandler *ManufacturerOrderHandler,
	cfg *config.Config) {

	api := app.Group("/storefront-service")

	auth := middleware.Auth(cfg.Jwt.SecretKey)
	admin := middleware.AuthAdmin(cfg.Jwt.SecretKey)

	// Public catalog
	api.Get("/products", productHandler.GetList)
	api.Get("/products/:id", productHandler.GetByID)
	api.Get("/categories", categoryHandler.GetList)

	// Checkout requires a signed-in user
	api.Post("/orders", auth, orderHandler.Create)
	api.Get("/orders", auth, orderHandler.GetList)
	api.Get("/orders/:id", auth, orderHandler.GetDetail)

	// Admin back-office
	api.Post("/products", admin, productHandler.Create)
	api.Put("/products/:id", admin, productHandler.Update)
	api.Delete("/products/:id", admin, productHandler.Delete)

	api.Post("/categories", admin, categoryHandler.Create)
	api.Delete("/categories/:id", admin, categoryHandler.Delete)

	api.Post("/requisitions", admin, requisitionHandler.Create)
	api.Get("/requisitions", admin, requisitionHandler.GetList)
	api.Get("/requisitions/:id", admin, requisitionHandler.GetDetail)
	api.Put("/requisitions/:id/allocate", admin, requisitionHandler.Allocate)
	api.Put("/requisitions/:id/update-counts", admin, requisitionHandler.UpdateCounts)
	api.Put("/requisitions/:id/close", admin, requisitionHandler.Close)
	api.Put("/requisitions/:id/cancel", admin, requisitionHandler.Cancel)

	api.Put("/orders/:id/delivery-status", admin, orderHandler.UpdateDeliveryStatus)
	api.Get("/delivery-logs", admin, orderHandler.GetDeliveryLogs)

	api.Post("/manufacturer-orders", admin, manufacturerHandler.Create)
	api.Get("/manufacturer-orders", admin, manufacturerHandler.GetList)
	api.Put("/manufacturer-orders/:id/status", admin, manufacturerHandler.UpdateStatus)
	api.Delete("/manufacturer-orders/:id", admin, manufacturerHandler.Delete)

	// Manufacturer systems push receipt notifications here.
	internal := app.Group("/internal/storefront-service").Use(middleware.AuthInternal(cfg))
	internal.Put("/manufacturer-orders/:id/status", manufacturerHandler.UpdateStatus)
}
