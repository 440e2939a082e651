package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log"
	"mime"
	"net/url"
	"strings"

	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/form", h.HandleForm)

	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Get("/:id/view", h.HandleViewProduct)
}

// HandleCreateProduct creates a product from a JSON or form body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	payload, err := parsePayload(c)
	if err != nil {
		return writeError(c, err)
	}

	product, err := h.service.CreateProduct(c.UserContext(), payload)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return writeError(c, err)
	}

	resp := fiber.Map{
		"message":    "Product created successfully",
		"product_id": product.ProductID,
	}
	if product.ImageURL != "" {
		resp["image_url"] = product.ImageURL
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// HandleGetProducts lists every product ordered by creation time.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext())
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return writeError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProduct(c.UserContext(), productID)
	if err != nil {
		if !errors.Is(err, repositories.ErrProductNotFound) {
			log.Printf("Error getting product by ID %s: %v", productID, err)
		}
		return writeError(c, err)
	}
	return c.JSON(product)
}

// HandleViewProduct renders a single product as HTML.
func (h *ProductHandler) HandleViewProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	c.Type("html", "utf-8")

	product, err := h.service.GetProduct(c.UserContext(), productID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("<h1>Product not found</h1>")
		}
		log.Printf("Error getting product by ID %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).
			SendString(fmt.Sprintf("<h1>Error: %s</h1>", template.HTMLEscapeString(err.Error())))
	}

	var buf bytes.Buffer
	if err := viewTemplate.Execute(&buf, product); err != nil {
		log.Printf("Error rendering product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).
			SendString(fmt.Sprintf("<h1>Error: %s</h1>", template.HTMLEscapeString(err.Error())))
	}
	return c.Send(buf.Bytes())
}

// HandleForm serves the static product creation form.
func (h *ProductHandler) HandleForm(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return c.Send(formPage)
}

// parsePayload picks the payload variant from the Content-Type header.
// JSON bodies become a StructuredPayload; everything else is read as a form.
func parsePayload(c *fiber.Ctx) (services.Payload, error) {
	mediaType, _, err := mime.ParseMediaType(c.Get(fiber.HeaderContentType))
	if err != nil {
		mediaType = ""
	}

	switch {
	case mediaType == fiber.MIMEApplicationJSON ||
		(strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json")):
		return services.ParseStructuredPayload(c.Body())
	case mediaType == fiber.MIMEMultipartForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, &services.PayloadError{Err: err}
		}
		return services.NewMultipartPayload(form), nil
	case mediaType == fiber.MIMEApplicationForm:
		values, err := url.ParseQuery(string(c.Body()))
		if err != nil {
			return nil, &services.PayloadError{Err: err}
		}
		return services.NewFormPayload(values, nil), nil
	default:
		return services.NewFormPayload(nil, nil), nil
	}
}

// writeError maps a failure to its status code and an {"error": msg} body.
func writeError(c *fiber.Ctx, err error) error {
	var validationErr *services.ValidationError

	status := fiber.StatusInternalServerError
	message := err.Error()
	switch {
	case errors.As(err, &validationErr):
		status = fiber.StatusBadRequest
		message = validationErr.Error()
	case errors.Is(err, repositories.ErrProductNotFound):
		status = fiber.StatusNotFound
		message = "Product not found"
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
