package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"catalog/internal/images"
	"catalog/internal/imaging"
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request field names.
const (
	FieldProductName       = "product_name"
	FieldPrice             = "price"
	FieldBrandName         = "brand_name"
	FieldQuantityAvailable = "quantity_available"
	ImageField             = "image"
)

// RequiredFields are checked in this order; the first missing one is reported.
var RequiredFields = []string{FieldProductName, FieldPrice, FieldBrandName, FieldQuantityAvailable}

// TimestampLayout is fixed width so that string order matches time order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// ImageKeyPrefix is prepended to every stored image key.
const ImageKeyPrefix = "products/"

// EventPublisher announces newly created products.
type EventPublisher interface {
	PublishProductCreated(event map[string]interface{}) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	images     images.ImageStore
	normalizer *imaging.Normalizer
	publisher  EventPublisher
	validate   *validator.Validate
	now        func() time.Time
	newID      func() string
}

// Option configures optional ProductService collaborators.
type Option func(*ProductService)

// WithImageStore enables image uploads. Without it attached images are ignored.
func WithImageStore(store images.ImageStore) Option {
	return func(s *ProductService) { s.images = store }
}

// WithNormalizer resizes images before upload.
func WithNormalizer(n *imaging.Normalizer) Option {
	return func(s *ProductService) { s.normalizer = n }
}

// WithPublisher enables product.created events.
func WithPublisher(p EventPublisher) Option {
	return func(s *ProductService) { s.publisher = p }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *ProductService) { s.now = now }
}

// WithIDGenerator overrides the UUIDv4 generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *ProductService) { s.newID = newID }
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, opts ...Option) *ProductService {
	s := &ProductService{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImagesEnabled reports whether a blob store is configured.
func (s *ProductService) ImagesEnabled() bool {
	return s.images != nil
}

// productInput is a payload whose required fields have been checked and coerced.
type productInput struct {
	name     string
	price    models.Price
	brand    string
	quantity int
}

// CreateProduct validates the payload, uploads the image if there is one and
// writes the record. The upload happens before the write, so a failed upload
// leaves no record behind.
func (s *ProductService) CreateProduct(ctx context.Context, payload Payload) (*models.Product, error) {
	input, err := parseInput(payload)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ProductID:         s.newID(),
		ProductName:       input.name,
		Price:             input.price,
		BrandName:         input.brand,
		QuantityAvailable: input.quantity,
		CreatedAt:         s.now().UTC().Format(TimestampLayout),
	}

	if img := payload.Image(); img != nil && img.Filename != "" && s.images != nil {
		key, url, err := s.uploadImage(ctx, product.ProductID, img)
		if err != nil {
			return nil, err
		}
		product.ImageKey = key
		product.ImageURL = url
	}

	if err := s.validate.Struct(product); err != nil {
		return nil, fmt.Errorf("invalid product record: %w", err)
	}

	if err := s.repo.Put(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product %s: %w", product.ProductID, err)
	}

	s.publishCreated(product)
	return product, nil
}

// ListProducts returns every product ordered by created_at ascending.
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}

	slices.SortStableFunc(products, func(a, b models.Product) int {
		return strings.Compare(a.CreatedAt, b.CreatedAt)
	})
	return products, nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func parseInput(payload Payload) (*productInput, error) {
	if payload == nil {
		return nil, &PayloadError{Err: errors.New("empty payload")}
	}

	values := make(map[string]string, len(RequiredFields))
	for _, field := range RequiredFields {
		v, ok := payload.Lookup(field)
		if !ok {
			return nil, missingField(field)
		}
		values[field] = v
	}

	price, err := models.ParsePrice(values[FieldPrice])
	if err != nil {
		return nil, invalidField(FieldPrice, values[FieldPrice])
	}
	quantity, err := parseQuantity(values[FieldQuantityAvailable])
	if err != nil {
		return nil, invalidField(FieldQuantityAvailable, values[FieldQuantityAvailable])
	}

	return &productInput{
		name:     values[FieldProductName],
		price:    price,
		brand:    values[FieldBrandName],
		quantity: quantity,
	}, nil
}

// Decimal quantity literals must have an exponent within this window.
const (
	minQuantityExponent = -18
	maxQuantityExponent = 10
	maxQuantity         = 1<<31 - 1
)

// parseQuantity accepts integers and integral decimals such as "5.0".
func parseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil {
		d, derr := decimal.NewFromString(raw)
		if derr != nil {
			return 0, fmt.Errorf("not an integer: %q", raw)
		}
		if exp := d.Exponent(); exp < minQuantityExponent || exp > maxQuantityExponent {
			return 0, fmt.Errorf("quantity out of range: %q", raw)
		}
		if !d.IsInteger() || !d.Abs().LessThanOrEqual(decimal.NewFromInt(maxQuantity)) {
			return 0, fmt.Errorf("not an integer: %q", raw)
		}
		n = int(d.IntPart())
	}
	if n > maxQuantity {
		return 0, fmt.Errorf("quantity out of range: %d", n)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative quantity: %d", n)
	}
	return n, nil
}

func (s *ProductService) uploadImage(ctx context.Context, productID string, img *ImageFile) (string, string, error) {
	key := ImageKeyPrefix + productID + fileExtension(img.Filename)

	rc, err := img.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open image %s: %w", img.Filename, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", "", fmt.Errorf("failed to read image %s: %w", img.Filename, err)
	}

	contentType := img.ContentType
	if s.normalizer != nil {
		res, err := s.normalizer.Normalize(data, contentType)
		if err != nil {
			return "", "", fmt.Errorf("failed to process image %s: %w", img.Filename, err)
		}
		data, contentType = res.Data, res.ContentType
	}

	if err := s.images.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return "", "", err
	}
	return key, s.images.URL(key), nil
}

// fileExtension returns the extension of the base name, including the dot.
// Leading dots do not start an extension, so ".profile" has none.
func fileExtension(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	trimmed := strings.TrimLeft(base, ".")
	if trimmed == "" {
		return ""
	}
	return filepath.Ext(trimmed)
}

func (s *ProductService) publishCreated(product *models.Product) {
	if s.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"product_id":   product.ProductID,
		"product_name": product.ProductName,
		"price":        product.Price,
		"created_at":   product.CreatedAt,
	}
	if err := s.publisher.PublishProductCreated(event); err != nil {
		log.Printf("Warning: Failed to publish product created event for product %s: %v", product.ProductID, err)
		return
	}
	log.Printf("Successfully published product created event for product %s", product.ProductID)
}
