package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/images"
	"catalog/internal/imaging"
	"catalog/internal/repositories"
	"catalog/internal/router"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	app, cleanup, err := NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	defer cleanup()

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %d (store: %s)", cfg.Port, cfg.StoreDriver)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.Addr()); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// NewApp builds every collaborator from cfg and returns the routed Fiber app.
// The returned cleanup releases broker connections and must be called on exit.
func NewApp(ctx context.Context, cfg *config.Config) (*fiber.App, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var awsCfg *aws.Config
	loadAWS := func() (aws.Config, error) {
		if awsCfg != nil {
			return *awsCfg, nil
		}
		c, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		awsCfg = &c
		return c, nil
	}

	// --- Record store ---
	var productRepo repositories.ProductRepository
	switch cfg.StoreDriver {
	case config.DriverDynamoDB:
		c, err := loadAWS()
		if err != nil {
			return nil, cleanup, err
		}
		productRepo = repositories.NewDynamoDBProductRepository(dynamodb.NewFromConfig(c), cfg.TableName)
	case config.DriverPostgres, config.DriverSQLite:
		repo, err := openGORMRepository(ctx, cfg)
		if err != nil {
			return nil, cleanup, err
		}
		productRepo = repo
	default:
		log.Println("Using in-memory product store; records are lost on restart.")
		productRepo = repositories.NewMockProductRepository()
	}

	var opts []services.Option

	// --- Blob store ---
	if cfg.ImagesEnabled() {
		c, err := loadAWS()
		if err != nil {
			return nil, cleanup, err
		}
		opts = append(opts, services.WithImageStore(images.NewS3ImageStore(s3.NewFromConfig(c), cfg.BucketName, cfg.Region)))
		if cfg.ImageMaxDimension > 0 {
			opts = append(opts, services.WithNormalizer(imaging.NewNormalizer(cfg.ImageMaxDimension)))
		}
	}

	// --- Event publisher ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		closers = append(closers, func() {
			if err := mqClient.Close(); err != nil {
				log.Printf("Error closing RabbitMQ client: %v", err)
			}
		})
		opts = append(opts, services.WithPublisher(mqClient))
	}

	productService := services.NewProductService(productRepo, opts...)
	log.Printf("Product service ready (images: %t, publisher: %t)", productService.ImagesEnabled(), cfg.RabbitMQURL != "")
	productHandler := handlers.NewProductHandler(productService)

	app := router.New(productHandler, router.Options{BodyLimit: cfg.BodyLimit})
	return app, cleanup, nil
}

func openGORMRepository(ctx context.Context, cfg *config.Config) (*repositories.GORMProductRepository, error) {
	var dialector gorm.Dialector
	if cfg.StoreDriver == config.DriverPostgres {
		dialector = postgres.Open(cfg.DatabaseDSN)
	} else {
		dialector = sqlite.Open(cfg.DatabaseDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{PrepareStmt: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	repo := repositories.NewGORMProductRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}
