package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/amelikova/stage-portfolio/api"
	"github.com/amelikova/stage-portfolio/config"
	"github.com/amelikova/stage-portfolio/database"
	"github.com/amelikova/stage-portfolio/models"
	"github.com/amelikova/stage-portfolio/seed"
	"github.com/amelikova/stage-portfolio/storage"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	ctx := context.Background()
	c := config.New()

	// Parameters stored in SSM fill whatever the environment leaves unset
	if prefix := config.GetString(c, "SSM_PARAMETER_PATH", ""); prefix != "" {
		client, err := config.NewSSMClient(ctx, config.GetString(c, "AWS_REGION", "us-east-1"))
		if err != nil {
			fmt.Printf("Error creating SSM client: %v\n", err)
			os.Exit(1)
		}
		n, err := config.LoadSSMParameters(ctx, c, client, prefix)
		if err != nil {
			fmt.Printf("Error loading SSM parameters: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Loaded %d parameters from SSM path %s\n", n, prefix)
	}

	// Admin tokens need only the secret, not the database
	if config.GetBool(c, "MINT_ADMIN_TOKEN", false) {
		token, err := api.NewAdminToken(
			config.GetString(c, "ADMIN_JWT_SECRET", ""),
			config.GetString(c, "ADMIN_TOKEN_SUBJECT", "owner"),
			config.GetDuration(c, "ADMIN_TOKEN_TTL", 30*24*time.Hour),
		)
		if err != nil {
			fmt.Printf("Error minting admin token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	fmt.Println("Connecting to database...")
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connectionString(c),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}

	// gen_random_uuid() is built in from PostgreSQL 13; pgcrypto covers older servers
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"pgcrypto\"").Error; err != nil {
		fmt.Printf("Error enabling pgcrypto extension: %v\n", err)
		os.Exit(1)
	}

	currentDB := database.New(db)
	if err := currentDB.Ping(ctx); err != nil {
		fmt.Printf("Error testing database connection: %v\n", err)
		os.Exit(1)
	}

	if err := models.Migrate(db); err != nil {
		fmt.Printf("Error migrating database: %v\n", err)
		os.Exit(1)
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		fmt.Println("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			fmt.Printf("Error generating models: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		fmt.Println("Generating column mismatch report...")
		models.GenerateColumnMismatchReport(db)
		return
	}

	if config.GetBool(c, "SEED_PROJECTS", false) {
		projects, err := seed.Projects()
		if err != nil {
			fmt.Printf("Error reading seed projects: %v\n", err)
			os.Exit(1)
		}
		n, err := seed.Apply(ctx, currentDB.ProjectRepo(), projects)
		if err != nil {
			fmt.Printf("Error seeding projects: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Seeded %d projects\n", n)
	}

	store, err := storage.New(ctx, c)
	if err != nil {
		fmt.Printf("Error initializing image storage: %v\n", err)
		os.Exit(1)
	}

	// One slot per sender so neither blocks once main stops reading
	errChannel := make(chan error, 2)

	server, err := api.NewServer(currentDB, store, c)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// connectionString prefers DATABASE_URL and falls back to discrete DB_* settings.
func connectionString(c map[string]string) string {
	if url := config.GetString(c, "DATABASE_URL", ""); url != "" {
		return url
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		config.GetString(c, "DB_HOST", "localhost"),
		config.GetString(c, "DB_USER", "postgres"),
		config.GetString(c, "DB_PASSWORD", ""),
		config.GetString(c, "DB_NAME", "portfolio"),
		config.GetString(c, "DB_PORT", "5432"),
		config.GetString(c, "DB_SSLMODE", "require"),
	)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
