package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"lovelog/internal/managers"
	"lovelog/internal/routing"
)

const envFile = ".env"

func Init() {
	err := godotenv.Load(envFile)
	if err != nil {
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	logLevel := os.Getenv("LOG_LEVEL")
	setLogLevel(logLevel)

	// Connect to database
	pool := initializeDatabase()
	defer pool.Close()

	runMigrations(pool)

	// Initialize database manager
	databaseMgr := managers.NewDatabaseManager(pool)

	// Initialize mail manager
	mailMgr := managers.NewMailManager()

	// Initialize JWT manager
	jwtMgr, err := managers.NewJWTManagerFromFile()
	if err != nil {
		log.Fatal("Error initializing JWT manager: ", err)
	}

	// Initialize storage manager
	storageMgr, err := managers.NewStorageManager()
	if err != nil {
		log.Fatal("Error initializing storage manager: ", err)
	}

	// Initialize router
	r := routing.InitRouter(databaseMgr, mailMgr, jwtMgr, storageMgr)
	log.Info("Initialized router")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Handle interrupt signal gracefully: stop accepting new requests and
	// give in-flight ones ten seconds to finish before the pool closes
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		<-c
		log.Info("Server shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during shutdown: ", err)
		}
	}()

	// Start server on the specified port
	log.Infof("Starting server on port %s...", port)
	if err = srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Error starting server: ", err)
	}

	log.Info("Server stopped")
}

func initializeDatabase() *pgxpool.Pool {
	log.Info("Initializing database")

	var (
		dbHost     = os.Getenv("DB_HOST")
		dbPort     = os.Getenv("DB_PORT")
		dbUser     = os.Getenv("DB_USER")
		dbPassword = os.Getenv("DB_PASS")
		dbName     = os.Getenv("DB_NAME")
	)

	if dbHost == "" || dbPort == "" || dbUser == "" || dbPassword == "" || dbName == "" {
		log.Fatal("database environment variables not set")
	}

	url := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort, dbUser, dbPassword, dbName)
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Fatal("error configuring database: ", err)
	}

	config.MinConns = 5
	config.MaxConns = 30
	config.MaxConnIdleTime = time.Minute * 2
	config.HealthCheckPeriod = time.Minute * 1

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		log.Fatal("error connecting to database: ", err)
	}
	log.Info("Connected to database")
	return pool
}

// migrationStatements is the idempotent schema setup run on every boot.
var migrationStatements = []string{
	`CREATE SCHEMA IF NOT EXISTS lovelog_schema`,
	`CREATE TABLE IF NOT EXISTS lovelog_schema.users (
		user_id UUID PRIMARY KEY,
		username VARCHAR(20) NOT NULL UNIQUE,
		nickname VARCHAR(25) NOT NULL DEFAULT '',
		email VARCHAR(128) NOT NULL UNIQUE,
		password BYTEA NOT NULL,
		status VARCHAR(256) NOT NULL DEFAULT '',
		profile_picture_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS lovelog_schema.diaries (
		diary_id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES lovelog_schema.users (user_id) ON DELETE CASCADE,
		title VARCHAR(100) NOT NULL,
		content TEXT NOT NULL,
		mood VARCHAR(20) NOT NULL DEFAULT '',
		category VARCHAR(20) NOT NULL,
		tags TEXT[] NOT NULL DEFAULT '{}',
		entry_date DATE NOT NULL,
		is_public BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS lovelog_schema.albums (
		album_id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES lovelog_schema.users (user_id) ON DELETE CASCADE,
		name VARCHAR(50) NOT NULL,
		description VARCHAR(200) NOT NULL DEFAULT '',
		cover_photo TEXT NOT NULL DEFAULT '',
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS lovelog_schema.photos (
		photo_id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES lovelog_schema.users (user_id) ON DELETE CASCADE,
		album_id UUID NOT NULL REFERENCES lovelog_schema.albums (album_id),
		filename TEXT NOT NULL,
		original_name TEXT NOT NULL,
		path TEXT NOT NULL,
		url TEXT NOT NULL,
		size BIGINT NOT NULL,
		mime_type VARCHAR(64) NOT NULL,
		description VARCHAR(500) NOT NULL DEFAULT '',
		tags TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS lovelog_schema.diary_photos (
		diary_id UUID NOT NULL REFERENCES lovelog_schema.diaries (diary_id) ON DELETE CASCADE,
		photo_id UUID NOT NULL REFERENCES lovelog_schema.photos (photo_id) ON DELETE CASCADE,
		attached_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (diary_id, photo_id)
	)`,
	`CREATE TABLE IF NOT EXISTS lovelog_schema.countdowns (
		countdown_id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES lovelog_schema.users (user_id) ON DELETE CASCADE,
		title VARCHAR(50) NOT NULL,
		description VARCHAR(200) NOT NULL DEFAULT '',
		target_date DATE NOT NULL,
		type VARCHAR(20) NOT NULL,
		direction VARCHAR(10) NOT NULL,
		is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
		recurring_type VARCHAR(10) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS diaries_user_entry_date_idx ON lovelog_schema.diaries (user_id, entry_date DESC)`,
	`CREATE INDEX IF NOT EXISTS photos_user_idx ON lovelog_schema.photos (user_id)`,
	`CREATE INDEX IF NOT EXISTS photos_album_idx ON lovelog_schema.photos (album_id)`,
	`CREATE INDEX IF NOT EXISTS countdowns_user_idx ON lovelog_schema.countdowns (user_id)`,
}

func runMigrations(pool *pgxpool.Pool) {
	log.Info("Running migrations")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, statement := range migrationStatements {
		if _, err := pool.Exec(ctx, statement); err != nil {
			log.Fatal("error running migrations: ", err)
		}
	}

	log.Info("Migrations complete")
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	log.SetReportCaller(true)

	log.SetOutput(os.Stdout)
}
