package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"tecawayBack/internal/cache"
	"tecawayBack/internal/config"
	"tecawayBack/internal/geo"
	"tecawayBack/internal/handlers"
	"tecawayBack/internal/metrics"
	"tecawayBack/internal/repositories"
	"tecawayBack/internal/search"
	"tecawayBack/internal/services"
	"tecawayBack/internal/storage"
	"tecawayBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	tokens   *utils.Manager

	searchService *services.SearchService

	userHandler      *handlers.UserHandler
	sectionHandler   *handlers.SectionHandler
	knowledgeHandler *handlers.KnowledgeHandler
	locationHandler  *handlers.LocationHandler
	consentHandler   *handlers.ConsentHandler
	searchHandler    *handlers.SearchHandler
}

func initializeApp(cfg config.Config, db *sql.DB, rdb *redis.Client, errorLog, infoLog *log.Logger) (*application, error) {
	logger := &stdLogger{info: infoLog, err: errorLog}

	// Repositories
	userRepo := &repositories.UserRepository{DB: db}
	sectionRepo := &repositories.SectionRepository{DB: db}
	knowledgeRepo := &repositories.KnowledgeRepository{DB: db}
	membershipRepo := &repositories.UserKnowledgeRepository{DB: db}
	locationRepo := &repositories.LocationRepository{DB: db}
	consentRepo := &repositories.ConsentRepository{DB: db}

	// Caches
	catalogCache := cache.NewCatalogCache(rdb, cfg.CatalogTTL())
	locationCache := geo.NewLocationCache(rdb)

	tokens, err := utils.NewManager(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}

	// Services
	sectionService := &services.SectionService{Repo: sectionRepo, Cache: catalogCache, Logger: logger}
	knowledgeService := &services.KnowledgeService{
		Repo:        knowledgeRepo,
		Memberships: membershipRepo,
		Cache:       catalogCache,
		Logger:      logger,
	}
	locationService := &services.LocationService{Repo: locationRepo, Cache: locationCache, Logger: logger}
	consentService := &services.ConsentService{Repo: consentRepo}

	userService := &services.UserService{
		UserRepo:   userRepo,
		Tokens:     tokens,
		Geocoder:   geo.NewGeocoder(&http.Client{Timeout: 5 * time.Second}, cfg.Geocoder.URL, cfg.Geocoder.Language),
		Locations:  locationCache,
		Logger:     logger,
		AccessTTL:  cfg.AccessTokenTTL(),
		RefreshTTL: cfg.RefreshTokenTTL(),
	}
	if cfg.PhotosEnabled() {
		photos, err := storage.NewS3Storage(storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("photo storage: %w", err)
		}
		userService.Photos = photos
	} else {
		infoLog.Println("S3 bucket not configured, photo uploads disabled")
	}

	sessions := search.NewSessions()
	sessions.OnChange(func(count int) { metrics.SearchSessions.Set(float64(count)) })

	searchService := &services.SearchService{
		Sessions:    sessions,
		Technicians: userService,
		Sections:    sectionService,
		Knowledges:  knowledgeService,
		Memberships: knowledgeService,
		Locations:   locationService,
		Logger:      logger,
	}

	return &application{
		errorLog: errorLog,
		infoLog:  infoLog,
		tokens:   tokens,

		searchService: searchService,

		userHandler:      &handlers.UserHandler{Service: userService, Knowledges: knowledgeService},
		sectionHandler:   &handlers.SectionHandler{Service: sectionService},
		knowledgeHandler: &handlers.KnowledgeHandler{Service: knowledgeService},
		locationHandler:  &handlers.LocationHandler{Service: locationService},
		consentHandler:   &handlers.ConsentHandler{Service: consentService},
		searchHandler:    &handlers.SearchHandler{Service: searchService},
	}, nil
}

// openDB connects to MySQL. parseTime is forced for DATETIME scanning and
// clientFoundRows so that updates writing identical values still report a match.
func openDB(dsn string) (*sql.DB, error) {
	mcfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	mcfg.ParseTime = true
	mcfg.ClientFoundRows = true

	db, err := sql.Open("mysql", mcfg.FormatDSN())
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}
