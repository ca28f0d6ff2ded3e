package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	_ "github.com/jackc/pgx/v5/stdlib"

	"ngo-site/internal/auth"
	"ngo-site/internal/handlers"
	"ngo-site/internal/middleware"
	"ngo-site/internal/repository"
	"ngo-site/internal/storage"
	ws "ngo-site/internal/websocket"
)

// Config holds everything read from config.env / the environment.
type Config struct {
	DSN                string `mapstructure:"DSN"`
	Port               string `mapstructure:"PORT"`
	AdminEmail         string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword      string `mapstructure:"ADMIN_PASSWORD"`
	AdminJWTSecret     string `mapstructure:"ADMIN_JWT_SECRET"`
	AdminAPIKey        string `mapstructure:"ADMIN_API_KEY"`
	GCSBucket          string `mapstructure:"GCS_BUCKET"`
	GCSCredentialsFile string `mapstructure:"GCS_CREDENTIALS_FILE"`
	GCSFolder          string `mapstructure:"GCS_FOLDER"`
	UploadDir          string `mapstructure:"UPLOAD_DIR"`
}

// loadConfig reads config.env from the working directory; a missing file is
// fine for env-only deployments. Defaults keep viper aware of every key so
// AutomaticEnv picks them up.
func loadConfig() (config Config, err error) {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("DSN", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("ADMIN_PASSWORD", "")
	viper.SetDefault("ADMIN_JWT_SECRET", "")
	viper.SetDefault("ADMIN_API_KEY", "")
	viper.SetDefault("GCS_BUCKET", "")
	viper.SetDefault("GCS_CREDENTIALS_FILE", "")
	viper.SetDefault("GCS_FOLDER", "ngo-gallery")
	viper.SetDefault("UPLOAD_DIR", "public/uploads")

	if err = viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}

func main() {
	log.Println("Starting NGO site server...")

	config, err := loadConfig()
	if err != nil {
		log.Fatal("cannot load config:", err)
	}
	if config.AdminEmail == "" || config.AdminPassword == "" || config.AdminJWTSecret == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD and ADMIN_JWT_SECRET must be configured")
	}

	// The database is optional: without a DSN the public pages render with
	// empty collections and admin writes answer 503.
	var db *sqlx.DB
	if config.DSN == "" {
		log.Println("DSN not set, running without persistence")
	} else if db, err = sqlx.Connect("pgx", config.DSN); err != nil {
		log.Println("cannot connect to database, continuing without persistence:", err)
		db = nil
	} else {
		defer db.Close()
		log.Println("Connected to PostgreSQL")
	}

	authService, err := auth.NewService(config.AdminEmail, config.AdminPassword, config.AdminJWTSecret)
	if err != nil {
		log.Fatal("cannot initialize admin auth:", err)
	}

	// Cloud storage when a bucket is configured, local disk otherwise.
	var store storage.MediaStore
	if config.GCSBucket != "" {
		gcsStore, err := storage.NewGCSStore(context.Background(),
			config.GCSBucket, config.GCSFolder, config.GCSCredentialsFile)
		if err != nil {
			log.Fatal("cannot initialize GCS storage:", err)
		}
		defer gcsStore.Close()
		store = gcsStore
		log.Println("Using GCS media storage, bucket:", config.GCSBucket)
	} else {
		store = storage.NewLocalStore(config.UploadDir)
		log.Println("Using local media storage in", config.UploadDir)
	}

	hub := ws.NewHub()
	go hub.Run()

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", middleware.AdminKeyHeader)
	r.Use(cors.New(corsConfig))
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if local, ok := store.(*storage.LocalStore); ok {
		r.Static("/uploads", local.Dir())
	}

	authHandler := handlers.NewAuthHandler(authService)
	galleryHandler := handlers.NewGalleryHandler(repository.NewGalleryRepo(db), store, hub)
	donorHandler := handlers.NewDonorHandler(repository.NewDonorRepo(db), store, hub)
	memberHandler := handlers.NewMemberHandler(repository.NewMemberRepo(db), store, hub)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.GET("/ws/updates", wsHandler.ServeUpdates)

	guard := middleware.AdminGuard(authService, config.AdminAPIKey)

	api := r.Group("/api")
	{
		api.GET("/ping", func(c *gin.Context) {
			c.JSON(200, gin.H{"message": "pong"})
		})
		api.POST("/admin/login", authHandler.Login)

		gallery := api.Group("/gallery")
		{
			gallery.GET("", galleryHandler.List)
			gallery.GET("/featured", galleryHandler.ListFeatured)

			admin := gallery.Group("/admin", guard)
			admin.POST("", galleryHandler.Upload)
			admin.PATCH("/:id", galleryHandler.SetFeatured)
			admin.DELETE("/:id", galleryHandler.Delete)
		}

		donors := api.Group("/donors")
		{
			donors.GET("", donorHandler.List)

			admin := donors.Group("/admin", guard)
			admin.POST("", donorHandler.Create)
			admin.POST("/reorder", donorHandler.Reorder)
			admin.DELETE("/:id", donorHandler.Delete)
		}

		members := api.Group("/members")
		{
			members.GET("", memberHandler.List)

			admin := members.Group("/admin", guard)
			admin.POST("", memberHandler.Create)
			admin.POST("/reorder", memberHandler.Reorder)
			admin.DELETE("/:id", memberHandler.Delete)
		}
	}

	srv := &http.Server{Addr: ":" + config.Port, Handler: r}
	go func() {
		log.Println("Server starting on http://localhost:" + config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("could not start server:", err)
		}
	}()

	// Block until a signal is received
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	log.Println("Shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Println("forced shutdown:", err)
	}
}
