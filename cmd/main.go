package main

import (
	"net/http"

	"cms-service/internal/handler"
	mid "cms-service/internal/middleware"
	"cms-service/internal/model"
	"cms-service/internal/storage"
	"cms-service/internal/storage/fs"
	"cms-service/internal/storage/s3"
	"cms-service/pkg/config"
	"cms-service/pkg/database"
	"cms-service/pkg/jwtutil"
	"cms-service/pkg/logger"
	"cms-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	appConfig, err := config.Load("cms-service")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting cms-service", appConfig.LogConfig()...)

	jwtutil.Initialize(&appConfig.JWT)

	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	if _, err := database.InitDB(&appConfig.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	err = database.MigrateModels(
		&model.Organization{},
		&model.User{},
		&model.ContentType{},
		&model.Category{},
		&model.Tag{},
		&model.Content{},
		&model.ContentCategory{},
		&model.ContentTag{},
		&model.ContentMedia{},
		&model.Media{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	blobStore, err := newStorageBackend(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize storage backend", zap.Error(err))
	}
	handler.SetMediaStorage(blobStore)
	log.Info("Storage backend initialized", zap.String("backend", appConfig.Storage.Backend))

	e := echo.New()

	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if appConfig.Storage.Backend == "fs" {
		e.Static("/uploads", appConfig.Storage.BaseDir)
	}
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Authentication
	e.POST("/api/auth/login", handler.Login)
	e.GET("/api/auth/me", handler.Me, mid.AuthMiddleware)

	// Organizations
	orgAPI := e.Group("/api/organizations", mid.AuthMiddleware)
	orgAPI.GET("", handler.ListOrganizations)
	orgAPI.GET("/:id", handler.GetOrganization)
	orgAPI.POST("", handler.CreateOrganization)
	orgAPI.PUT("/:id", handler.UpdateOrganization)
	orgAPI.DELETE("/:id", handler.DeleteOrganization)

	// Users
	userAPI := e.Group("/api/users", mid.AuthMiddleware)
	userAPI.GET("", handler.ListUsers)
	userAPI.GET("/:id", handler.GetUser)
	userAPI.POST("", handler.CreateUser)
	userAPI.PUT("/:id", handler.UpdateUser)
	userAPI.DELETE("/:id", handler.DeleteUser)

	// Content types
	typeAPI := e.Group("/api/content-types", mid.AuthMiddleware)
	typeAPI.GET("", handler.ListContentTypes)
	typeAPI.GET("/:id", handler.GetContentType)
	typeAPI.POST("", handler.CreateContentType)
	typeAPI.PUT("/:id", handler.UpdateContentType)
	typeAPI.DELETE("/:id", handler.DeleteContentType)

	// Categories
	categoryAPI := e.Group("/api/categories", mid.AuthMiddleware)
	categoryAPI.GET("", handler.ListCategories)
	categoryAPI.GET("/:id", handler.GetCategory)
	categoryAPI.POST("", handler.CreateCategory)
	categoryAPI.PUT("/:id", handler.UpdateCategory)
	categoryAPI.DELETE("/:id", handler.DeleteCategory)

	// Tags
	tagAPI := e.Group("/api/tags", mid.AuthMiddleware)
	tagAPI.GET("", handler.ListTags)
	tagAPI.GET("/:id", handler.GetTag)
	tagAPI.POST("", handler.CreateTag)
	tagAPI.PUT("/:id", handler.UpdateTag)
	tagAPI.DELETE("/:id", handler.DeleteTag)

	// Content
	contentAPI := e.Group("/api/content", mid.AuthMiddleware)
	contentAPI.GET("", handler.ListContent)
	contentAPI.GET("/:id", handler.GetContent)
	contentAPI.POST("", handler.CreateContent)
	contentAPI.PUT("/:id", handler.UpdateContent)
	contentAPI.POST("/:id/publish", handler.PublishContent)
	contentAPI.DELETE("/:id", handler.DeleteContent)

	// Media
	mediaAPI := e.Group("/api/media", mid.AuthMiddleware)
	mediaAPI.GET("", handler.ListMedia)
	mediaAPI.GET("/:id", handler.GetMedia)
	mediaAPI.POST("", handler.UploadMedia)
	mediaAPI.PUT("/:id", handler.UpdateMedia)
	mediaAPI.DELETE("/:id", handler.DeleteMedia)

	// Public read surface: published content only, tenant keyed by slug
	e.GET("/api/public/:orgSlug/content", handler.PublicListContent)
	e.GET("/api/public/:orgSlug/content/:slug", handler.PublicGetContent)

	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}

func newStorageBackend(appConfig *config.Config) (storage.Backend, error) {
	if appConfig.Storage.Backend == "s3" {
		return s3.NewS3Backend(s3.Config{
			Region:          appConfig.Storage.S3Region,
			Bucket:          appConfig.Storage.S3Bucket,
			AccessKeyID:     appConfig.Storage.S3AccessKey,
			SecretAccessKey: appConfig.Storage.S3SecretKey,
			Endpoint:        appConfig.Storage.S3Endpoint,
			BaseURL:         appConfig.Storage.BaseURL,
			UsePathStyle:    appConfig.Storage.S3Endpoint != "",
		})
	}
	return fs.NewFSBackend(fs.Config{
		BaseDir: appConfig.Storage.BaseDir,
		BaseURL: appConfig.Storage.BaseURL,
	})
}
