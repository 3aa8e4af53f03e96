package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"gopress-cms/cache"
	"gopress-cms/config"
	"gopress-cms/handlers"
	"gopress-cms/logger"
	"gopress-cms/middleware"
	"gopress-cms/repositories"
	"gopress-cms/services"
	"gopress-cms/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfgPath := os.Getenv("CMS_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	db, err := config.InitDB(cfg.DB)
	if err != nil {
		zlog.Fatal("init database", zap.Error(err))
	}

	var tagCache cache.TagCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		tagCache = cache.NewRedisTagCache(rdb, cfg.Redis.TagTTL)
		zlog.Info("tag cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	blobs := storage.NewHTTPBlobStore(cfg.Blob, zlog)

	// Repositories
	postRepo := repositories.NewPostRepository(db)
	tagRepo := repositories.NewTagRepository(db)

	// Services
	tagService := services.NewTagService(tagRepo, tagCache, zlog)
	postService := services.NewPostService(postRepo, tagRepo, tagService, blobs, zlog)

	// Handlers
	postHandler := handlers.NewPostHandler(postService)
	tagHandler := handlers.NewTagHandler(tagService)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zlog))
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api")
	{
		posts := api.Group("/posts")
		{
			posts.POST("", postHandler.CreatePost)
			posts.GET("", postHandler.GetPosts)
			posts.GET("/:id", postHandler.GetPost)
			posts.PUT("/:id", postHandler.UpdatePost)
			posts.DELETE("/:id", postHandler.DeletePost)
		}

		tags := api.Group("/tags")
		{
			tags.POST("", tagHandler.CreateTag)
			tags.GET("", tagHandler.GetTags)
		}

		api.GET("/search", postHandler.SearchPosts)
	}

	if cfg.Cron.Enabled {
		runner := cron.New()
		_, err := runner.AddFunc(cfg.Cron.TagUsageRefresh, func() {
			if err := tagService.RefreshUsageCounts(); err != nil {
				zlog.Error("tag usage refresh failed", zap.Error(err))
			}
		})
		if err != nil {
			zlog.Fatal("schedule tag usage refresh", zap.Error(err))
		}
		runner.Start()
		defer runner.Stop()
	}

	zlog.Info("server starting", zap.String("addr", cfg.Server.HTTPAddr))
	if err := http.ListenAndServe(cfg.Server.HTTPAddr, router); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
