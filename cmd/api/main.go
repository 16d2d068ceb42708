package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/config"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/controllers"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/services"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/external"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/parser"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/search"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/routes"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	loadConfig()

	// 2. Khởi tạo logger
	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting Address Parser Service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Dictionary + parser
	if err := config.Load(viper.GetString("parser.config")); err != nil {
		logger.Fatal("Failed to load parser config", zap.Error(err))
	}
	dict, err := resources.Default(logger)
	if err != nil {
		logger.Fatal("Failed to load dictionaries", zap.Error(err))
	}

	opts := parser.OptionsFromConfig(config.C)
	if config.C.UseLibpostal {
		if lp := external.NewLibpostal("vi"); lp.Available() {
			opts.Fallback = lp
		} else {
			logger.Warn("use_libpostal bật nhưng binary không được build với tag libpostal")
		}
	}
	addressParser, err := parser.New(dict, opts, logger)
	if err != nil {
		logger.Fatal("Failed to initialize parser", zap.Error(err))
	}
	logger.Info("Parser ready", zap.String("dictionary_version", addressParser.Version()))

	checks := map[string]controllers.HealthCheck{}

	// 4. MongoDB (tùy chọn)
	var mongoDB *mongo.Database
	if url := viper.GetString("mongo.url"); url != "" {
		mongoDB = initMongoDB(ctx, url, viper.GetString("mongo.database"), logger)
		defer func() {
			if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
				logger.Error("Error disconnecting MongoDB", zap.Error(err))
			}
		}()
		checks["mongodb"] = func(ctx context.Context) error { return mongoDB.Client().Ping(ctx, nil) }
	}

	// 5. Cache kết quả
	cacheService := initCache(ctx, mongoDB, logger)
	if cacheService != nil {
		defer cacheService.Close()
		checks["cache"] = func(ctx context.Context) error {
			_, err := cacheService.GetStats(ctx)
			return err
		}
	}

	// 6. Meilisearch gazetteer (tùy chọn)
	var (
		gazetteer services.Gazetteer
		index     services.GazetteerIndex
	)
	if host := viper.GetString("meilisearch.url"); host != "" {
		searcher, err := search.NewGazetteerSearcher(search.SearchConfig{
			Host:      host,
			APIKey:    viper.GetString("meilisearch.master_key"),
			IndexName: viper.GetString("meilisearch.index"),
			Timeout:   viper.GetDuration("meilisearch.timeout"),
		}, logger)
		if err != nil {
			logger.Warn("Meilisearch không khả dụng, tắt enrich gazetteer", zap.Error(err))
		} else {
			gazetteer, index = searcher, searcher
			checks["meilisearch"] = searcher.Ping
		}
	}

	// 7. Services
	addressService := services.NewAddressService(addressParser, cacheService, gazetteer, config.C.NonAccent, logger)
	addressService.StartJobReaper(ctx, time.Minute, viper.GetDuration("jobs.retention"))
	adminService := services.NewAdminService(index, mongoDB, logger)

	// 8. Controllers + routes
	seedUnits := search.UnitsFromAliases(dict.RegionAliases(), dict.Version())
	addressController := controllers.NewAddressController(addressService, checks, logger)
	adminController := controllers.NewAdminController(adminService, addressService, seedUnits, logger)

	if viper.GetString("app.env") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	routes.SetupAllRoutes(router, addressController, adminController, logger)

	// 9. Khởi động server
	srv := &http.Server{
		Addr:              ":" + viper.GetString("app.port"),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Address Parser Service starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

// loadConfig load configuration từ file và env vars (APP_PORT, CACHE_BACKEND...)
func loadConfig() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("parser.config", "config/parser.yaml")
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("cache.l1_size", 10000)
	viper.SetDefault("redis.url", "redis://localhost:6379")
	viper.SetDefault("mongo.url", "")
	viper.SetDefault("mongo.database", "address_parser")
	viper.SetDefault("meilisearch.url", "")
	viper.SetDefault("meilisearch.master_key", "")
	viper.SetDefault("meilisearch.index", "admin_units")
	viper.SetDefault("meilisearch.timeout", "5s")
	viper.SetDefault("jobs.retention", "1h")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Cannot read config file: %v", err)
	}
}

// initLogger khởi tạo structured logger
func initLogger() *zap.Logger {
	var cfg zap.Config
	if viper.GetString("app.env") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}
	return logger
}

// initMongoDB khởi tạo kết nối MongoDB
func initMongoDB(ctx context.Context, url, dbName string, logger *zap.Logger) *mongo.Database {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		logger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}

	logger.Info("Connected to MongoDB", zap.String("database", dbName))
	return client.Database(dbName)
}

// initCache chọn backend theo cache.backend: memory, redis, mongo, hybrid (Redis L1 + MongoDB L2), none
func initCache(ctx context.Context, db *mongo.Database, logger *zap.Logger) services.ICacheService {
	ttl := viper.GetDuration("cache.ttl")
	l1Size := viper.GetInt("cache.l1_size")
	backend := viper.GetString("cache.backend")
	logger.Info("Cache backend", zap.String("backend", backend), zap.Duration("ttl", ttl))

	newMongo := func() *services.MongoCacheService {
		if db == nil {
			logger.Fatal("cache.backend cần mongo.url", zap.String("backend", backend))
		}
		mongoCache, err := services.NewMongoCacheService(db, l1Size, ttl, logger)
		if err != nil {
			logger.Fatal("Failed to initialize MongoDB cache", zap.Error(err))
		}
		if n, err := mongoCache.WarmUp(ctx, l1Size/2); err != nil {
			logger.Warn("Failed to warm up cache", zap.Error(err))
		} else {
			logger.Info("Warmed up L1 cache", zap.Int("entries", n))
		}
		return mongoCache
	}
	newRedis := func() *services.RedisCacheService {
		redisCache, err := services.NewRedisCacheService(viper.GetString("redis.url"), ttl, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis cache", zap.Error(err))
		}
		return redisCache
	}

	switch backend {
	case "none":
		return nil
	case "redis":
		return newRedis()
	case "mongo":
		return newMongo()
	case "hybrid":
		return services.NewHybridCacheService(newRedis(), newMongo(), logger)
	default:
		memory := services.NewMemoryCacheService(ttl)
		memory.StartCleanupWorker(ctx, time.Minute)
		return memory
	}
}
