package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/dong-nguyen-hd/parser-vietnamese-address/app/services"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/resources"
	"github.com/dong-nguyen-hd/parser-vietnamese-address/internal/search"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// seed nạp đơn vị cấp tỉnh từ bảng alias nhúng sẵn vào Meilisearch (và MongoDB nếu có mongo.url).
// Cấu hình giống cmd/api: config/app.yaml hoặc env MEILISEARCH_URL, MONGO_URL, SEED_DRY_RUN...
func main() {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.SetDefault("meilisearch.url", "http://localhost:7700")
	viper.SetDefault("meilisearch.index", "admin_units")
	viper.SetDefault("meilisearch.timeout", "30s")
	viper.SetDefault("mongo.database", "address_parser")
	viper.SetDefault("seed.rebuild_indexes", true)
	viper.SetDefault("seed.dry_run", false)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Cannot read config file: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal("Cannot initialize logger:", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dict, err := resources.Default(logger)
	if err != nil {
		logger.Fatal("Failed to load dictionaries", zap.Error(err))
	}
	units := search.UnitsFromAliases(dict.RegionAliases(), dict.Version())

	adminService := services.NewAdminService(nil, nil, logger)
	validation := adminService.ValidateGazetteerData(units)
	logger.Info("Validated seed data",
		zap.Int("units", len(units)),
		zap.String("dictionary_version", dict.Version()),
		zap.Bool("passed", validation.Passed),
		zap.Strings("warnings", validation.Warnings))
	if viper.GetBool("seed.dry_run") || !validation.Passed {
		return
	}

	searcher, err := search.NewGazetteerSearcher(search.SearchConfig{
		Host:      viper.GetString("meilisearch.url"),
		APIKey:    viper.GetString("meilisearch.master_key"),
		IndexName: viper.GetString("meilisearch.index"),
		Timeout:   viper.GetDuration("meilisearch.timeout"),
	}, logger)
	if err != nil {
		logger.Fatal("Không thể kết nối Meilisearch", zap.Error(err))
	}

	var db *mongo.Database
	if url := viper.GetString("mongo.url"); url != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer client.Disconnect(context.Background())
		db = client.Database(viper.GetString("mongo.database"))
	}

	adminService = services.NewAdminService(searcher, db, logger)
	result, err := adminService.SeedGazetteer(ctx, units, viper.GetBool("seed.rebuild_indexes"), db != nil)
	if err != nil {
		logger.Fatal("Seed gazetteer thất bại", zap.Error(err))
	}

	logger.Info("Hoàn thành seed gazetteer",
		zap.Int("units_processed", result.UnitsProcessed),
		zap.Int("indexes_built", result.IndexesBuilt),
		zap.Int64("persisted", result.Persisted),
		zap.Int64("processing_time_ms", result.ProcessingTimeMs))
}
