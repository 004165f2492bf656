package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/wishcal/wishcal/internal/utils"
	"github.com/wishcal/wishcal/pkg/artifact"
	"github.com/wishcal/wishcal/pkg/queue"
	"github.com/wishcal/wishcal/pkg/steam"
	"github.com/wishcal/wishcal/pkg/storage"
)

// openDB opens the profile database at the configured path, defaulting to
// ~/.config/wishcal/wishcal.sqlite.
func openDB() (*storage.DB, error) {
	path, err := utils.GetAbsDBPath(viper.GetString("db.path"))
	if err != nil {
		return nil, err
	}
	return storage.Open(path)
}

// newQueue connects to the configured redis work queue.
func newQueue() *queue.Redis {
	return queue.NewRedis(
		viper.GetString("redis.addr"),
		viper.GetString("redis.password"),
		viper.GetInt("redis.db"),
	)
}

// newArtifactStore builds the configured artifact backend.
func newArtifactStore(ctx context.Context) (artifact.Store, error) {
	switch backend := viper.GetString("storage.backend"); backend {
	case "fs":
		return artifact.NewFSStore(viper.GetString("storage.path")), nil
	case "gcs":
		bucket := viper.GetString("storage.bucket")
		if bucket == "" {
			return nil, fmt.Errorf("storage.bucket is required for the gcs backend")
		}
		return artifact.NewGCSStore(ctx, bucket, viper.GetString("storage.credentials"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// newFetcher builds the proxy-routed wishlist fetcher.
func newFetcher(timeout time.Duration) (*steam.Fetcher, error) {
	apiKey := viper.GetString("scrapingfish.apikey")
	if apiKey == "" {
		return nil, fmt.Errorf("scrapingfish.apikey not set in config")
	}
	return steam.NewFetcher(viper.GetString("scrapingfish.endpoint"), apiKey, timeout), nil
}
