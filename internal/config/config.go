// Package config loads seeder configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything needed to reach the remote Appwrite project and to
// pace requests against it. Collection identifiers default to the slugs the
// mealdash app uses; project credentials are always required.
type Config struct {
	Endpoint   string `env:"APPWRITE_ENDPOINT" envDefault:"https://cloud.appwrite.io/v1"`
	ProjectID  string `env:"APPWRITE_PROJECT_ID,required"`
	APIKey     string `env:"APPWRITE_API_KEY,required"`
	DatabaseID string `env:"APPWRITE_DATABASE_ID,required"`
	BucketID   string `env:"APPWRITE_BUCKET_ID,required"`

	CategoriesCollection         string `env:"APPWRITE_CATEGORIES_COLLECTION_ID" envDefault:"categories"`
	CustomizationsCollection     string `env:"APPWRITE_CUSTOMIZATIONS_COLLECTION_ID" envDefault:"customizations"`
	MenuCollection               string `env:"APPWRITE_MENU_COLLECTION_ID" envDefault:"menu"`
	MenuCustomizationsCollection string `env:"APPWRITE_MENU_CUSTOMIZATIONS_COLLECTION_ID" envDefault:"menu_customizations"`

	// CreateDelay is the pause after each record creation, LinkDelay the pause
	// before each join-record creation. Both exist only to stay under the
	// remote project's request-rate limits.
	CreateDelay       time.Duration `env:"SEEDER_CREATE_DELAY" envDefault:"300ms"`
	LinkDelay         time.Duration `env:"SEEDER_LINK_DELAY" envDefault:"200ms"`
	DeleteConcurrency int           `env:"SEEDER_DELETE_CONCURRENCY" envDefault:"8"`
	HTTPTimeout       time.Duration `env:"SEEDER_HTTP_TIMEOUT" envDefault:"30s"`

	// PushgatewayURL enables a post-run metrics push when non-empty.
	PushgatewayURL string `env:"SEEDER_PUSHGATEWAY_URL"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DeleteConcurrency < 1 {
		cfg.DeleteConcurrency = 1
	}
	return cfg, nil
}
