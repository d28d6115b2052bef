// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Strand. They are loaded
// via WAFFLE's config system with support for:
//   - Config files: mongo_uri, feed_page_size, etc.
//   - Environment variables: STRAND_MONGO_URI, STRAND_FEED_PAGE_SIZE, etc.
//   - Command-line flags: --mongo_uri, --feed_page_size, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI (blank starts the service degraded)"},
	{Name: "mongo_database", Default: "strand", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "feed_page_size", Default: 20, Desc: "Default number of threads per feed page"},

	{Name: "revalidate_url", Default: "", Desc: "Rendering-layer cache invalidation endpoint (blank disables)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// STRAND_* environment variables, and command-line flags, with precedence
// flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STRAND", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		FeedPageSize:     appValues.Int("feed_page_size"),
		RevalidateURL:    appValues.String("revalidate_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// A blank Mongo URI is deliberately accepted: the service starts in
// degraded mode rather than refusing to boot. A non-blank URI must at
// least parse, so connection typos fail fast instead of at first query.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.MongoURI != "" {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	}

	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be blank")
	}
	if appCfg.FeedPageSize < 1 {
		return fmt.Errorf("feed_page_size must be at least 1 (got %d)", appCfg.FeedPageSize)
	}

	return nil
}
