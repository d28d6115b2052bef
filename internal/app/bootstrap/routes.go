// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	communitiesfeature "github.com/dalemusser/strand/internal/app/features/communities"
	feedfeature "github.com/dalemusser/strand/internal/app/features/feedpage"
	healthfeature "github.com/dalemusser/strand/internal/app/features/health"
	threadsfeature "github.com/dalemusser/strand/internal/app/features/threads"
	usersfeature "github.com/dalemusser/strand/internal/app/features/users"
	"github.com/dalemusser/strand/internal/app/system/revalidate"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. deps.MongoDatabase may be nil (degraded mode);
// every feature handler tolerates that and answers 503 for store-backed
// routes, so the router is wired identically either way.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	hints := revalidate.NewWebhook(appCfg.RevalidateURL, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	usersHandler := usersfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/users", usersfeature.Routes(usersHandler))

	threadsHandler := threadsfeature.NewHandler(deps.MongoDatabase, hints, logger)
	r.Mount("/threads", threadsfeature.Routes(threadsHandler))

	feedHandler := feedfeature.NewHandler(deps.MongoDatabase, appCfg.FeedPageSize, logger)
	r.Mount("/feed", feedfeature.Routes(feedHandler))

	communitiesHandler := communitiesfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/communities", communitiesfeature.Routes(communitiesHandler))

	return r, nil
}
