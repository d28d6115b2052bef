// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, log
// level, CORS); AppConfig carries everything specific to this service.
type AppConfig struct {
	// MongoDB connection configuration. A blank MongoURI is allowed: the
	// service then starts degraded, serving 503 for store-backed routes
	// while /health keeps answering.
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Feed configuration
	FeedPageSize int // Default threads per feed page

	// Rendering-layer cache invalidation. Blank disables the webhook and
	// hints are only logged.
	RevalidateURL string // Endpoint that receives {"path": ...} hints
}
