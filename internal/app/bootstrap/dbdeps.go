// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database dependencies for the app. Both fields are nil when
// the service runs without a configured Mongo URI (degraded mode).
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}
