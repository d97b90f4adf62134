// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/jjprojectslab/comunify/internal/app/system/tasks"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil when redis_url is blank.
	Redis *redis.Client

	// Jobs owns background goroutines started by Startup and BuildHandler.
	Jobs *tasks.Runner
}
