//go:build integration

package testutil

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxDatabaseNameLength is MongoDB's limit on database names, minus one.
const maxDatabaseNameLength = 63

var (
	shared     *MongoDBContainer
	sharedErr  error
	sharedOnce sync.Once
)

// SharedMongoDB starts the package-wide replica set on first use and returns it.
func SharedMongoDB(ctx context.Context) (*MongoDBContainer, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = SetupMongoDB(ctx)
	})
	return shared, sharedErr
}

// RunWithMongoDB runs the package's tests against one shared container.
//
//	func TestMain(m *testing.M) {
//		os.Exit(testutil.RunWithMongoDB(m))
//	}
func RunWithMongoDB(m *testing.M) int {
	ctx := context.Background()

	started := time.Now()
	container, err := SharedMongoDB(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to start MongoDB test container")
		return 1
	}
	log.Info().Dur("startup", time.Since(started)).Str("uri", container.URI).Msg("MongoDB test container ready")

	code := m.Run()

	if err := container.Cleanup(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to terminate MongoDB test container")
	}
	return code
}

// MongoURI returns the connection string of the shared container.
func MongoURI() string {
	if shared == nil {
		panic("testutil: shared MongoDB container not started; use RunWithMongoDB in TestMain")
	}
	return shared.URI
}

// DatabaseName derives a unique database name from a test name so parallel
// tests never share collections.
func DatabaseName(testName string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ' ', '"', '$', '*', '<', '>', ':', '|', '?':
			return '_'
		}
		return r
	}, testName)

	suffix := "_" + uuid.NewString()[:8]
	if limit := maxDatabaseNameLength - len(suffix); len(name) > limit {
		name = name[:limit]
	}
	return name + suffix
}
