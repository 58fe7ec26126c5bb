//go:build integration

package http

import (
	"os"
	"testing"

	"github.com/guttosm/packing-slip-service/internal/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.RunWithMongoDB(m))
}
