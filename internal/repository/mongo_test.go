package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/iliyamo/portfolio-backend/internal/database"
	"github.com/iliyamo/portfolio-backend/internal/repository"
	"github.com/iliyamo/portfolio-backend/internal/repository/repotest"
)

// testDB connects to MONGO_TEST_URI and returns a throwaway database with
// the production indexes.  Without the variable the test is skipped.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	client, err := database.Open(uri)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db := client.Database(fmt.Sprintf("portfolio_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	if err := database.EnsureIndexes(t.Context(), db); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	return db
}

func TestUserRepoContract(t *testing.T) {
	repotest.UserContract(t, repository.NewUserRepo(testDB(t)))
}

func TestMessageRepoContract(t *testing.T) {
	repotest.MessageContract(t, repository.NewMessageRepo(testDB(t)))
}
