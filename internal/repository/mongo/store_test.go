package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"fitstudio/server/internal/repository"
	"fitstudio/server/internal/repository/repositorytest"
)

func TestMongoStoreContract(t *testing.T) {
	uri := os.Getenv("FITSTUDIO_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("FITSTUDIO_TEST_MONGO_URI not set")
	}
	ctx := context.Background()

	repositorytest.Run(t, func(t *testing.T) *repository.Store {
		client, err := ConnectDB(ctx, uri)
		if err != nil {
			t.Skipf("mongo unavailable: %v", err)
		}
		db := client.Database(fmt.Sprintf("fitstudio_test_%d", time.Now().UnixNano()))
		if err := EnsureIndexes(ctx, db); err != nil {
			t.Fatalf("indexes: %v", err)
		}
		store := NewMongoStore(client, db, nil)
		t.Cleanup(func() {
			_ = db.Drop(context.Background())
			_ = store.Close(context.Background())
		})
		return store
	})
}
