//go:build integration

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sternrassler/shop-admin/pkg/query"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container and returns a client
func setupRedis(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get Redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	cleanup := func() {
		client.Close()
		redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

func TestStore_Integration_RoundTrip(t *testing.T) {
	client, cleanup := setupRedis(t)
	defer cleanup()

	store := NewStore(client, time.Minute, zerolog.Nop())
	ctx := context.Background()
	orders := Key{SessionID: NewID(), Screen: "orders"}
	users := Key{SessionID: orders.SessionID, Screen: "users"}

	q, err := query.New().WithFilter("payingStatus", "Paid").WithPageSize(50)
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Save(ctx, orders, q); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(ctx, orders)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.Equal(q) {
		t.Errorf("Load() = %+v, want %+v", got, q)
	}

	// Screens of the same session are independent.
	if _, err := store.Load(ctx, users); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(users) error = %v, want ErrNotFound", err)
	}
}

func TestStore_Integration_Expiry(t *testing.T) {
	client, cleanup := setupRedis(t)
	defer cleanup()

	store := NewStore(client, time.Second, zerolog.Nop())
	ctx := context.Background()
	key := Key{SessionID: NewID(), Screen: "users"}

	if err := store.Save(ctx, key, query.New().WithSearch("bob")); err != nil {
		t.Fatal(err)
	}

	time.Sleep(1500 * time.Millisecond)

	if _, err := store.Load(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() after TTL error = %v, want ErrNotFound", err)
	}
}

func TestStore_Integration_Ping(t *testing.T) {
	client, cleanup := setupRedis(t)
	defer cleanup()

	if err := NewStore(client, 0, zerolog.Nop()).Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
