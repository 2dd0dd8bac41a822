package store_test

import (
	"context"
	"testing"

	"ms-busbooking/internal/models"
	"ms-busbooking/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisKV_AgainstRealRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	defer container.Terminate(ctx)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := store.ConnectRedis(ctx, endpoint, "", 0)
	require.NoError(t, err)
	defer client.Close()

	c := newCollections(t, store.NewRedisKV(client, "it:"))
	customers := []models.Customer{{CustomerID: "CUST1", Name: "Arun", Phone: "9840012345"}}

	require.NoError(t, store.Save(ctx, c, store.Customers, customers))
	assert.Equal(t, customers, store.Load[models.Customer](ctx, c, store.Customers))
}
