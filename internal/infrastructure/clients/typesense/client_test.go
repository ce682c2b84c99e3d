//go:build integration

package typesense

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/zatekoja/Marketplacesearch/pkg/config"
)

const testAPIKey = "test-key"

func startTypesense(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "typesense/typesense:27.1",
			ExposedPorts: []string{"8108/tcp"},
			Cmd:          []string{"--data-dir", "/tmp", "--api-key", testAPIKey},
			WaitingFor:   wait.ForHTTP("/health").WithPort("8108/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "8108/tcp")
	require.NoError(t, err)
	return fmt.Sprintf("http://%s:%s", host, port.Port())
}

func TestClient_InitSchemaIsIdempotent(t *testing.T) {
	url := startTypesense(t)

	client, err := NewClient(&config.TypesenseConfig{
		URL:        url,
		APIKey:     testAPIKey,
		Collection: "products_test",
	})
	require.NoError(t, err)
	assert.Equal(t, "products_test", client.Collection())

	ctx := context.Background()
	require.NoError(t, client.InitSchema(ctx))
	require.NoError(t, client.InitSchema(ctx))

	collection, err := client.Client().Collection("products_test").Retrieve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "products_test", collection.Name)
}
