// Package common holds shared fixtures for integration tests.
package common

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const defaultSurrealImage = "surrealdb/surrealdb:v3.0.0"

var (
	surrealOnce      sync.Once
	surrealContainer *SurrealDBContainer
	surrealError     error
)

// SurrealDBContainer is a running SurrealDB instance for the proposal archive tests.
type SurrealDBContainer struct {
	container testcontainers.Container
	address   string
}

// StartSurrealDB returns the SurrealDB instance shared by the test process.
// INTAKE_TEST_SURREAL_ADDRESS points the tests at an existing server; a
// container is only started with INTAKE_TEST_DOCKER=true. -short skips both.
func StartSurrealDB(t *testing.T) *SurrealDBContainer {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping SurrealDB integration test in short mode")
	}
	if addr := os.Getenv("INTAKE_TEST_SURREAL_ADDRESS"); addr != "" {
		return &SurrealDBContainer{address: addr}
	}
	if !DockerEnabled() {
		t.Skip("Docker tests disabled (set INTAKE_TEST_DOCKER=true to enable)")
		return nil
	}

	surrealOnce.Do(func() {
		surrealContainer, surrealError = startSurrealContainer(context.Background())
	})

	if surrealError != nil {
		t.Fatalf("SurrealDB container failed: %v", surrealError)
	}

	return surrealContainer
}

// DockerEnabled reports whether tests may start containers.
func DockerEnabled() bool {
	return os.Getenv("INTAKE_TEST_DOCKER") == "true"
}

func startSurrealContainer(ctx context.Context) (*SurrealDBContainer, error) {
	image := os.Getenv("INTAKE_TEST_SURREAL_IMAGE")
	if image == "" {
		image = defaultSurrealImage
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--user", "root", "--pass", "root"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("8000/tcp"),
				wait.ForLog("Started web server"),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start SurrealDB container: %w", err)
	}

	endpoint, err := container.PortEndpoint(ctx, "8000/tcp", "ws")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("resolve SurrealDB endpoint: %w", err)
	}

	return &SurrealDBContainer{container: container, address: endpoint + "/rpc"}, nil
}

// Address returns the WebSocket RPC address.
func (c *SurrealDBContainer) Address() string {
	return c.address
}

// Cleanup terminates the container. Call from TestMain if needed.
func (c *SurrealDBContainer) Cleanup() {
	if c != nil && c.container != nil {
		c.container.Terminate(context.Background())
	}
}
