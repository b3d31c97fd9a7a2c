//go:build integration_pg
// +build integration_pg

// Package pgtest starts a disposable postgres with the stashbox schema for integration tests
package pgtest

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"stashbox/internal/platform/store"
	"stashbox/internal/platform/store/schema"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartPostgres launches postgres:16-alpine and returns its DSN; the container stops on cleanup
func StartPostgres(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "stashbox",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		_ = c.Terminate(context.Background())
		cancel()
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	return fmt.Sprintf("postgres://postgres:postgres@%s:%s/stashbox?sslmode=disable", host, mp.Port())
}

// Open starts postgres, applies the schema and returns the sql seam
func Open(t *testing.T) store.TxRunner {
	t.Helper()
	dsn := StartPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	s, err := store.Open(ctx, store.Config{
		AppName: "stashbox-test",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 16},
	}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	if err := schema.ApplyPG(ctx, s.PG); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return s.PG
}

// Owner inserts a user row and returns its internal id
func Owner(t *testing.T, q store.RowQuerier) uuid.UUID {
	t.Helper()
	id := uuid.New()
	if _, err := q.Exec(context.Background(), `insert into users (id, external_id) values ($1, $2)`, id, uuid.New()); err != nil {
		t.Fatalf("insert owner: %v", err)
	}
	return id
}
