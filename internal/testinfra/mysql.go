// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMySQLImage is the MySQL image used for store tests.
	DefaultMySQLImage = "mysql:8.4"

	// DefaultMySQLPort is the MySQL protocol port.
	DefaultMySQLPort = "3306"

	defaultMySQLDatabase = "shelfwise"
	defaultMySQLUser     = "shelfwise"
	defaultMySQLPassword = "shelfwise-test"
)

// MySQLContainer is a running MySQL server for testing.
type MySQLContainer struct {
	testcontainers.Container

	// DSN is a go-sql-driver/mysql data source name for the test database.
	DSN string
}

// MySQLOption configures the MySQL container.
type MySQLOption func(*mysqlConfig)

type mysqlConfig struct {
	image        string
	startTimeout time.Duration
}

// WithMySQLImage sets a custom MySQL image.
func WithMySQLImage(image string) MySQLOption {
	return func(c *mysqlConfig) {
		c.image = image
	}
}

// WithMySQLStartTimeout sets how long to wait for the server to accept connections.
func WithMySQLStartTimeout(timeout time.Duration) MySQLOption {
	return func(c *mysqlConfig) {
		c.startTimeout = timeout
	}
}

// StartMySQL starts a MySQL container for t and terminates it when t ends.
// The test is skipped when no container runtime is reachable.
func StartMySQL(t *testing.T, opts ...MySQLOption) *MySQLContainer {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	c, err := NewMySQLContainer(ctx, opts...)
	if c != nil {
		testcontainers.CleanupContainer(t, c.Container)
	}
	if err != nil {
		t.Fatalf("start mysql: %v", err)
	}
	return c
}

// NewMySQLContainer creates and starts a MySQL container. The caller owns
// termination; tests normally use StartMySQL instead.
func NewMySQLContainer(ctx context.Context, opts ...MySQLOption) (*MySQLContainer, error) {
	cfg := &mysqlConfig{
		image:        DefaultMySQLImage,
		startTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultMySQLPort + "/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": defaultMySQLPassword,
			"MYSQL_DATABASE":      defaultMySQLDatabase,
			"MYSQL_USER":          defaultMySQLUser,
			"MYSQL_PASSWORD":      defaultMySQLPassword,
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("port: 3306  MySQL Community Server"),
			wait.ForListeningPort(DefaultMySQLPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", cfg.image, err)
	}

	endpoint, err := container.PortEndpoint(ctx, DefaultMySQLPort+"/tcp", "")
	if err != nil {
		return &MySQLContainer{Container: container}, fmt.Errorf("mysql endpoint: %w", err)
	}

	return &MySQLContainer{
		Container: container,
		DSN: fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
			defaultMySQLUser, defaultMySQLPassword, endpoint, defaultMySQLDatabase),
	}, nil
}
