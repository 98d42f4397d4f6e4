// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

// Package mongodb provides a managed MongoDB client for the IdentifyObjects
// application.
//
// # Architecture
//
// This package is part of the Infrastructure layer. It manages the physical
// connection pool and hands out database/collection handles; all query
// construction lives behind the tenant-aware repositories.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Opinionated pool settings for the discovery workload.
const (
	// maxPoolSize is the maximum number of connections in the driver pool.
	maxPoolSize = 25
	// minPoolSize keeps a warm set of connections to avoid cold-start latency.
	minPoolSize = 5
	// maxConnIdleTime closes connections that have been idle too long.
	maxConnIdleTime = 10 * time.Minute
	// connectTimeout is the maximum time allowed to establish a new connection.
	connectTimeout = 5 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// Connect creates and validates a new MongoDB client.
//
// # Parameters
//   - ctx: Context for the initial connectivity check.
//   - uri: A mongodb:// or mongodb+srv:// connection string.
//   - logger: Structured logger for client-level events.
func Connect(ctx context.Context, uri string, logger *slog.Logger) (*mongo.Client, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize).
		SetMaxConnIdleTime(maxConnIdleTime).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb: failed to create client: %w", err)
	}

	// Validate that we can actually reach the cluster.
	if err := Ping(ctx, client); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info("mongodb client connected",
		slog.Int("max_pool_size", maxPoolSize),
	)

	return client, nil
}

// Ping verifies that the MongoDB client is healthy.
func Ping(ctx context.Context, client *mongo.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb: ping failed: %w", err)
	}

	return nil
}
