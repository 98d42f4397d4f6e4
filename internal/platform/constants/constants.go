// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Retrieval: Per-strategy deadlines for the hybrid search fan-out.
  - Rate Limiting: Burst capacities and IP tracking TTLs.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "identify-objects-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Retrieval Strategy Timing

const (
	// EmbeddingTimeout bounds a single call to the embedding provider.
	EmbeddingTimeout = 5 * time.Second

	// StrategyTimeout bounds one retrieval strategy (vector, text, or
	// fuzzy). A strategy that misses this deadline is treated as having
	// found nothing; the other strategies keep running.
	StrategyTimeout = 8 * time.Second

	// ImageRetrieveTimeout bounds one image-store fetch during result assembly.
	ImageRetrieveTimeout = 5 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the expected 'iss' claim in access tokens minted by the
	// upstream identity service.
	AuthIssuer = "identify-objects.app"
)

// # HTTP Headers

const (
	HeaderXRequestID = "X-Request-ID"
	HeaderXRealIP    = "X-Real-IP"
	HeaderXFwdFor    = "X-Forwarded-For"
	HeaderOrigin     = "Origin"
)

// # Pool Defaults

const (
	// DefaultPoolLimit is the page size when the caller does not specify one.
	DefaultPoolLimit = 9

	// MaxPoolLimit caps the page size to protect the enrichment pipeline.
	MaxPoolLimit = 27

	// DefaultLanguage is assumed when neither token claims nor query
	// parameters carry an allowed-language list.
	DefaultLanguage = "English"
)
