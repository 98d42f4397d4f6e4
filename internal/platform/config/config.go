// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (Mongo, Redis, Search) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the IdentifyObjects API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Document store (MongoDB Atlas)
	MongoURI      string `env:"MONGO_URI,required"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"identify_objects"`

	// Key-Value Cache (Redis) — embeddings and resolved image bytes
	RedisURL string `env:"REDIS_URL,required"`

	// Public key for verifying access tokens issued by the identity service
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Object Storage (Cloudflare R2 / S3-compatible) — canonical image bytes
	S3Bucket   string `env:"S3_BUCKET,required"`
	S3Region   string `env:"S3_REGION"   envDefault:"auto"`
	S3Endpoint string `env:"S3_ENDPOINT"`

	// Embedding provider
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"gemini-embedding-001"`

	// Hybrid search tuning. Thresholds come in an English/non-English pair
	// because cross-lingual embedding similarity runs systematically lower
	// than same-language similarity.
	VectorThresholdEnglish float64 `env:"VECTOR_THRESHOLD_ENGLISH" envDefault:"0.80"`
	VectorThresholdOther   float64 `env:"VECTOR_THRESHOLD_OTHER"   envDefault:"0.65"`

	// FuzzyRelaxFactor derives the fuzzy-match threshold from the active
	// vector threshold. Tunable: the multiplier has no measured
	// precision/recall rationale behind it.
	FuzzyRelaxFactor float64 `env:"FUZZY_RELAX_FACTOR" envDefault:"0.90"`

	// VectorOversample asks the ANN stage for this multiple of the window
	// before threshold filtering trims it back down.
	VectorOversample int `env:"VECTOR_OVERSAMPLE" envDefault:"4"`

	// FuzzyScanCeiling caps the candidates admitted to the fuzzy pass.
	FuzzyScanCeiling int `env:"FUZZY_SCAN_CEILING" envDefault:"500"`

	// Strategy score weights used by the merge step.
	VectorScoreWeight float64 `env:"VECTOR_SCORE_WEIGHT" envDefault:"2.0"`
	TextScoreWeight   float64 `env:"TEXT_SCORE_WEIGHT"   envDefault:"1.0"`

	// AssemblerConcurrency bounds parallel image enrichment per request.
	AssemblerConcurrency int `env:"ASSEMBLER_CONCURRENCY" envDefault:"8"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
