// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

/*
Package embedding integrates the external embedding provider.

The hybrid search engine treats this collaborator as fail-soft: an error or
timeout here only disables the vector strategy for that request, never the
whole search.
*/
package embedding

import "context"

// Provider turns free text into an embedding vector.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
