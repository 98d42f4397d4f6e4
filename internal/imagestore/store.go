// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

/*
Package imagestore resolves the storage descriptors carried on object
documents into raw image bytes.

The document store holds metadata only; canonical image bytes live in an
S3-compatible bucket, fronted by a Redis read-through cache so repeated
pool pages stay off the object store.
*/
package imagestore

import "context"

// Store retrieves image bytes by their storage descriptor.
type Store interface {
	Retrieve(ctx context.Context, key string) ([]byte, error)
}
