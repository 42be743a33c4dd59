package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// AssetStore provides namespace-scoped asset operations on top of a System.
// Asset ids are opaque to callers: the id embeds the stored extension so an
// asset can be retrieved or deleted from its id and namespace alone.
type AssetStore struct {
	sys System
}

// NewAssetStore wraps a storage System with asset semantics.
func NewAssetStore(sys System) *AssetStore {
	return &AssetStore{sys: sys}
}

// Store saves data under the namespace with the given extension and returns
// the generated asset id.
func (a *AssetStore) Store(ctx context.Context, namespace, ext string, data []byte) (string, error) {
	if namespace == "" {
		return "", ErrInvalidKey
	}

	id := uuid.New().String() + ext
	if err := a.sys.Store(ctx, assetKey(namespace, id), data); err != nil {
		return "", fmt.Errorf("store asset: %w", err)
	}

	return id, nil
}

// Retrieve returns the bytes of the asset identified by id within the namespace.
func (a *AssetStore) Retrieve(ctx context.Context, namespace, id string) ([]byte, error) {
	return a.sys.Retrieve(ctx, assetKey(namespace, id))
}

// Delete removes the asset identified by id within the namespace.
// Deleting a missing asset is not an error.
func (a *AssetStore) Delete(ctx context.Context, namespace, id string) error {
	return a.sys.Delete(ctx, assetKey(namespace, id))
}

// Exists checks whether the asset identified by id exists within the namespace.
func (a *AssetStore) Exists(ctx context.Context, namespace, id string) (bool, error) {
	return a.sys.Exists(ctx, assetKey(namespace, id))
}

func assetKey(namespace, id string) string {
	// A malformed id never escapes the namespace: cleanKey rejects traversal
	// at the System boundary.
	return strings.TrimSuffix(namespace, "/") + "/" + id
}
