package database

import (
	"context"
)

// KeyValueRepository is the persisted get/set-by-key collaborator. Get
// reports found=false for a missing key instead of an error.
type KeyValueRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
