package disk

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// UUIDGenerator names uploaded objects.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return strings.ReplaceAll(uuid.NewString(), "-", ""), nil
}
