package publisher

import (
	"context"

	"github.com/p0x6/private-kit/module/core/domain"
)

type LocationExporter interface {
	Submit(ctx context.Context, loc *domain.ExportLocation) error
}
