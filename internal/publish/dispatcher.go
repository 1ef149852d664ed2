package publish

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/postcue/postcue/internal/models"
	"github.com/postcue/postcue/pkg/utils"
)

// DeliveryError wraps a single platform's dispatch failure.
type DeliveryError struct {
	PlatformID string
	Err        error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.PlatformID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// LogDispatcher is the shipping Dispatcher: it records the attempt and
// returns a receipt without performing network delivery. Real platform
// transports plug in behind the Dispatcher interface.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, item *models.ContentItem, platformID string) (*models.DeliveryReceipt, error) {
	ref, err := utils.NewID()
	if err != nil {
		return nil, err
	}

	slog.Info("dispatching content item",
		"item_id", item.ID,
		"platform_id", platformID,
		"title", item.Title,
		"media_count", len(item.MediaRefs))

	return &models.DeliveryReceipt{
		PlatformID:  platformID,
		Reference:   ref,
		DeliveredAt: time.Now(),
	}, nil
}
