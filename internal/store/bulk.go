package store

import (
	"context"
	"net/http"

	"github.com/superbank-dev/superbank/internal/model"
)

type bulkWire struct {
	Updates []model.BulkTagItem `json:"updates"`
}

// BulkUpdate implements BulkUpdateSink: one batched request, one aggregate
// result. The caller blocks until the whole batch resolves; there is no
// partial-commit visibility mid-batch.
func (c *Client) BulkUpdate(ctx context.Context, items []model.BulkTagItem) (model.BulkTagResult, error) {
	var result model.BulkTagResult
	if err := c.doJSON(ctx, http.MethodPost, "/transactions/bulk-tags", bulkWire{Updates: items}, &result); err != nil {
		return model.BulkTagResult{}, err
	}
	return result, nil
}
