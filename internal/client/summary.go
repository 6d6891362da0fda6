package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// Summary — счётчики записей по сущностям для дашборда
func (c *Client) Summary(ctx context.Context) (map[string]int, error) {
	raw, err := c.core.get(ctx, "/api/Summary")
	if err != nil {
		return nil, err
	}
	var out struct {
		Counts map[string]int `json:"counts"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return out.Counts, nil
}
