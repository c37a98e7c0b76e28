package activity

import "migrator/internal/models"

// NoopClient discards activity. It is used when activity.type is none.
type NoopClient struct{}

var _ IActivityLogger = NoopClient{}

func (NoopClient) Search(_ map[string][]string) ([]map[string]any, error) {
	return []map[string]any{}, nil
}

func (NoopClient) Send(_ models.Activity) error { return nil }

func (NoopClient) CountByDay(_ map[string][]string, _ int) ([]models.TimeSeriesPoint, error) {
	return []models.TimeSeriesPoint{}, nil
}

func (NoopClient) Close() error { return nil }
