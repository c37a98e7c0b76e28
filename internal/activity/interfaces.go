package activity

import "migrator/internal/models"

// IActivityLogger records and queries the migration audit trail.
type IActivityLogger interface {
	Search(searchCriteria map[string][]string) ([]map[string]interface{}, error)
	Send(activity models.Activity) error
	CountByDay(searchCriteria map[string][]string, days int) ([]models.TimeSeriesPoint, error)
	Close() error
}
