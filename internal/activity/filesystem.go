package activity

import (
	"fmt"
	"os"
	"time"

	c "migrator/internal/configuration"
	"migrator/internal/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const schemaVersion = "1"

var schemaVersionKey = []byte("schema_version")

// FilesystemActivityEntry is the document shape indexed in bleve.
type FilesystemActivityEntry struct {
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
	Action         string    `json:"action"`
	Flow           string    `json:"flow"`
	LegacyUsername string    `json:"legacy_username"`
	ErrorKind      string    `json:"error_kind"`
	UserPoolID     string    `json:"user_pool_id"`
	ClientID       string    `json:"client_id"`
	RequestID      string    `json:"request_id"`
}

var keywordFields = []string{
	"action",
	"flow",
	"legacy_username",
	"error_kind",
	"user_pool_id",
	"client_id",
	"request_id",
}

// FilesystemClient implements IActivityLogger using a local bleve index.
type FilesystemClient struct {
	index bleve.Index
}

var _ IActivityLogger = (*FilesystemClient)(nil)

// NewFilesystemClient opens or creates the bleve index at the configured
// directory. The activity log only holds a retention window of audit entries,
// so an index stamped with another schema version is discarded and recreated.
func NewFilesystemClient(config models.ActivityConfiguration) IActivityLogger {
	index, err := openIndex(config.Filesystem.Directory)
	if err != nil {
		zap.L().Fatal("Failed to open filesystem activity index", zap.Error(err))
	}
	return &FilesystemClient{index: index}
}

func openIndex(dir string) (bleve.Index, error) {
	index, err := bleve.Open(dir)
	if err != nil {
		return createIndex(dir)
	}

	storedVersion, err := index.GetInternal(schemaVersionKey)
	if err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}
	if string(storedVersion) == schemaVersion {
		return index, nil
	}

	zap.L().Warn("Activity index schema changed, recreating it",
		zap.String("old_version", string(storedVersion)),
		zap.String("new_version", schemaVersion),
	)
	if err = index.Close(); err != nil {
		return nil, fmt.Errorf("failed to close outdated index: %w", err)
	}
	if err = os.RemoveAll(dir); err != nil {
		return nil, fmt.Errorf("failed to remove outdated index: %w", err)
	}
	return createIndex(dir)
}

func createIndex(dir string) (bleve.Index, error) {
	index, err := bleve.New(dir, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}
	if err = index.SetInternal(schemaVersionKey, []byte(schemaVersion)); err != nil {
		_ = index.Close()
		return nil, fmt.Errorf("failed to set schema version: %w", err)
	}
	return index, nil
}

func buildIndexMapping() *mapping.IndexMappingImpl {
	keywordMapping := bleve.NewKeywordFieldMapping()
	dateMapping := bleve.NewDateTimeFieldMapping()
	textMapping := bleve.NewTextFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	for _, field := range keywordFields {
		docMapping.AddFieldMappingsAt(field, keywordMapping)
	}
	docMapping.AddFieldMappingsAt("timestamp", dateMapping)
	docMapping.AddFieldMappingsAt("message", textMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping

	return indexMapping
}

func parseTimestamp(fields map[string]any) time.Time {
	if s, ok := fields["timestamp"].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (fc *FilesystemClient) Close() error {
	return fc.index.Close()
}

func (fc *FilesystemClient) Send(activity models.Activity) error {
	timestamp := activity.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	entry := FilesystemActivityEntry{
		Message:        activity.Message,
		Timestamp:      timestamp.UTC(),
		Action:         activity.Action,
		Flow:           string(activity.Flow),
		LegacyUsername: activity.LegacyUsername,
		ErrorKind:      activity.ErrorKind,
		UserPoolID:     activity.UserPoolID,
		ClientID:       activity.ClientID,
		RequestID:      activity.RequestID,
	}

	if err := fc.index.Index(uuid.New().String(), entry); err != nil {
		return fmt.Errorf("failed to index activity: %w", err)
	}
	return nil
}

// Search returns up to 100 entries matching searchCriteria within the
// retention window, newest first.
func (fc *FilesystemClient) Search(searchCriteria map[string][]string) ([]map[string]any, error) {
	now := time.Now()
	dateQuery := bleve.NewDateRangeQuery(now.AddDate(0, 0, -c.ActivityRetentionDays), now)
	dateQuery.SetField("timestamp")

	searchRequest := bleve.NewSearchRequest(bleve.NewConjunctionQuery(buildBleveQuery(searchCriteria), dateQuery))
	searchRequest.Size = 100
	searchRequest.SortBy([]string{"-timestamp"})
	searchRequest.Fields = []string{"*"}

	result, err := fc.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to search activity: %w", err)
	}

	activities := make([]map[string]any, 0, len(result.Hits))
	for _, hit := range result.Hits {
		entry := map[string]any{}
		for _, field := range keywordFields {
			value, _ := hit.Fields[field].(string)
			entry[field] = value
		}
		message, _ := hit.Fields["message"].(string)
		entry["message"] = message

		if t := parseTimestamp(hit.Fields); !t.IsZero() {
			entry["timestamp"] = t.Format(time.RFC3339Nano)
		}

		activities = append(activities, entry)
	}

	return activities, nil
}

func (fc *FilesystemClient) CountByDay(searchCriteria map[string][]string, days int) ([]models.TimeSeriesPoint, error) {
	now := time.Now()
	dateQuery := bleve.NewDateRangeQuery(now.AddDate(0, 0, -days), now)
	dateQuery.SetField("timestamp")

	searchRequest := bleve.NewSearchRequest(bleve.NewConjunctionQuery(buildBleveQuery(searchCriteria), dateQuery))
	searchRequest.Size = 0

	facet := bleve.NewFacetRequest("timestamp", days+1)
	for i := days; i >= 0; i-- {
		dayStart := now.AddDate(0, 0, -i).Truncate(24 * time.Hour)
		facet.AddDateTimeRange(dayStart.Format("2006-01-02"), dayStart, dayStart.Add(24*time.Hour))
	}
	searchRequest.AddFacet("daily_counts", facet)

	result, err := fc.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("failed to count activity by day: %w", err)
	}

	dailyFacet, ok := result.Facets["daily_counts"]
	if !ok {
		return []models.TimeSeriesPoint{}, nil
	}

	points := make([]models.TimeSeriesPoint, 0, len(dailyFacet.DateRanges))
	for _, dr := range dailyFacet.DateRanges {
		if dr.Count > 0 {
			points = append(points, models.TimeSeriesPoint{Date: dr.Name, Count: int64(dr.Count)})
		}
	}

	return points, nil
}

func buildBleveQuery(searchCriteria map[string][]string) query.Query {
	var queries []query.Query

	for key, values := range searchCriteria {
		if len(values) == 1 {
			termQuery := bleve.NewTermQuery(values[0])
			termQuery.SetField(key)
			queries = append(queries, termQuery)
		} else if len(values) > 1 {
			var termQueries []query.Query
			for _, v := range values {
				tq := bleve.NewTermQuery(v)
				tq.SetField(key)
				termQueries = append(termQueries, tq)
			}
			disjunction := bleve.NewDisjunctionQuery(termQueries...)
			disjunction.SetMin(1)
			queries = append(queries, disjunction)
		}
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
