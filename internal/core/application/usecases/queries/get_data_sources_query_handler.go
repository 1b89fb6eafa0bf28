package queries

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetDataSourcesQueryHandler counts the rows of each registered table with a
// plain SELECT count(*), outside of any unit of work.
type GetDataSourcesQueryHandler struct {
	db *gorm.DB
}

func NewGetDataSourcesQueryHandler(db *gorm.DB) GetDataSourcesQueryHandler {
	return GetDataSourcesQueryHandler{db: db}
}

// Handle returns one response per table, in query order. Table names come from
// the registry and are quoted before they reach SQL.
func (h GetDataSourcesQueryHandler) Handle(
	ctx context.Context,
	query GetDataSourcesQuery,
) ([]GetDataSourcesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tables := query.Tables()
	result := make([]GetDataSourcesQueryResponse, 0, len(tables))
	for _, t := range tables {
		var count int64
		err := h.db.WithContext(ctx).
			Raw("SELECT count(*) FROM " + pq.QuoteIdentifier(t.Table)).
			Scan(&count).Error
		if err != nil {
			return nil, fmt.Errorf("count records of %s: %w", t.DataSource, err)
		}

		result = append(result, GetDataSourcesQueryResponse{
			DataSource:  t.DataSource.String(),
			Table:       t.Table,
			RecordCount: count,
		})
	}

	return result, nil
}
