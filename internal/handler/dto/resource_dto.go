package dto

import (
	"encoding/json"

	"github.com/ovalstats/cricket-data-api/internal/domain/resource"
)

// NewResourceRowResponse flattens a stored record into one response row: the
// projected columns at the top level next to the identifier and version
// bookkeeping, with the verbatim upstream payload under raw_data.
func NewResourceRowResponse(rec *resource.Record) map[string]any {
	row := make(map[string]any)
	if len(rec.Fields) > 0 {
		// Projection failures never reach storage, so this only sees objects.
		_ = json.Unmarshal(rec.Fields, &row)
	}
	row["id"] = rec.RecordID
	row["raw_data"] = rec.Payload
	row["version"] = rec.Version
	row["updated_at"] = rec.UpdatedAt
	return row
}

type ResourceListResponse struct {
	Data []map[string]any `json:"data"`
	Meta ResourceListMeta `json:"meta"`
}

type ResourceListMeta struct {
	Count int `json:"count"`
}

func NewResourceListResponse(records []*resource.Record) *ResourceListResponse {
	rows := make([]map[string]any, len(records))
	for i, rec := range records {
		rows[i] = NewResourceRowResponse(rec)
	}
	return &ResourceListResponse{
		Data: rows,
		Meta: ResourceListMeta{Count: len(rows)},
	}
}
