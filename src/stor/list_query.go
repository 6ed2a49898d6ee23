package stor

import (
	"fmt"
	"time"

	"rcm/src/types"

	"gorm.io/gorm"
)

// ListQuery carries the parsed list-endpoint filters down to the stors.
type ListQuery struct {
	Page    int
	PerPage int

	// UserID scopes the list to one requester (mobile surface). Zero means
	// no scoping.
	UserID uint

	Statuses     []types.RequestStatus
	CommunityIDs []uint
	BuildingIDs  []uint
	UnitIDs      []uint

	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	MoveDateFrom *time.Time
	MoveDateTo   *time.Time

	Search    string
	SortBy    string
	SortOrder string
}

func (q ListQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.Limit()
}

func (q ListQuery) Limit() int {
	if q.PerPage < 1 {
		return 20
	}
	if q.PerPage > 100 {
		return 100
	}
	return q.PerPage
}

// sortableFields is the allow-list for list sorting; anything else silently
// falls back to created_at.
var sortableFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"status":         true,
	"request_number": true,
	"move_in_date":   true,
	"move_out_date":  true,
}

func (q ListQuery) orderClause(table string, defaultField string) string {
	field := q.SortBy
	if !sortableFields[field] {
		field = defaultField
	}
	order := "desc"
	if q.SortOrder == "asc" {
		order = "asc"
	}
	return fmt.Sprintf("%s.%s %s", table, field, order)
}

// applyRequestFilters narrows a request-table query by the shared filters.
// moveDateColumn is the per-workflow date column for the range filter; empty
// disables it.
func applyRequestFilters(db *gorm.DB, table string, moveDateColumn string, q ListQuery) *gorm.DB {
	db = db.Where(fmt.Sprintf("%s.is_active = ?", table), true)
	if q.UserID > 0 {
		db = db.Where(fmt.Sprintf("%s.user_id = ?", table), q.UserID)
	}
	if len(q.Statuses) > 0 {
		db = db.Where(fmt.Sprintf("%s.status IN (?)", table), q.Statuses)
	}
	if len(q.UnitIDs) > 0 {
		db = db.Where(fmt.Sprintf("%s.unit_id IN (?)", table), q.UnitIDs)
	}
	if len(q.CommunityIDs) > 0 {
		db = db.Where("units.community_id IN (?)", q.CommunityIDs)
	}
	if len(q.BuildingIDs) > 0 {
		db = db.Where("units.building_id IN (?)", q.BuildingIDs)
	}
	if q.CreatedFrom != nil {
		db = db.Where(fmt.Sprintf("%s.created_at >= ?", table), *q.CreatedFrom)
	}
	if q.CreatedTo != nil {
		db = db.Where(fmt.Sprintf("%s.created_at <= ?", table), *q.CreatedTo)
	}
	if moveDateColumn != "" && q.MoveDateFrom != nil {
		db = db.Where(fmt.Sprintf("%s.%s >= ?", table, moveDateColumn), *q.MoveDateFrom)
	}
	if moveDateColumn != "" && q.MoveDateTo != nil {
		db = db.Where(fmt.Sprintf("%s.%s <= ?", table, moveDateColumn), *q.MoveDateTo)
	}
	if q.Search != "" {
		term := "%" + q.Search + "%"
		db = db.Where(
			fmt.Sprintf("%s.request_number LIKE ? OR units.unit_number LIKE ? OR communities.name LIKE ?", table),
			term, term, term,
		)
	}
	return db
}

// joinUnits attaches the unit and community tables so hierarchy filters and
// free-text search can reference them.
func joinUnits(db *gorm.DB, table string) *gorm.DB {
	return db.
		Joins(fmt.Sprintf("JOIN units ON units.id = %s.unit_id", table)).
		Joins("LEFT JOIN communities ON communities.id = units.community_id")
}
