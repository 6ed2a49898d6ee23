package services

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"rcm/src/apperr"
	"rcm/src/stor"
	"rcm/src/types"
)

// Actor is the authenticated caller a service method acts on behalf of,
// resolved by the auth middleware.
type Actor struct {
	ID      uint
	Role    types.Role
	IsAdmin bool
}

func (a Actor) ActorType() types.ActorType {
	return types.ActorTypeForRole(a.Role)
}

// Outcome is the visible result of a best-effort side effect (notification,
// permit generation, reminder scheduling). Side effects never fail the
// transition that triggered them; callers log the outcome instead.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// StoredFile is what a FileStore answers after a successful upload.
type StoredFile struct {
	FileName string
	FileURL  string
}

type FileStore interface {
	Upload(ctx context.Context, name string, body io.Reader, path string, userID uint) (*StoredFile, error)
}

type Notifier interface {
	Notify(userID uint, templateSlug string, title string, data types.JSONB) Outcome
}

// Permits generates the move-in permit artifact for an approved request and
// answers its URL. Best-effort only.
type Permits interface {
	Generate(requestNumber string, userID uint) (string, Outcome)
}

// Reminders schedules one-time follow-up jobs tied to a request.
type Reminders interface {
	ScheduleApprovalLapse(workflow types.Workflow, requestID uint, runsAt time.Time) Outcome
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(types.DATE_PARSE_FORMAT, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// snapshot serializes the triggering input into the JSONB payload stored on
// the log row.
func snapshot(v any) types.JSONB {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m types.JSONB
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func parseIDList(csv string) []uint {
	if csv == "" {
		return nil
	}
	var ids []uint
	for _, part := range strings.Split(csv, ",") {
		atoi, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || atoi <= 0 {
			continue
		}
		ids = append(ids, uint(atoi))
	}
	return ids
}

func parseStatusList(csv string) []types.RequestStatus {
	if csv == "" {
		return nil
	}
	var statuses []types.RequestStatus
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			statuses = append(statuses, types.RequestStatus(part))
		}
	}
	return statuses
}

// listQueryFrom translates the raw query params into the stor filter set.
// Security-role callers only ever see approved and closed requests, whatever
// they asked for; ownOnly scopes the mobile surface to the caller's rows.
func listQueryFrom(actor Actor, q types.RequestListQuery, ownOnly bool) stor.ListQuery {
	lq := stor.ListQuery{
		Page:         q.Page,
		PerPage:      q.PerPage,
		Statuses:     parseStatusList(q.Status),
		CommunityIDs: parseIDList(q.CommunityIDs),
		BuildingIDs:  parseIDList(q.BuildingIDs),
		UnitIDs:      parseIDList(q.UnitIDs),
		Search:       strings.TrimSpace(q.Search),
		SortBy:       q.SortBy,
		SortOrder:    q.SortOrder,
	}
	lq.CreatedFrom, _ = parseDate(q.CreatedFrom)
	lq.CreatedTo, _ = parseDate(q.CreatedTo)
	lq.MoveDateFrom, _ = parseDate(q.MoveDateFrom)
	lq.MoveDateTo, _ = parseDate(q.MoveDateTo)
	if actor.Role == types.ROLE_SECURITY {
		lq.Statuses = []types.RequestStatus{types.REQUEST_APPROVED, types.REQUEST_CLOSED}
	}
	if ownOnly {
		lq.UserID = actor.ID
	}
	return lq
}

func paginationFor(q stor.ListQuery, total int64) *types.Pagination {
	page := q.Page
	if page < 1 {
		page = 1
	}
	perPage := q.Limit()
	pages := total / int64(perPage)
	if total%int64(perPage) > 0 {
		pages++
	}
	return &types.Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
	}
}

func notFoundErr(what string) error {
	return apperr.NotFound(what + " not found")
}
