package persistence

import "strings"

// sortColumns is the ORDER BY allowlist for one table. Anything outside it,
// including every injection attempt, falls back to the default column.
type sortColumns struct {
	allowed  map[string]struct{}
	fallback string
}

func newSortColumns(fallback string, columns ...string) sortColumns {
	s := sortColumns{allowed: make(map[string]struct{}, len(columns)+1), fallback: fallback}
	s.allowed[fallback] = struct{}{}
	for _, c := range columns {
		s.allowed[c] = struct{}{}
	}
	return s
}

func (s sortColumns) allows(column string) bool {
	_, ok := s.allowed[column]
	return ok
}

// column returns field if allowed, else the fallback. Matching is exact.
func (s sortColumns) column(field string) string {
	if field = strings.TrimSpace(field); s.allows(field) {
		return field
	}
	return s.fallback
}

// order renders "<column> ASC|DESC"
func (s sortColumns) order(field, dir string) string {
	return s.column(field) + " " + sortDirection(dir)
}

// sortDirection is ASC only when asked for, DESC otherwise
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

var (
	enquirySort = newSortColumns("created_at", "updated_at", "name", "email", "subject", "status")
	postSort    = newSortColumns("created_at", "updated_at", "published_at", "title", "view_count", "status")
	commentSort = newSortColumns("created_at", "author_name", "status")
	bookingSort = newSortColumns("created_at", "updated_at", "slot_date", "client_name", "status", "paid_at", "expires_at")
	paymentSort = newSortColumns("paid_at", "created_at", "amount")
)
