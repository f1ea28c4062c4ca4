package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortDirection(t *testing.T) {
	for in, want := range map[string]string{
		"":          "DESC",
		"asc":       "ASC",
		"  ASC  ":   "ASC",
		"desc":      "DESC",
		"sideways":  "DESC",
		"ASC; --":   "DESC",
		"asc, name": "DESC",
	} {
		assert.Equal(t, want, sortDirection(in), "%q", in)
	}
}

func TestSortColumns_Order(t *testing.T) {
	tests := []struct {
		name  string
		cols  sortColumns
		field string
		dir   string
		want  string
	}{
		{"allowed column", bookingSort, "slot_date", "asc", "slot_date ASC"},
		{"trimmed column", bookingSort, " client_name ", "", "client_name DESC"},
		{"empty falls back", paymentSort, "", "sideways", "paid_at DESC"},
		{"unknown falls back", bookingSort, "password", "", "created_at DESC"},
		{"case sensitive", enquirySort, "NAME", "asc", "created_at ASC"},
		{"fallback always allowed", paymentSort, "paid_at", "asc", "paid_at ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cols.order(tt.field, tt.dir))
		})
	}
}

func TestSortColumns_TablesNeverAllowID(t *testing.T) {
	// ordering by a random UUID is meaningless to callers
	for name, cols := range map[string]sortColumns{
		"enquiries": enquirySort,
		"posts":     postSort,
		"comments":  commentSort,
		"bookings":  bookingSort,
		"payments":  paymentSort,
	} {
		assert.True(t, cols.allows("created_at"), name)
		assert.False(t, cols.allows("id"), name)
	}
}

func TestSortColumns_RejectInjection(t *testing.T) {
	payloads := []string{
		"created_at; DROP TABLE bookings;--",
		"created_at' OR '1'='1",
		"status UNION SELECT password_hash FROM admin_users",
		"CASE WHEN 1=1 THEN status ELSE client_name END",
		"created_at/**/;DROP TABLE bookings",
		"created_at\n; DROP TABLE bookings",
	}
	for _, p := range payloads {
		assert.Equal(t, "created_at DESC", bookingSort.order(p, p), "%q", p)
	}
}
