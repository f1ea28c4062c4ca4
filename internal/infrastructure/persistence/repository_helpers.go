package persistence

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

// updateWithLock writes every column of model if the row still holds version-1.
// A lost race returns shared.ErrConcurrencyConflict.
func updateWithLock(db *gorm.DB, model any, id uuid.UUID, version int) error {
	result := db.Model(model).
		Select("*").
		Where("id = ? AND version = ?", id, version-1).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// translateNotFound maps gorm's missing-row error to the domain sentinel
func translateNotFound(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

// likeOperator returns a case-insensitive LIKE for the connected dialect.
// SQLite's LIKE already ignores ASCII case.
func likeOperator(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "ILIKE"
	}
	return "LIKE"
}

// likePattern escapes wildcards in term and wraps it for a contains match
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(term)) + "%"
}

// searchClause matches term as a substring of any of columns
func searchClause(db *gorm.DB, term string, columns ...string) (string, []any) {
	op := likeOperator(db)
	pattern := likePattern(term)
	parts := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		parts[i] = c + " " + op + ` ? ESCAPE '\'`
		args[i] = pattern
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// paginate applies the filter's page window
func paginate(query *gorm.DB, f shared.Filter) *gorm.DB {
	return query.Offset(f.Offset()).Limit(f.PageSize)
}
