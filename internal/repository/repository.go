package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/godlywomen/community-api/internal/domain"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("duplicate record")
)

const defaultListLimit = 20

// ListingFilter narrows marketplace listings.
type ListingFilter struct {
	Type    domain.ListingType
	Search  string
	OwnerID string
	Limit   int
	Offset  int
}

// ArticleFilter narrows articles.
type ArticleFilter struct {
	Status   domain.ArticleStatus
	Category string
	Search   string
	AuthorID string
	Limit    int
	Offset   int
}

// PrayerFilter narrows prayers.
type PrayerFilter struct {
	Type       domain.PrayerType
	Search     string
	AuthorID   string
	PublicOnly bool
	NamedOnly  bool
	Limit      int
	Offset     int
}

// SearchPattern lowercases and wraps a search term for LIKE matching.
func SearchPattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

type whereClause struct {
	clauses []string
	args    []any
}

func newWhere() *whereClause {
	return &whereClause{clauses: []string{"1=1"}}
}

// add appends a condition; expr references the new argument as %[1]d.
func (w *whereClause) add(expr string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(expr, len(w.args)))
}

func (w *whereClause) String() string {
	return strings.Join(w.clauses, " AND ")
}

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%w: %s", ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

func expectAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
