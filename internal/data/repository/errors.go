package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Constraint names declared in the migrations.
const (
	ConstraintReviewAuthorTitle = "reviews_author_title_key"
	ConstraintUserUsername      = "users_username_key"
	ConstraintUserEmail         = "users_email_key"
	ConstraintGenreSlug         = "genres_slug_key"
	ConstraintCategorySlug      = "categories_slug_key"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate key")
	ErrForeignKey = errors.New("referenced record does not exist")
)

// ConstraintError carries the name of the violated constraint.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Err, e.Constraint)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// IsConstraint reports whether err is a violation of the named constraint.
func IsConstraint(err error, constraint string) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Constraint == constraint
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return &ConstraintError{Constraint: pgErr.ConstraintName, Err: ErrDuplicate}
	case codeForeignKeyViolation:
		return &ConstraintError{Constraint: pgErr.ConstraintName, Err: ErrForeignKey}
	}
	return err
}
