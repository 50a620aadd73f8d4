package table

import "errors"

var (
	// ErrInvalidPageSize is returned when a page size is zero or negative.
	ErrInvalidPageSize = errors.New("invalid page size: must be positive")

	// ErrEmptyColumnID is returned when a column spec has no id.
	ErrEmptyColumnID = errors.New("column id is empty")

	// ErrDuplicateColumn is returned when two column specs share an id.
	ErrDuplicateColumn = errors.New("duplicate column id")

	// ErrInvalidFilterKind is returned for an unrecognized FilterKind.
	ErrInvalidFilterKind = errors.New("invalid filter kind")

	// ErrUnknownColumn is returned when an operation names a column that is not
	// part of the column set.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNotFilterable is returned when a filter targets a column with NoFilter set.
	ErrNotFilterable = errors.New("column is not filterable")

	// ErrFilterKindMismatch is returned when a filter value's shape does not
	// match the column's FilterKind.
	ErrFilterKindMismatch = errors.New("filter kind mismatch")

	// ErrTooManyRows is returned when a dataset exceeds the table's row limit.
	ErrTooManyRows = errors.New("dataset exceeds row limit")

	// ErrInvalidSelectScope is returned for an unrecognized SelectScope.
	ErrInvalidSelectScope = errors.New("invalid select scope")

	// ErrMissingKeyField is returned when a table is created without a key field.
	ErrMissingKeyField = errors.New("key field is required")
)
