package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Postgres error classes the registry schema can actually raise: the
// devices.device_token unique index and the device_token /
// notification_id / subscription_id foreign keys.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// ErrorDump is the loggable view of an error chain. Constraint violations
// from the postgres driver are classified so an operator can tell a
// duplicate token registration from a dangling history row without
// decoding SQLSTATE codes.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGViolation  string `json:"pg_violation,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
}

// Dump flattens err for structured logging.
func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	// Both postgres drivers are in play: pgx under gorm, lib/pq for the
	// goose connection.
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		d.annotatePG(pgxErr.Code, pgxErr.ConstraintName, pgxErr.Detail)
		return d
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		d.annotatePG(string(pqErr.Code), pqErr.Constraint, pqErr.Detail)
	}
	return d
}

func (d *ErrorDump) annotatePG(code, constraint, detail string) {
	d.PGCode = code
	d.PGConstraint = constraint
	d.PGDetail = detail
	switch code {
	case pgUniqueViolation:
		d.PGViolation = "unique"
	case pgForeignKeyViolation:
		d.PGViolation = "foreign_key"
	case pgNotNullViolation:
		d.PGViolation = "not_null"
	}
}
