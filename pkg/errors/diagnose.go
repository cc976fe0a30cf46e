package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PGDetail is the subset of a Postgres error worth logging.
type PGDetail struct {
	Code       string `json:"code"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Message    string `json:"message,omitempty"`
}

// Diagnosis flattens an error chain for structured logs.
type Diagnosis struct {
	Message  string    `json:"message"`
	Code     Code      `json:"code,omitempty"`
	Chain    []string  `json:"chain,omitempty"`
	Postgres *PGDetail `json:"postgres,omitempty"`
}

// Diagnose walks err's chain. Postgres details are read from either driver:
// pgx surfaces through gorm, lib/pq through the migration runner.
func Diagnose(err error) Diagnosis {
	if err == nil {
		return Diagnosis{}
	}
	d := Diagnosis{Message: err.Error()}
	if typed := As(err); typed != nil {
		d.Code = typed.Code()
	}
	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}
	d.Postgres = postgresDetail(err)
	return d
}

func postgresDetail(err error) *PGDetail {
	var pgxErr *pgconn.PgError
	if stdErrors.As(err, &pgxErr) {
		return &PGDetail{
			Code:       pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}
	}
	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return &PGDetail{
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}
	}
	return nil
}

// Classify picks a code for an untyped error from its SQLSTATE. Typed errors
// keep their own code and anything unrecognised is CodeInternal.
func Classify(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	pg := postgresDetail(err)
	if pg == nil {
		return CodeInternal
	}
	switch {
	case pg.Code == "23505":
		return CodeConflict
	case pg.Code == "23503", pg.Code == "23514", pg.Code == "22003":
		return CodeValidation
	case pg.Code == "40001", pg.Code == "40P01", pg.Code == "55P03":
		return CodeDependency
	case strings.HasPrefix(pg.Code, "08"), strings.HasPrefix(pg.Code, "57"):
		return CodeDependency
	}
	return CodeInternal
}
