package repository

import "errors"

// ErrNotFound is a repository-specific sentinel error. It is returned when a
// query targeting a single entity (e.g. GetSession) finds no rows.
//
// The service layer checks for this error and translates it into a
// domain-level error, keeping the business logic decoupled from the data
// access implementation and from `sql.ErrNoRows`.
var ErrNotFound = errors.New("repository: not found")
