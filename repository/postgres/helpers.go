package postgres

import (
	"time"
)

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

// nullLimit maps a non-positive limit to NULL, which Postgres reads as no limit.
func nullLimit(limit int) interface{} {
	if limit <= 0 {
		return nil
	}
	if limit > 100 {
		return 100
	}
	return limit
}

type scanner interface {
	Scan(dest ...interface{}) error
}
