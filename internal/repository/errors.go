package repository

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrDuplicate reports a write rejected by a unique index.
var ErrDuplicate = errors.New("duplicate record")

// pgUniqueViolation is the SQLSTATE lib/pq reports for a unique index hit.
const pgUniqueViolation = "23505"

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return true
	}
	return false
}
