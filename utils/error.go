package utils

import (
	"errors"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

var (
	ErrorRecordNotFound = errors.New("record not found")

	// ErrorStaleWrite is returned when a caller supplies a revision number
	// that no longer matches the stored record.
	ErrorStaleWrite = errors.New("record was modified by someone else; reload and retry")
)

// IsDuplicateEntryError reports whether err is a MySQL unique-key violation
// (error 1062). Unique checks run before inserts, but a concurrent insert can
// still land first; callers map this to the same validation message.
func IsDuplicateEntryError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	return false
}
