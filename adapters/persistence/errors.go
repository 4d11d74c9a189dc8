package persistence

import (
	"errors"
	"strconv"
)

// errSkipWrite aborts a Store.Update without writing and without being reported.
var errSkipWrite = errors.New("skip write")

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
