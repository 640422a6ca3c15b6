package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ErrorInvalidState marks operations rejected by a lifecycle guard,
// e.g. deleting an active revision or the last remaining revision.
var ErrorInvalidState = errors.New("invalid state")

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
