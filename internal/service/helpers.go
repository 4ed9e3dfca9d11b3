package service

import (
	"errors"

	appErrors "github.com/vaguthu/election-console/pkg/errors"
)

// wrapStore normalises repository failures. Errors already classified by the
// store adapter (missing table, missing column, authorization denial) pass
// through untouched so their remediation guidance reaches the client;
// anything else becomes an internal error with the given message.
func wrapStore(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
