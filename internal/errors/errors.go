package gerr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnauthorized = status.Error(codes.Unauthenticated, "unauthorized: missing user identity")

	// ErrDataAccess matches any error produced by DataAccess.
	ErrDataAccess = errors.New("data access failure")
)

// InvalidArgument reports a missing or malformed request parameter.
func InvalidArgument(format string, args ...any) error {
	return status.Errorf(codes.InvalidArgument, format, args...)
}

type dataAccessError struct {
	op  string
	err error
}

// DataAccess wraps a failure of the sales data collaborator. The result
// matches ErrDataAccess with errors.Is and unwraps to the cause.
func DataAccess(op string, err error) error {
	if err == nil {
		return nil
	}
	return &dataAccessError{op: op, err: err}
}

func (e *dataAccessError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrDataAccess, e.op, e.err)
}

func (e *dataAccessError) Unwrap() error { return e.err }

func (e *dataAccessError) Is(target error) bool { return target == ErrDataAccess }

func (e *dataAccessError) GRPCStatus() *status.Status {
	return status.New(codes.Unavailable, e.Error())
}
