package services

import "errors"

var (
	ErrIntervalKeyMismatch = errors.New("interval does not suit the partition key type")
	ErrExecutionAborted    = errors.New("execution stopped at the first failed statement")
)

type ServiceError struct {
	ErrMsg string
	Err    error
}

func (a *ServiceError) Error() string {
	if a.Err == nil {
		return a.ErrMsg
	}
	return a.ErrMsg + ": " + a.Err.Error()
}

func (a *ServiceError) Unwrap() error {
	return a.Err
}
