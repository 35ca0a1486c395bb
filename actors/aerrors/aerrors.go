// Package aerrors provides error values carrying an actor exit code. Actor
// code raises them (via Runtime.Abortf) and the machine converts them into
// receipt exit codes; fatal errors instead abort the whole machine call.
package aerrors

import (
	"fmt"

	"github.com/filecoin-project/go-state-types/exitcode"
)

type ActorError interface {
	error
	IsFatal() bool
	RetCode() exitcode.ExitCode
}

type actorError struct {
	fatal   bool
	retCode exitcode.ExitCode

	msg string
	err error
}

func (e *actorError) IsFatal() bool {
	return e.fatal
}

func (e *actorError) RetCode() exitcode.ExitCode {
	return e.retCode
}

func (e *actorError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.msg, e.err)
	}
	return e.msg
}

func (e *actorError) Unwrap() error {
	return e.err
}

// New creates a non-fatal error with the given exit code. The code must be
// non-zero: a zero code is success, not an error.
func New(retCode exitcode.ExitCode, msg string) ActorError {
	if retCode == exitcode.Ok {
		return &actorError{
			fatal:   true,
			retCode: exitcode.SysErrorIllegalActor,
			msg:     "tried to create an error with exit code 0",
		}
	}
	return &actorError{retCode: retCode, msg: msg}
}

func Newf(retCode exitcode.ExitCode, format string, args ...interface{}) ActorError {
	return New(retCode, fmt.Sprintf(format, args...))
}

// Fatalf creates a fatal error, signalling a defect in the machine or in
// native actor code rather than an ordinary failed call.
func Fatalf(format string, args ...interface{}) ActorError {
	return &actorError{
		fatal: true,
		msg:   fmt.Sprintf(format, args...),
	}
}

// Wrap extends the chain of errors, preserving the exit code and fatality of
// the wrapped error.
func Wrap(err ActorError, msg string) ActorError {
	if err == nil {
		return nil
	}
	return &actorError{
		fatal:   err.IsFatal(),
		retCode: err.RetCode(),
		msg:     msg,
		err:     err,
	}
}

// Absorb turns a generic error into an ActorError with the given exit code.
// Absorbing an ActorError is a programmer error and yields a fatal error.
func Absorb(err error, retCode exitcode.ExitCode, msg string) ActorError {
	if err == nil {
		return nil
	}
	if aerr, ok := err.(ActorError); ok {
		return &actorError{
			fatal:   true,
			retCode: retCode,
			msg:     "absorbed an ActorError: " + msg,
			err:     aerr,
		}
	}
	return &actorError{
		retCode: retCode,
		msg:     msg,
		err:     err,
	}
}
