package types

import (
	"fmt"
	"runtime"
)

const stackBufSize = 4096

// PanicError is returned in place of a panic raised by user code running on
// a worker. Stack holds the trace of the panicking goroutine.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker panic: %v\nstack trace:\n%s", e.Value, e.Stack)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Recover runs fn and converts a panic into a *PanicError.
func Recover(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, stackBufSize)
			n := runtime.Stack(buf, false)
			err = &PanicError{Value: r, Stack: buf[:n]}
		}
	}()
	return fn()
}

// RecoverValue is Recover for functions producing a value.
func RecoverValue[R any](fn func() (R, error)) (result R, err error) {
	err = Recover(func() error {
		var inner error
		result, inner = fn()
		return inner
	})
	return result, err
}
