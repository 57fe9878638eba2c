package sqlu

import (
	"errors"
	"fmt"
)

/*
Error codes. You probably shouldn't use this directly; instead, use the `Err`
variables with `errors.Is`.
*/
type ErrCode string

const (
	ErrCodeUnknown      ErrCode = ""
	ErrCodeUnsupported  ErrCode = "ErrUnsupported"
	ErrCodeInvalidInput ErrCode = "ErrInvalidInput"
	ErrCodeInvalidOpt   ErrCode = "ErrInvalidOpt"
)

/*
Use blank error variables to detect error types:

	if errors.Is(err, sqlu.ErrUnsupported) {
		// The construct can't be rendered in this dialect.
	}

Errors returned by Sqlu can't be compared via `==` because they include
additional details about the circumstances. When compared by `errors.Is`, they
compare `.Cause` and fall back on `.Code`.
*/
var (
	ErrUnsupported  Err = Err{Code: ErrCodeUnsupported, Cause: errors.New(`construct is not supported by dialect`)}
	ErrInvalidInput Err = Err{Code: ErrCodeInvalidInput, Cause: errors.New(`invalid input`)}
	ErrInvalidOpt   Err = Err{Code: ErrCodeInvalidOpt, Cause: errors.New(`invalid explain option`)}
)

// Describes a Sqlu error, such as a compilation or parsing failure.
type Err struct {
	Code  ErrCode
	While string
	Cause error
}

// Implement `error`.
func (self Err) Error() string {
	if self == (Err{}) {
		return ""
	}
	msg := `[sqlu] error`
	if self.Code != ErrCodeUnknown {
		msg += fmt.Sprintf(` %s`, self.Code)
	}
	if self.While != "" {
		msg += fmt.Sprintf(` while %v`, self.While)
	}
	if self.Cause != nil {
		msg += `: ` + self.Cause.Error()
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self Err) Is(other error) bool {
	if self.Cause != nil && errors.Is(self.Cause, other) {
		return true
	}
	err, ok := other.(Err)
	return ok && err.Code == self.Code
}

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error {
	return self.Cause
}

func (self Err) while(format string, args ...any) Err {
	self.While = fmt.Sprintf(format, args...)
	return self
}

func (self Err) because(cause error) Err {
	self.Cause = cause
	return self
}

func (self Err) becausef(format string, args ...any) Err {
	return self.because(fmt.Errorf(format, args...))
}

func errUnsupported(dialect Dialect, construct string) Err {
	return ErrUnsupported.while(`compiling %v for dialect %q`, construct, dialect)
}
