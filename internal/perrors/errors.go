// Package perrors defines the four typed error kinds engines raise, per
// spec §7. Each is a small struct implementing error so callers can
// errors.As to branch, while call sites still read like the teacher's
// fmt.Errorf("Func: ...") convention.
package perrors

import "fmt"

// ConfigurationError signals an illegal engine/product pairing or
// out-of-range parameter (e.g. analytic barrier engine given a
// payment_type inconsistent with inout).
type ConfigurationError struct {
	Op  string
	Msg string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: configuration error: %s", e.Op, e.Msg)
}

// Configuration constructs a *ConfigurationError.
func Configuration(op, format string, args ...any) error {
	return &ConfigurationError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// NumericalError signals non-convergence or a NaN/Inf detected mid-solve.
type NumericalError struct {
	Op  string
	Msg string
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("%s: numerical error: %s", e.Op, e.Msg)
}

// Numerical constructs a *NumericalError.
func Numerical(op, format string, args ...any) error {
	return &NumericalError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// DataMissingError signals a vol surface or rate curve query outside its
// domain with no extrapolation policy.
type DataMissingError struct {
	Op  string
	Msg string
}

func (e *DataMissingError) Error() string {
	return fmt.Sprintf("%s: data missing: %s", e.Op, e.Msg)
}

// DataMissing constructs a *DataMissingError.
func DataMissing(op, format string, args ...any) error {
	return &DataMissingError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// StateError signals an inconsistent product status at pricing time
// (e.g. KnockedOut status reaching an engine that assumes NoTouch).
type StateError struct {
	Op  string
	Msg string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s: state error: %s", e.Op, e.Msg)
}

// State constructs a *StateError.
func State(op, format string, args ...any) error {
	return &StateError{Op: op, Msg: fmt.Sprintf(format, args...)}
}
