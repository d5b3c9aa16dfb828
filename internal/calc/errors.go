// Package calc implements the material quantity engine: per-height coefficient
// lookup, divisor rules, and order-level aggregation. Everything here is pure
// computation over decimal values — repositories feed it rows, services persist
// what it returns.
package calc

import "errors"

// Kind classifies a calculation failure so handlers can map it to an HTTP status
// and the tramo workflow can decide whether any write may proceed.
type Kind int

const (
	// KindConfiguracion — the product has no unit table, or the table is unknown.
	KindConfiguracion Kind = iota
	// KindNoEncontrado — no unit row exists at the exact requested height,
	// or the referenced orden/tramo does not exist.
	KindNoEncontrado
	// KindValidacion — non-positive altura/largo or malformed identifiers.
	KindValidacion
	// KindResultadoVacio — every computed material rounded to zero or below.
	KindResultadoVacio
	// KindPersistencia — the underlying store rejected a write.
	KindPersistencia
)

// Error is the typed failure returned by the calculator and the tramo workflow.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// NewError builds a typed calculation error.
func NewError(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

// WrapError attaches an underlying cause (usually a store error).
func WrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// IsKind reports whether err is a calc.Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}
