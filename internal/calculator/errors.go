package calculator

import "github.com/pkg/errors"

var (
	// ErrInvalidInput reports a malformed argument: a non-positive or
	// non-finite price, a window below 1 or a non-positive periods-per-year.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInsufficientData reports a series too short to yield any return.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDivisionByZero reports zero volatility, which leaves the
	// risk-adjusted return undefined.
	ErrDivisionByZero = errors.New("division by zero")
)

// Explain turns a calculator error into a short message for display.
func Explain(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInsufficientData):
		return "insufficient data: at least two prices are needed"
	case errors.Is(err, ErrDivisionByZero):
		return "undefined ratio: volatility is zero"
	case errors.Is(err, ErrInvalidInput):
		return "invalid input: " + errors.Cause(err).Error()
	default:
		return err.Error()
	}
}
