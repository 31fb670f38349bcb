package evaluator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrNonNumeric is returned when a numeric value was required but the expression produced something else.
var ErrNonNumeric = errors.New("expression did not evaluate to a number")

// Value is the raw result produced by an evaluator (float64, bool or string).
type Value interface{}

// Evaluator computes the value of a free-text math expression.
type Evaluator interface {
	Evaluate(ctx context.Context, expression string) (Value, error)
}

// EvaluationError carries the evaluator's human readable failure description.
type EvaluationError struct {
	Expression string
	Message    string
	Err        error
}

func (e *EvaluationError) Error() string {
	return e.Message
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func newEvaluationError(expression string, err error) *EvaluationError {
	return &EvaluationError{
		Expression: expression,
		Message:    err.Error(),
		Err:        err,
	}
}

// AsNumber converts an evaluation result into a float64.
func AsNumber(value Value) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: got %T", ErrNonNumeric, value)
	}
}

// FormatValue renders a value the way a browser prints a number: integers
// without a fraction, shortest round-trip digits otherwise.
func FormatValue(value Value) string {
	switch v := value.(type) {
	case nil:
		return "undefined"
	case float64:
		return FormatNumber(v)
	case float32:
		return FormatNumber(float64(v))
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatNumber formats a float64 using the same conventions as FormatValue.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
