package evaluator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type govaluateEvaluator struct {
	functions  map[string]govaluate.ExpressionFunction
	parameters map[string]interface{}
	logger     zerolog.Logger
	tracer     trace.Tracer
}

var errEmptyExpression = errors.New("unexpected end of expression")

type outcome struct {
	value Value
	err   error
}

// NewGovaluate builds an Evaluator backed by github.com/Knetic/govaluate with
// the usual math constants and functions registered.
func NewGovaluate(logger zerolog.Logger) Evaluator {
	return &govaluateEvaluator{
		functions: builtinFunctions(),
		parameters: map[string]interface{}{
			"pi": math.Pi,
			"PI": math.Pi,
			"e":  math.E,
			"E":  math.E,
		},
		logger: logger.With().Str("component", "govaluate_evaluator").Logger(),
		tracer: otel.Tracer("github.com/noah-isme/gema-math-solver/internal/evaluator"),
	}
}

func (g *govaluateEvaluator) Evaluate(ctx context.Context, expression string) (Value, error) {
	ctx, span := g.tracer.Start(ctx, "evaluator.evaluate", trace.WithAttributes(
		attribute.Int("expression.length", len(expression)),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: newEvaluationError(expression, fmt.Errorf("%v", r))}
			}
		}()
		value, err := g.evaluate(expression)
		done <- outcome{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		span.SetStatus(codes.Error, "evaluation cancelled")
		return nil, ctx.Err()
	case res := <-done:
		if res.err != nil {
			span.RecordError(res.err)
			span.SetStatus(codes.Error, "evaluation failed")
			g.logger.Debug().Err(res.err).Msg("expression rejected")
			return nil, res.err
		}
		return res.value, nil
	}
}

func (g *govaluateEvaluator) evaluate(expression string) (Value, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, newEvaluationError(expression, errEmptyExpression)
	}

	expr, err := govaluate.NewEvaluableExpressionWithFunctions(expression, g.functions)
	if err != nil {
		return nil, newEvaluationError(expression, err)
	}

	result, err := expr.Evaluate(g.parameters)
	if err != nil {
		return nil, newEvaluationError(expression, err)
	}
	return result, nil
}

func builtinFunctions() map[string]govaluate.ExpressionFunction {
	return map[string]govaluate.ExpressionFunction{
		"sqrt":  unary("sqrt", math.Sqrt),
		"abs":   unary("abs", math.Abs),
		"sin":   unary("sin", math.Sin),
		"cos":   unary("cos", math.Cos),
		"tan":   unary("tan", math.Tan),
		"asin":  unary("asin", math.Asin),
		"acos":  unary("acos", math.Acos),
		"atan":  unary("atan", math.Atan),
		"log":   unary("log", math.Log),
		"ln":    unary("ln", math.Log),
		"log10": unary("log10", math.Log10),
		"exp":   unary("exp", math.Exp),
		"floor": unary("floor", math.Floor),
		"ceil":  unary("ceil", math.Ceil),
		"round": unary("round", math.Round),
		"pow":   binary("pow", math.Pow),
		"min":   variadic("min", math.Min),
		"max":   variadic("max", math.Max),
	}
}

func unary(name string, fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		values, err := numericArgs(name, args)
		if err != nil {
			return nil, err
		}
		if len(values) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(values))
		}
		return fn(values[0]), nil
	}
}

func binary(name string, fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		values, err := numericArgs(name, args)
		if err != nil {
			return nil, err
		}
		if len(values) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(values))
		}
		return fn(values[0], values[1]), nil
	}
}

func variadic(name string, fn func(float64, float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		values, err := numericArgs(name, args)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%s expects at least 1 argument", name)
		}
		acc := values[0]
		for _, v := range values[1:] {
			acc = fn(acc, v)
		}
		return acc, nil
	}
}

func numericArgs(name string, args []interface{}) ([]float64, error) {
	values := make([]float64, 0, len(args))
	for _, arg := range args {
		v, err := AsNumber(arg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		values = append(values, v)
	}
	return values, nil
}
