package service

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-math-solver/internal/cache"
	"github.com/noah-isme/gema-math-solver/internal/evaluator"
	"github.com/noah-isme/gema-math-solver/internal/models"
)

type evaluatorStub struct {
	calls []string
	value evaluator.Value
	err   error
}

func (e *evaluatorStub) Evaluate(_ context.Context, expression string) (evaluator.Value, error) {
	e.calls = append(e.calls, expression)
	return e.value, e.err
}

type slowEvaluator struct{}

func (slowEvaluator) Evaluate(ctx context.Context, _ string) (evaluator.Value, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newSolver(eval evaluator.Evaluator) SolverService {
	return NewSolverService(eval, SolverOptions{}, testLogger())
}

func TestSolveEmptyInputPrompts(t *testing.T) {
	stub := &evaluatorStub{}
	svc := newSolver(stub)

	for _, input := range []string{"", "   ", "\t\n "} {
		solution := svc.Solve(context.Background(), input)
		require.Equal(t, models.SolutionKindPrompt, solution.Kind)
	}
	require.Empty(t, stub.calls)
}

func TestSolveArithmetic(t *testing.T) {
	svc := newSolver(evaluator.NewGovaluate(testLogger()))

	solution := svc.Solve(context.Background(), "  2 + 2  ")
	require.Equal(t, models.SolutionKindAnswer, solution.Kind)
	require.Equal(t, "2 + 2", solution.Problem)
	require.Equal(t, "4", solution.Result)
	require.Empty(t, solution.Steps)
}

func TestSolvePseudoDerivation(t *testing.T) {
	svc := newSolver(evaluator.NewGovaluate(testLogger()))

	solution := svc.Solve(context.Background(), "2x + 5 = 11")
	require.Equal(t, models.SolutionKindPseudoDerivation, solution.Kind)
	require.Equal(t, []models.Step{
		{Title: "Start with the equation:", Detail: "2x + 5 = 11"},
		{Title: "Isolate the variable term by subtracting the constant from both sides.", Detail: "2x + 5 - 11 = 11 - 11"},
		{Title: "Simplify the equation.", Detail: "2x = 6"},
		{Title: "Divide to find the value of 'x'.", Detail: "x = 3"},
	}, solution.Steps)
}

func TestSolvePseudoDerivationIgnoresActualCoefficients(t *testing.T) {
	svc := newSolver(evaluator.NewGovaluate(testLogger()))

	solution := svc.Solve(context.Background(), "3x + 7 = 13")
	require.Equal(t, models.SolutionKindPseudoDerivation, solution.Kind)
	require.Len(t, solution.Steps, 4)
	require.Equal(t, "3x + 7 - 13 = 13 - 13", solution.Steps[1].Detail)
	require.Equal(t, "3x = 8", solution.Steps[2].Detail)
	require.Equal(t, "x = 4", solution.Steps[3].Detail)
}

func TestSolveEvaluatesOnlyRightHandSide(t *testing.T) {
	stub := &evaluatorStub{value: float64(11)}
	svc := newSolver(stub)

	solution := svc.Solve(context.Background(), "2x + 5 =   11 ")
	require.Equal(t, models.SolutionKindPseudoDerivation, solution.Kind)
	require.Equal(t, []string{"11"}, stub.calls)
}

func TestSolveMultipleEqualsFallsBackToWholeExpression(t *testing.T) {
	stub := &evaluatorStub{err: errors.New("Invalid token: '='")}
	svc := newSolver(stub)

	solution := svc.Solve(context.Background(), "a = b = c")
	require.Equal(t, []string{"a = b = c"}, stub.calls)
	require.Equal(t, models.SolutionKindError, solution.Kind)
	require.Equal(t, "Invalid token: '='", solution.ErrorMessage)
}

func TestSolveInvalidInputReportsEvaluatorMessage(t *testing.T) {
	eval := evaluator.NewGovaluate(testLogger())
	svc := newSolver(eval)

	for _, input := range []string{"2 + ", ")(*"} {
		_, evalErr := eval.Evaluate(context.Background(), input)
		require.Error(t, evalErr)

		solution := svc.Solve(context.Background(), input)
		require.Equal(t, models.SolutionKindError, solution.Kind, input)
		require.Equal(t, evalErr.Error(), solution.ErrorMessage, input)
		require.Empty(t, solution.Result)
		require.Empty(t, solution.Steps)
	}
}

func TestSolveNonNumericRightHandSide(t *testing.T) {
	svc := newSolver(&evaluatorStub{value: true})

	solution := svc.Solve(context.Background(), "x = 1 < 2")
	require.Equal(t, models.SolutionKindError, solution.Kind)
	require.Contains(t, solution.ErrorMessage, evaluator.ErrNonNumeric.Error())
}

func TestSolveTimeout(t *testing.T) {
	svc := NewSolverService(slowEvaluator{}, SolverOptions{EvalTimeout: 10 * time.Millisecond}, testLogger())

	solution := svc.Solve(context.Background(), "1 + 1")
	require.Equal(t, models.SolutionKindError, solution.Kind)
	require.Equal(t, "evaluation timed out", solution.ErrorMessage)
}

func TestSolveUsesCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	stub := &evaluatorStub{value: float64(4)}
	svc := NewSolverService(stub, SolverOptions{Cache: cache.NewRedisSolutionCache(redisClient, time.Minute)}, testLogger())

	first := svc.Solve(context.Background(), "2 + 2")
	second := svc.Solve(context.Background(), "2 + 2")
	require.Equal(t, first, second)
	require.Len(t, stub.calls, 1)
}

func TestSolveDoesNotCacheErrors(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	stub := &evaluatorStub{err: errors.New("boom")}
	svc := NewSolverService(stub, SolverOptions{Cache: cache.NewRedisSolutionCache(redisClient, time.Minute)}, testLogger())

	svc.Solve(context.Background(), "2 +")
	svc.Solve(context.Background(), "2 +")
	require.Len(t, stub.calls, 2)
}

func TestSplitEquation(t *testing.T) {
	left, right, ok := splitEquation("2x + 5 = 11")
	require.True(t, ok)
	require.Equal(t, "2x + 5", left)
	require.Equal(t, "11", right)

	_, _, ok = splitEquation("2 + 2")
	require.False(t, ok)

	_, _, ok = splitEquation("a = b = c")
	require.False(t, ok)
}

func TestSimplifyLeft(t *testing.T) {
	require.Equal(t, "2x", simplifyLeft("2x + 5"))
	require.Equal(t, "x", simplifyLeft("12 x + 5"))
	require.Equal(t, "y - 3", simplifyLeft("y - 3"))
}
