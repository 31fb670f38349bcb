package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/gema-math-solver/internal/cache"
	"github.com/noah-isme/gema-math-solver/internal/evaluator"
	"github.com/noah-isme/gema-math-solver/internal/models"
	"github.com/noah-isme/gema-math-solver/internal/observability"
)

const defaultEvalTimeout = 2 * time.Second

// SolverService turns raw problem text into a structured solution.
type SolverService interface {
	Solve(ctx context.Context, problem string) models.Solution
}

// SolverOptions tunes optional solver behaviour.
type SolverOptions struct {
	Cache       cache.SolutionCache
	EvalTimeout time.Duration
}

type solverService struct {
	evaluator evaluator.Evaluator
	cache     cache.SolutionCache
	timeout   time.Duration
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewSolverService constructs the solver around an injected evaluator.
func NewSolverService(eval evaluator.Evaluator, opts SolverOptions, logger zerolog.Logger) SolverService {
	timeout := opts.EvalTimeout
	if timeout <= 0 {
		timeout = defaultEvalTimeout
	}

	return &solverService{
		evaluator: eval,
		cache:     opts.Cache,
		timeout:   timeout,
		logger:    logger.With().Str("component", "solver_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/gema-math-solver/internal/service/solver"),
	}
}

func (s *solverService) Solve(ctx context.Context, problem string) models.Solution {
	ctx, span := s.tracer.Start(ctx, "solver.solve")
	defer span.End()

	problem = strings.TrimSpace(problem)
	if problem == "" {
		solution := models.Solution{Kind: models.SolutionKindPrompt}
		s.record(span, solution)
		return solution
	}

	if cached, ok := s.lookup(ctx, problem); ok {
		span.SetAttributes(attribute.Bool("solver.cache_hit", true))
		s.record(span, cached)
		return cached
	}

	evalCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	solution := s.solve(evalCtx, problem)
	s.record(span, solution)

	if !solution.IsError() {
		s.store(ctx, problem, solution)
	}

	return solution
}

func (s *solverService) solve(ctx context.Context, problem string) models.Solution {
	if left, right, ok := splitEquation(problem); ok {
		value, err := s.evaluator.Evaluate(ctx, right)
		if err != nil {
			return s.failure(problem, err)
		}
		number, err := evaluator.AsNumber(value)
		if err != nil {
			return s.failure(problem, err)
		}
		return derivationSolution(problem, left, number)
	}

	value, err := s.evaluator.Evaluate(ctx, problem)
	if err != nil {
		return s.failure(problem, err)
	}
	return answerSolution(problem, value)
}

func (s *solverService) failure(problem string, err error) models.Solution {
	message := err.Error()

	var evalErr *evaluator.EvaluationError
	switch {
	case errors.As(err, &evalErr):
		message = evalErr.Message
	case errors.Is(err, context.DeadlineExceeded):
		message = "evaluation timed out"
		s.logger.Warn().Int("problem_length", len(problem)).Msg("evaluation timed out")
	case errors.Is(err, context.Canceled):
		message = "evaluation cancelled"
	}

	return errorSolution(problem, message)
}

func (s *solverService) lookup(ctx context.Context, problem string) (models.Solution, bool) {
	if s.cache == nil {
		return models.Solution{}, false
	}

	cached, ok, err := s.cache.Get(ctx, problem)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read solution cache")
		return models.Solution{}, false
	}
	if !ok {
		observability.SolutionCache().WithLabelValues("miss").Inc()
		return models.Solution{}, false
	}

	observability.SolutionCache().WithLabelValues("hit").Inc()
	return cached, true
}

func (s *solverService) store(ctx context.Context, problem string, solution models.Solution) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, problem, solution); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store solution cache")
	}
}

func (s *solverService) record(span trace.Span, solution models.Solution) {
	span.SetAttributes(attribute.String("solver.kind", string(solution.Kind)))
	observability.Solutions().WithLabelValues(string(solution.Kind)).Inc()
}
