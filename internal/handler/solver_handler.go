package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-math-solver/internal/dto"
	"github.com/noah-isme/gema-math-solver/internal/middleware"
	"github.com/noah-isme/gema-math-solver/internal/models"
	"github.com/noah-isme/gema-math-solver/internal/render"
	"github.com/noah-isme/gema-math-solver/internal/service"
	"github.com/noah-isme/gema-math-solver/internal/utils"
)

const defaultProblemMaxLength = 2000

// SolverHandler exposes the solve operation as JSON and as a bare HTML fragment.
type SolverHandler struct {
	service   service.SolverService
	renderer  *render.Renderer
	validator *validator.Validate
	maxLength int
	logger    zerolog.Logger
}

// NewSolverHandler constructs a solver handler. maxLength bounds the problem text in runes.
func NewSolverHandler(service service.SolverService, renderer *render.Renderer, validate *validator.Validate, maxLength int, logger zerolog.Logger) *SolverHandler {
	if maxLength <= 0 {
		maxLength = defaultProblemMaxLength
	}
	return &SolverHandler{
		service:   service,
		renderer:  renderer,
		validator: validate,
		maxLength: maxLength,
		logger:    logger.With().Str("component", "solver_handler").Logger(),
	}
}

// Register wires the JSON solve route behind the given middlewares.
func (h *SolverHandler) Register(router fiber.Router, middlewares ...fiber.Handler) {
	router.Post("/solve", chain(middlewares, h.solve)...)
}

// RegisterFragment wires the form-encoded route that answers with markup only.
func (h *SolverHandler) RegisterFragment(router fiber.Router, middlewares ...fiber.Handler) {
	router.Post("/solve", chain(middlewares, h.fragment)...)
}

func (h *SolverHandler) solve(c *fiber.Ctx) error {
	var payload dto.SolveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := h.validate(payload); err != nil {
		if details := validationDetails(err); details != nil {
			return utils.SendErrorWithDetails(c, fiber.StatusBadRequest, "invalid payload", details)
		}
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	solution, html := h.run(c, payload)
	return utils.SendSuccess(c, "solution generated", dto.NewSolveResponse(solution, html))
}

func (h *SolverHandler) fragment(c *fiber.Ctx) error {
	payload := dto.SolveRequest{
		Problem: c.FormValue("problem"),
		Trigger: c.FormValue("trigger"),
	}

	if err := h.validate(payload); err != nil {
		invalid := models.Solution{Kind: models.SolutionKindError, ErrorMessage: "problem is too long or the request is malformed"}
		return utils.SendFragment(c, fiber.StatusBadRequest, h.renderer.HTML(invalid))
	}

	_, html := h.run(c, payload)
	return utils.SendFragment(c, fiber.StatusOK, html)
}

func (h *SolverHandler) run(c *fiber.Ctx, payload dto.SolveRequest) (models.Solution, string) {
	solution := h.service.Solve(c.UserContext(), payload.Problem)
	html := h.renderer.HTML(solution)

	logger := middleware.RequestLogger(h.logger, c)
	event := logger.Debug()
	if solution.IsError() {
		event = logger.Info()
	}
	event.
		Str("trigger", payload.Trigger).
		Str("kind", string(solution.Kind)).
		Int("problem_length", len(payload.Problem)).
		Msg("problem solved")

	return solution, html
}

func (h *SolverHandler) validate(payload dto.SolveRequest) error {
	if err := h.validator.Struct(payload); err != nil {
		return err
	}
	return h.validator.Var(payload.Problem, fmt.Sprintf("max=%d", h.maxLength))
}

func validationDetails(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	details := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		field := fieldErr.Field()
		if field == "" {
			field = "problem"
		}
		details[lowerFirst(field)] = fieldErr.Tag()
	}
	return details
}
