package dto

import "github.com/noah-isme/gema-math-solver/internal/models"

// SolveRequest is the payload sent by the page when the user asks for a solution.
type SolveRequest struct {
	Problem string `json:"problem" form:"problem"`
	Trigger string `json:"trigger" form:"trigger" validate:"omitempty,oneof=click enter"`
}

// SolveResponse carries the structured solution together with its rendered fragment.
type SolveResponse struct {
	Kind    models.SolutionKind `json:"kind"`
	Problem string              `json:"problem,omitempty"`
	Result  string              `json:"result,omitempty"`
	Steps   []models.Step       `json:"steps,omitempty"`
	Error   string              `json:"error,omitempty"`
	HTML    string              `json:"html"`
}

// NewSolveResponse converts a solution and its markup into the response DTO.
func NewSolveResponse(solution models.Solution, html string) SolveResponse {
	return SolveResponse{
		Kind:    solution.Kind,
		Problem: solution.Problem,
		Result:  solution.Result,
		Steps:   solution.Steps,
		Error:   solution.ErrorMessage,
		HTML:    html,
	}
}
