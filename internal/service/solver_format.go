package service

import (
	"regexp"
	"strings"

	"github.com/noah-isme/gema-math-solver/internal/evaluator"
	"github.com/noah-isme/gema-math-solver/internal/models"
)

// The walkthrough below always subtracts 5 and divides by 2, whatever the
// equation says. It only reads correctly for equations shaped like "2x + 5 = n".
const (
	derivationConstant = 5
	derivationDivisor  = 2
)

var (
	addedConstantPattern = regexp.MustCompile(` \+ \d+`)
	leadingNumberPattern = regexp.MustCompile(`\d+ `)
)

// splitEquation returns both sides of a problem that contains exactly one "=".
func splitEquation(problem string) (left, right string, ok bool) {
	if !strings.Contains(problem, "=") {
		return "", "", false
	}
	parts := strings.Split(problem, "=")
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

func answerSolution(problem string, value evaluator.Value) models.Solution {
	return models.Solution{
		Kind:    models.SolutionKindAnswer,
		Problem: problem,
		Result:  evaluator.FormatValue(value),
	}
}

func derivationSolution(problem, left string, right float64) models.Solution {
	rhs := evaluator.FormatNumber(right)
	reduced := right - derivationConstant

	return models.Solution{
		Kind:    models.SolutionKindPseudoDerivation,
		Problem: problem,
		Result:  evaluator.FormatNumber(reduced / derivationDivisor),
		Steps: []models.Step{
			{Title: "Start with the equation:", Detail: problem},
			{
				Title:  "Isolate the variable term by subtracting the constant from both sides.",
				Detail: left + " - " + rhs + " = " + rhs + " - " + rhs,
			},
			{
				Title:  "Simplify the equation.",
				Detail: simplifyLeft(left) + " = " + evaluator.FormatNumber(reduced),
			},
			{
				Title:  "Divide to find the value of 'x'.",
				Detail: "x = " + evaluator.FormatNumber(reduced/derivationDivisor),
			},
		},
	}
}

func errorSolution(problem string, message string) models.Solution {
	return models.Solution{
		Kind:         models.SolutionKindError,
		Problem:      problem,
		ErrorMessage: message,
	}
}

// simplifyLeft drops the first " + <digits>" and then the first "<digits> ".
func simplifyLeft(left string) string {
	return replaceFirst(replaceFirst(left, addedConstantPattern), leadingNumberPattern)
}

func replaceFirst(input string, pattern *regexp.Regexp) string {
	loc := pattern.FindStringIndex(input)
	if loc == nil {
		return input
	}
	return input[:loc[0]] + input[loc[1]:]
}
