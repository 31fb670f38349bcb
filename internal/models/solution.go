package models

// SolutionKind enumerates the shapes a rendered solution can take.
type SolutionKind string

const (
	SolutionKindPrompt           SolutionKind = "prompt"
	SolutionKindAnswer           SolutionKind = "answer"
	SolutionKindPseudoDerivation SolutionKind = "pseudo_derivation"
	SolutionKindError            SolutionKind = "error"
)

// Step is one numbered line of a pseudo-derivation.
type Step struct {
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

// Solution is the structured outcome of a single solve request. It lives for
// one request only and is converted to markup by the render package.
type Solution struct {
	Kind         SolutionKind `json:"kind"`
	Problem      string       `json:"problem,omitempty"`
	Result       string       `json:"result,omitempty"`
	Steps        []Step       `json:"steps,omitempty"`
	ErrorMessage string       `json:"error,omitempty"`
}

// IsError reports whether evaluation failed.
func (s Solution) IsError() bool {
	return s.Kind == SolutionKindError
}
