// Package render turns structured solutions into HTML fragments for the
// solution output area. All user supplied text is escaped by html/template and
// the final fragment is filtered through a bluemonday allow-list.
package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/gema-math-solver/internal/models"
)

const (
	PromptMessage     = "Please enter a math problem to get a solution."
	InvalidMessage    = "Invalid math problem. Please check your input and try again."
	ErrorHeading      = "Error:"
	SolutionHeading   = "Solution:"
	AnswerLead        = "The final answer is:"
	DerivationHeading = "Solution for:"
)

var fragments = template.Must(template.New("solution").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`
{{- define "prompt" -}}
<h2>` + SolutionHeading + `</h2>
<p>` + PromptMessage + `</p>
{{- end -}}
{{- define "answer" -}}
<h2>` + SolutionHeading + ` {{.Problem}}</h2>
<p>` + AnswerLead + ` <strong>{{.Result}}</strong></p>
{{- end -}}
{{- define "pseudo_derivation" -}}
<h2>` + DerivationHeading + ` {{.Problem}}</h2>
{{- range $i, $step := .Steps}}
<p>{{inc $i}}. {{$step.Title}}{{if and (eq $i 0) $step.Detail}} <strong>{{$step.Detail}}</strong>{{end}}</p>
{{- if and (ne $i 0) $step.Detail}}
<p>   {{$step.Detail}}</p>
{{- end}}
{{- end}}
{{- end -}}
{{- define "error" -}}
<h2>` + ErrorHeading + `</h2>
<p>` + InvalidMessage + `</p>
<p>Details: <em>{{.ErrorMessage}}</em></p>
{{- end -}}
`))

// Renderer converts solutions into safe markup.
type Renderer struct {
	policy *bluemonday.Policy
}

// New constructs a Renderer with the output allow-list.
func New() *Renderer {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("h2", "p", "strong", "em")
	return &Renderer{policy: policy}
}

// HTML renders the fragment for a solution.
func (r *Renderer) HTML(solution models.Solution) string {
	name := string(solution.Kind)
	if fragments.Lookup(name) == nil {
		name = string(models.SolutionKindError)
	}

	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, solution); err != nil {
		buf.Reset()
		_ = fragments.ExecuteTemplate(&buf, string(models.SolutionKindError), models.Solution{
			Kind:         models.SolutionKindError,
			ErrorMessage: err.Error(),
		})
	}

	return strings.TrimSpace(r.policy.Sanitize(buf.String()))
}
