package handler_test

import (
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"
)

func TestSolveResponseContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("testdata", "solve_response.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + filepath.ToSlash(schemaPath))
	require.NoError(t, err)

	app := newRealSolverApp(t)

	for _, problem := range []string{`""`, `"2 + 2"`, `"2x + 5 = 11"`, `")(*"`} {
		resp := postJSON(t, app, `{"problem":`+problem+`}`)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())

		var payload interface{}
		require.NoError(t, json.Unmarshal(body, &payload))
		require.NoError(t, schema.Validate(payload), problem)
	}
}
