package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGolden(t *testing.T) {
	for _, name := range []string{"import_turtle", "ontology_query"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestMarshalSnapshot(t *testing.T) {
	size := int64(3)
	data, err := MarshalSnapshot("s", []TraceEvent{{Seq: 1, Action: ActionSize, Size: &size}})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"scenario_name\": \"s\",\n  \"trace\": [\n    {\n      \"seq\": 1,\n      \"action\": \"size\",\n      \"size\": 3\n    }\n  ]\n}\n", string(data))
}

func TestMarshalSnapshot_NoHTMLEscaping(t *testing.T) {
	data, err := MarshalSnapshot("s", []TraceEvent{{Seq: 1, Action: ActionQuery, Rows: [][]string{{"<a&b>"}}}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"<a&b>"`)
}
