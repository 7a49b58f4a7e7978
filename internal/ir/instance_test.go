package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestInstanceUnmarshalJSONPreservesOrder(t *testing.T) {
	data := `{"C": ["D", "A", "B"], "A": ["B", "C", "D"], "D": ["C", "A", "B"], "B": ["A", "C", "D"]}`

	var inst Instance
	require.NoError(t, json.Unmarshal([]byte(data), &inst))

	assert.Equal(t, []string{"C", "A", "D", "B"}, inst.Participants)
	assert.Equal(t, []string{"D", "A", "B"}, inst.Preferences["C"])
	assert.Equal(t, 4, inst.Len())
}

func TestInstanceUnmarshalJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not an object", `["A", "B"]`, "expected JSON object"},
		{"duplicate key", `{"A": ["B"], "A": ["B"]}`, `duplicate participant "A"`},
		{"non-string entry", `{"A": [1]}`, `preferences of "A"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var inst Instance
			err := json.Unmarshal([]byte(tt.data), &inst)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInstanceMarshalJSONRoundTripOrder(t *testing.T) {
	inst := NewInstance(
		[]string{"2", "1"},
		map[string][]string{"1": {"2"}, "2": {"1"}},
	)

	data, err := json.Marshal(inst)
	require.NoError(t, err)
	assert.Equal(t, `{"2":["1"],"1":["2"]}`, string(data))

	var back Instance
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, inst, back)
}

func TestInstanceUnmarshalYAML(t *testing.T) {
	data := `
B: [A, C, D]
A: [B, C, D]
C: [D, A, B]
D: [C, A, B]
`
	var inst Instance
	require.NoError(t, yaml.Unmarshal([]byte(data), &inst))

	assert.Equal(t, []string{"B", "A", "C", "D"}, inst.Participants)
	assert.Equal(t, []string{"A", "C", "D"}, inst.Preferences["B"])
}

func TestInstanceUnmarshalYAMLNumericIDs(t *testing.T) {
	data := `
1: [2]
2: [1]
`
	var inst Instance
	require.NoError(t, yaml.Unmarshal([]byte(data), &inst))

	assert.Equal(t, []string{"1", "2"}, inst.Participants)
	assert.Equal(t, []string{"2"}, inst.Preferences["1"])
}

func TestInstanceUnmarshalYAMLRejectsSequence(t *testing.T) {
	var inst Instance
	err := yaml.Unmarshal([]byte("- A\n- B\n"), &inst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected mapping")
}

func TestInstanceCloneIsDeep(t *testing.T) {
	inst := NewInstance([]string{"A", "B"}, map[string][]string{"A": {"B"}, "B": {"A"}})
	clone := inst.Clone()
	clone.Preferences["A"][0] = "X"
	clone.Participants[0] = "Z"

	assert.Equal(t, "B", inst.Preferences["A"][0])
	assert.Equal(t, "A", inst.Participants[0])
}
