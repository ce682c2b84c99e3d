package evaluation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGoldenQueries_ValidFile(t *testing.T) {
	content := `[
		{"id": "q1", "query": "cheap biryani", "module_id": 1, "scenario": "price", "expected_terms": ["biryani"], "forbidden_terms": ["cheap"], "expected_price_max": 100, "difficulty": "easy"},
		{"id": "q2", "query": "वडा पाव", "scenario": "transliteration", "expected_terms": ["vada", "pav"], "difficulty": "medium"}
	]`
	path := writeTempFile(t, content)

	queries, err := LoadGoldenQueries(path)
	require.NoError(t, err)
	require.Len(t, queries, 2)

	assert.Equal(t, "q1", queries[0].ID)
	assert.Equal(t, ScenarioPrice, queries[0].Scenario)
	assert.Equal(t, 1, *queries[0].ModuleID)
	assert.Equal(t, 100.0, *queries[0].ExpectedPriceMax)
	assert.Equal(t, []string{"cheap"}, queries[0].ForbiddenTerms)
	assert.Equal(t, "वडा पाव", queries[1].Query)
	assert.Nil(t, queries[1].ModuleID)
}

func TestLoadGoldenQueries_Errors(t *testing.T) {
	_, err := LoadGoldenQueries("/nonexistent/path.json")
	assert.Error(t, err)

	_, err = LoadGoldenQueries(writeTempFile(t, `not valid json`))
	assert.Error(t, err)

	queries, err := LoadGoldenQueries(writeTempFile(t, `[]`))
	require.NoError(t, err)
	assert.Empty(t, queries)
}

func TestScenario_IsValid(t *testing.T) {
	for _, s := range ValidScenarios() {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Scenario("intent").IsValid())
	assert.False(t, Scenario("").IsValid())
}

func TestValidateGoldenQueries(t *testing.T) {
	ok := GoldenQuery{ID: "q1", Query: "chai", Scenario: ScenarioSynonym, ExpectedTerms: []string{"tea"}, Difficulty: "easy"}

	tests := []struct {
		name    string
		queries []GoldenQuery
		wantErr bool
	}{
		{"valid", []GoldenQuery{ok, {ID: "q2", Query: "veg thali", Scenario: ScenarioDietary, ExpectedIsVeg: boolPtr(true), Difficulty: "medium"}}, false},
		{"missing id", []GoldenQuery{{Query: "chai", Scenario: ScenarioSynonym, ExpectedTerms: []string{"tea"}, Difficulty: "easy"}}, true},
		{"missing query", []GoldenQuery{{ID: "q1", Scenario: ScenarioSynonym, ExpectedTerms: []string{"tea"}, Difficulty: "easy"}}, true},
		{"invalid scenario", []GoldenQuery{{ID: "q1", Query: "chai", Scenario: "bad", ExpectedTerms: []string{"tea"}, Difficulty: "easy"}}, true},
		{"invalid difficulty", []GoldenQuery{{ID: "q1", Query: "chai", Scenario: ScenarioSynonym, ExpectedTerms: []string{"tea"}, Difficulty: "impossible"}}, true},
		{"duplicate ids", []GoldenQuery{ok, ok}, true},
		{"no expectations", []GoldenQuery{{ID: "q1", Query: "chai", Scenario: ScenarioSynonym, Difficulty: "easy"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGoldenQueries(tt.queries)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}
