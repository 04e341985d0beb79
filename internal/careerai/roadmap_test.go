package careerai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnconfiguredGeneratorServesFallback(t *testing.T) {
	g := NewGenerator("", "", "")
	require.False(t, g.Configured())

	content, generated, err := g.GenerateRoadmap(context.Background(),
		[]string{"ECN301"}, []string{"Excel"}, "Economics")
	require.NoError(t, err)
	assert.False(t, generated)
	assert.Equal(t, Fallback("Economics"), content)
}

func TestFallbackKeyedByDepartment(t *testing.T) {
	econ := Fallback("Economics")
	assert.Contains(t, econ, "Data Analyst")

	cs := Fallback("Computer Science")
	assert.Contains(t, cs, "Backend Engineer")

	tech := Fallback("Information Technology")
	assert.Contains(t, tech, "Backend Engineer")

	other := Fallback("Fine Arts")
	assert.Contains(t, other, "Project Coordinator")
	assert.Contains(t, other, "Fine Arts")
}

func TestFallbackIsDeterministic(t *testing.T) {
	assert.Equal(t, Fallback("economics"), Fallback("Economics"))
	assert.Equal(t, Fallback("Law"), Fallback("Law"))
}

func TestBuildPromptCarriesInputs(t *testing.T) {
	prompt := buildPrompt([]string{"CSC401", "CSC407"}, []string{"Go", "SQL"}, "Computer Science")

	assert.Contains(t, prompt, "Computer Science department")
	assert.Contains(t, prompt, "CSC401, CSC407")
	assert.Contains(t, prompt, "Go, SQL")
	assert.True(t, strings.Contains(prompt, "Nigerian"))
}
