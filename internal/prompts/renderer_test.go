package prompts

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func Test_Render_ReplacesKnownPlaceholders(t *testing.T) {
	template := "Persona: ${persona}, located in ${location}. Again: ${persona}"

	rendered := Render(template, map[string]string{"persona": "CFO", "location": "Mumbai"})

	assert.Equal(t, "Persona: CFO, located in Mumbai. Again: CFO", rendered)
}

func Test_Render_LeavesUnknownPlaceholders(t *testing.T) {
	rendered := Render("${persona} at ${company_type}", map[string]string{"persona": "CTO"})

	assert.Equal(t, "CTO at ${company_type}", rendered)
}

func Test_Render_DoesNotSubstituteRecursively(t *testing.T) {
	rendered := Render("${a}", map[string]string{"a": "${b}", "b": "nested"})

	assert.Equal(t, "${b}", rendered)
}

func Test_Render_NoPlaceholders(t *testing.T) {
	assert.Equal(t, "plain $text {x}", Render("plain $text {x}", map[string]string{"x": "y"}))
}

func Test_RenderUserQuery_BindsUserQueryPlaceholder(t *testing.T) {
	rendered := RenderUserQuery("Query: ${user_query}; ${persona}", "fintech CFOs in London")

	assert.Equal(t, "Query: fintech CFOs in London; ${persona}", rendered)
}
