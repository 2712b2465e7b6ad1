package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAdvisorContextAnalysis(t *testing.T) {
	advisor := NewMockAdvisor()

	resp, err := advisor.Advise(context.Background(), KindContextAnalysis, "analyze", PromptContext{
		Grade:   "7th",
		Subject: "Mathematics",
	})
	require.NoError(t, err)
	assert.Equal(t, "Student shows strong interest in Mathematics with 7th grade level understanding.", resp)
}

func TestMockAdvisorAppliesDefaults(t *testing.T) {
	advisor := NewMockAdvisor()

	resp, err := advisor.Advise(context.Background(), KindContextAnalysis, "analyze", PromptContext{})
	require.NoError(t, err)
	assert.Contains(t, resp, "science")
	assert.Contains(t, resp, "8th")
}

func TestMockAdvisorActivitySuggestionUsesPreSLOs(t *testing.T) {
	advisor := NewMockAdvisor()

	resp, err := advisor.Advise(context.Background(), KindActivitySuggestion, "suggest", PromptContext{
		Stage:   "Explore",
		PreSLOs: []string{"fractions", "decimals"},
	})
	require.NoError(t, err)
	assert.Contains(t, resp, "Explore stage")
	assert.Contains(t, resp, "fractions, decimals")
}

func TestMockAdvisorGenericFallback(t *testing.T) {
	advisor := NewMockAdvisor()

	resp, err := advisor.Advise(context.Background(), Kind("unheard_of"), "prompt", PromptContext{})
	require.NoError(t, err)
	assert.Equal(t, "I recommend a personalized approach based on the student's needs and learning objectives.", resp)
}
