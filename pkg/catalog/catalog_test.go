package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelMultipliers(t *testing.T) {
	want := map[string]float64{
		"base-gpt-41":               0,
		"premium-gpt-41":            1,
		"gpt-4o":                    1,
		"gpt-45":                    50,
		"claude-35-sonnet":          1,
		"claude-37-sonnet":          1,
		"claude-37-sonnet-thinking": 1.25,
		"claude-sonnet-4":           1,
		"claude-opus-4":             10,
		"gemini-20-flash":           0.25,
		"gemini-25-pro":             1,
		"o1":                        10,
		"o3":                        5,
		"o3-mini":                   0.33,
		"o4-mini":                   0.33,
	}

	all := Models()
	require.Len(t, all, len(want))
	for id, mult := range want {
		m, ok := Model(id)
		require.True(t, ok, "missing model %s", id)
		assert.Equal(t, mult, m.Multiplier, "multiplier for %s", id)
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Description)
	}
}

func TestModelDisplayStrings(t *testing.T) {
	m, _ := Model("base-gpt-41")
	assert.Equal(t, "Base model (GPT-4.1)", m.Name)
	assert.Equal(t, "Free for paid users", m.Description)

	m, _ = Model("claude-37-sonnet-thinking")
	assert.Equal(t, "Claude 3.7 Sonnet Thinking", m.Name)
	assert.Equal(t, "1.25× multiplier", m.Description)
}

func TestPlans(t *testing.T) {
	business, ok := Plan("business")
	require.True(t, ok)
	assert.Equal(t, "Business", business.Name)
	assert.Equal(t, float64(19), business.Price)
	assert.Equal(t, 300, business.IncludedRequests)
	assert.Equal(t, "$19/month - 300 premium requests included", business.Description)

	enterprise, ok := Plan("enterprise")
	require.True(t, ok)
	assert.Equal(t, "Enterprise", enterprise.Name)
	assert.Equal(t, float64(39), enterprise.Price)
	assert.Equal(t, 1000, enterprise.IncludedRequests)

	_, ok = Plan("invalid-plan")
	assert.False(t, ok)
}

func TestCopiesAreIsolated(t *testing.T) {
	m := Models()
	delete(m, "o1")
	m["fake"] = m["gpt-4o"]

	_, ok := Model("o1")
	assert.True(t, ok, "deleting from a copy must not affect the catalog")
	_, ok = Model("fake")
	assert.False(t, ok)

	p := Plans()
	p["business"] = p["enterprise"]
	business, _ := Plan("business")
	assert.Equal(t, 300, business.IncludedRequests)
}

func TestIDsSorted(t *testing.T) {
	assert.Equal(t, []string{"business", "enterprise"}, PlanIDs())

	ids := ModelIDs()
	require.Len(t, ids, 15)
	assert.IsIncreasing(t, ids)
}
