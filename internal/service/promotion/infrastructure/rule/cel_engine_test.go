package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caddie/internal/service/promotion/domain"
)

func TestCELRuleEngine_Evaluate(t *testing.T) {
	engine, err := NewCELRuleEngine()
	require.NoError(t, err)

	fact := domain.Fact{
		Preset:      "signature",
		Quantity:    2,
		Occasion:    "Father's Day",
		AmountCents: 49800,
	}

	cases := []struct {
		expr string
		want bool
	}{
		{`preset == "signature"`, true},
		{`preset == "executive"`, false},
		{`quantity >= 2 && amountCents > 40000`, true},
		{`occasion == "Father's Day"`, true},
		{`preset == "signature" || quantity > 10`, true},
		{`amountCents < 10000`, false},
	}
	for _, c := range cases {
		got, err := engine.Evaluate(c.expr, fact)
		require.NoError(t, err, "expr=%s", c.expr)
		assert.Equal(t, c.want, got, "expr=%s", c.expr)
	}
}

func TestCELRuleEngine_InvalidExpression(t *testing.T) {
	engine, err := NewCELRuleEngine()
	require.NoError(t, err)

	_, err = engine.Evaluate(`preset ==`, domain.Fact{})
	assert.Error(t, err)

	// 非布尔结果
	_, err = engine.Evaluate(`amountCents + 1`, domain.Fact{})
	assert.Error(t, err)
}

func TestCELRuleEngine_CachesPrograms(t *testing.T) {
	engine, err := NewCELRuleEngine()
	require.NoError(t, err)

	expr := `quantity > 0`
	_, err = engine.Evaluate(expr, domain.Fact{Quantity: 1})
	require.NoError(t, err)

	_, cached := engine.programs.Load(expr)
	assert.True(t, cached)
}
