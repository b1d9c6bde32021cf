// internal/service/promotion/infrastructure/rule/cel_engine.go
package rule

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"caddie/internal/service/promotion/domain"
)

// CELRuleEngine 用 CEL 表达式实现 domain.RuleEngine。
// 模板规则形如: preset == "signature" && quantity >= 2。
// 编译结果按表达式缓存，同一模板的重复评估不用重新编译。
type CELRuleEngine struct {
	env      *cel.Env
	programs sync.Map // expression -> cel.Program
}

// NewCELRuleEngine 创建规则引擎，声明事实的全部变量
func NewCELRuleEngine() (*CELRuleEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("preset", cel.StringType),
		cel.Variable("quantity", cel.IntType),
		cel.Variable("occasion", cel.StringType),
		cel.Variable("amountCents", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &CELRuleEngine{env: env}, nil
}

// Evaluate 实现了 domain.RuleEngine 接口
func (e *CELRuleEngine) Evaluate(expression string, fact domain.Fact) (bool, error) {
	program, err := e.compile(expression)
	if err != nil {
		return false, err
	}

	out, _, err := program.Eval(map[string]interface{}{
		"preset":      fact.Preset,
		"quantity":    int64(fact.Quantity),
		"occasion":    fact.Occasion,
		"amountCents": fact.AmountCents,
	})
	if err != nil {
		return false, fmt.Errorf("rule evaluation failed: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule %q did not evaluate to a boolean", expression)
	}
	return result, nil
}

func (e *CELRuleEngine) compile(expression string) (cel.Program, error) {
	if cached, ok := e.programs.Load(expression); ok {
		return cached.(cel.Program), nil
	}

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile rule %q: %w", expression, issues.Err())
	}
	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build program for rule %q: %w", expression, err)
	}

	e.programs.Store(expression, program)
	return program, nil
}
