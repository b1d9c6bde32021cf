// internal/service/promotion/domain/template.go
package domain

import (
	"encoding/json"
	"fmt"
)

// DiscountType 标识优惠的计算方式
type DiscountType string

const (
	DiscountTypeFixedAmount DiscountType = "FIXED_AMOUNT" // 立减
	DiscountTypePercentage  DiscountType = "PERCENTAGE"   // 按比例折扣，可设上限
)

// Fact 是资格规则评估时可见的订单事实
type Fact struct {
	Preset      string `json:"preset"`
	Quantity    int    `json:"quantity"`
	Occasion    string `json:"occasion"`
	AmountCents int64  `json:"amountCents"`
}

// RuleEngine 定义了资格规则引擎的接口。
// RuleExpression 的语法由具体实现决定，领域层只关心布尔结果。
type RuleEngine interface {
	Evaluate(expression string, fact Fact) (bool, error)
}

// CouponTemplate 是优惠的核心定义，是一个不可变对象。
// 对模板的修改应创建新版本而不是原地更新。
type CouponTemplate struct {
	ID      int64
	Version int32
	Name    string
	Status  string

	// RuleExpression 定义了此优惠的适用条件，为空表示无条件适用。
	// 例如: preset == "signature" && quantity >= 2
	RuleExpression string

	DiscountType DiscountType

	// DiscountProperties 存储具体策略的参数：
	// FIXED_AMOUNT: {"amountCents": 1000}
	// PERCENTAGE:   {"percent": 10, "ceilingCents": 5000}
	DiscountProperties string
}

// Eligible 评估订单事实是否满足模板规则
func (t *CouponTemplate) Eligible(engine RuleEngine, fact Fact) (bool, error) {
	if t.RuleExpression == "" {
		return true, nil
	}
	return engine.Evaluate(t.RuleExpression, fact)
}

type fixedAmountProps struct {
	AmountCents int64 `json:"amountCents"`
}

type percentageProps struct {
	Percent      int64 `json:"percent"`
	CeilingCents int64 `json:"ceilingCents"`
}

// Discount 按策略计算折扣金额（美分），不会超过订单金额
func (t *CouponTemplate) Discount(amountCents int64) (int64, error) {
	var discount int64
	switch t.DiscountType {
	case DiscountTypeFixedAmount:
		var props fixedAmountProps
		if err := json.Unmarshal([]byte(t.DiscountProperties), &props); err != nil {
			return 0, fmt.Errorf("invalid discount properties for template %d: %w", t.ID, err)
		}
		discount = props.AmountCents
	case DiscountTypePercentage:
		var props percentageProps
		if err := json.Unmarshal([]byte(t.DiscountProperties), &props); err != nil {
			return 0, fmt.Errorf("invalid discount properties for template %d: %w", t.ID, err)
		}
		discount = amountCents * props.Percent / 100
		if props.CeilingCents > 0 && discount > props.CeilingCents {
			discount = props.CeilingCents
		}
	default:
		return 0, fmt.Errorf("unknown discount type %q for template %d", t.DiscountType, t.ID)
	}

	if discount > amountCents {
		discount = amountCents
	}
	if discount < 0 {
		discount = 0
	}
	return discount, nil
}
