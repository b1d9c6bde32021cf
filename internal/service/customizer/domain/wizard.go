// internal/service/customizer/domain/wizard.go
package domain

import "fmt"

// Step 是定制向导的步骤，顺序固定。
type Step int

const (
	StepGiftSet Step = iota
	StepRecipient
	StepCrestSetup
	StepGolfBalls
	StepGolfTees
	StepGolfTowel
	StepDivotTool
	StepBallMarker

	stepCount
)

var stepNames = [...]string{
	"giftSet",
	"recipient",
	"crestSetup",
	"golfBalls",
	"golfTees",
	"golfTowel",
	"divotTool",
	"ballMarker",
}

func (s Step) String() string {
	if s < 0 || s >= stepCount {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// ParseStep 把接口层传入的步骤名转成 Step。
func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if n == name {
			return Step(i), nil
		}
	}
	return 0, newValidationError("step", "unknown step %q", name)
}

// stepItem 返回某步骤对应的单品；前三步没有对应单品。
func stepItem(s Step) (ItemKey, bool) {
	switch s {
	case StepGolfBalls:
		return ItemGolfBalls, true
	case StepGolfTees:
		return ItemGolfTees, true
	case StepGolfTowel:
		return ItemGolfTowel, true
	case StepDivotTool:
		return ItemDivotTool, true
	case StepBallMarker:
		return ItemBallMarker, true
	}
	return "", false
}

// Wizard 在文档之上提供步骤可用性与导航。它不持有状态，
// 可用性完全由当前文档的套装包含标记决定。
type Wizard struct {
	doc *Document
}

// NewWizard 包装一个文档。
func NewWizard(doc *Document) Wizard {
	return Wizard{doc: doc}
}

// IsAvailable 判断某步骤当前是否可进入。前三步始终可用，
// 单品步骤跟随该单品的包含标记。越界步骤直接 panic，属于调用方编程错误。
func (w Wizard) IsAvailable(s Step) bool {
	if s < 0 || s >= stepCount {
		panic(fmt.Sprintf("wizard: step %d out of range", int(s)))
	}
	item, ok := stepItem(s)
	if !ok {
		return true
	}
	return w.doc.Items.Included(item)
}

// Steps 返回当前可用的步骤序列，顺序固定。
func (w Wizard) Steps() []Step {
	steps := make([]Step, 0, int(stepCount))
	for s := Step(0); s < stepCount; s++ {
		if w.IsAvailable(s) {
			steps = append(steps, s)
		}
	}
	return steps
}

// Next 返回 current 之后第一个可用步骤。已在末尾（或其后再无可用步骤）时
// 返回 current 本身，永不回绕。越界步骤直接 panic，属于调用方编程错误。
func (w Wizard) Next(current Step) Step {
	if current < 0 || current >= stepCount {
		panic(fmt.Sprintf("wizard: step %d out of range", int(current)))
	}
	for s := current + 1; s < stepCount; s++ {
		if w.IsAvailable(s) {
			return s
		}
	}
	return current
}

// Previous 返回 current 之前最近的可用步骤，已在开头时返回 current 本身。
// 越界步骤同样 panic。
func (w Wizard) Previous(current Step) Step {
	if current < 0 || current >= stepCount {
		panic(fmt.Sprintf("wizard: step %d out of range", int(current)))
	}
	for s := current - 1; s >= 0; s-- {
		if w.IsAvailable(s) {
			return s
		}
	}
	return current
}

// Relocate 在 current 因套装切换变得不可用时就近安置：
// 先向前找最近的可用步骤，没有再向后找。current 仍可用时原样返回。
func (w Wizard) Relocate(current Step) Step {
	if current < 0 || current >= stepCount {
		current = StepGiftSet
	}
	if w.IsAvailable(current) {
		return current
	}
	if next := w.Next(current); next != current && w.IsAvailable(next) {
		return next
	}
	return w.Previous(current)
}

// DisplayNumber 返回步骤在当前可用序列中的展示序号（从 1 开始）。
// 不可用步骤返回 0。
func (w Wizard) DisplayNumber(s Step) int {
	n := 0
	for _, step := range w.Steps() {
		n++
		if step == s {
			return n
		}
	}
	return 0
}
