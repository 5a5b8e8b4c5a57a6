package scheme

import "strings"

// CompareOperator compares a channel value with an argument.
type CompareOperator string

const (
	OpEqual            CompareOperator = "Equal"
	OpNotEqual         CompareOperator = "NotEqual"
	OpLessThan         CompareOperator = "LessThan"
	OpLessThanEqual    CompareOperator = "LessThanEqual"
	OpGreaterThan      CompareOperator = "GreaterThan"
	OpGreaterThanEqual CompareOperator = "GreaterThanEqual"
)

var operatorSymbols = map[string]CompareOperator{
	"=":  OpEqual,
	"==": OpEqual,
	"<>": OpNotEqual,
	"!=": OpNotEqual,
	"<":  OpLessThan,
	"<=": OpLessThanEqual,
	">":  OpGreaterThan,
	">=": OpGreaterThanEqual,
}

// ParseCompareOperator accepts an operator name (case-insensitive) or symbol.
// Unknown input is returned unchanged and fails [CompareOperator.Valid].
func ParseCompareOperator(s string) CompareOperator {
	s = strings.TrimSpace(s)
	if op, ok := operatorSymbols[s]; ok {
		return op
	}
	for _, op := range operatorSymbols {
		if strings.EqualFold(string(op), s) {
			return op
		}
	}
	return CompareOperator(s)
}

// Valid reports whether op is a known operator.
func (op CompareOperator) Valid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpLessThan, OpLessThanEqual, OpGreaterThan, OpGreaterThanEqual:
		return true
	}
	return false
}

// Compare applies op as "val op arg".
func (op CompareOperator) Compare(val, arg float64) bool {
	switch op {
	case OpEqual:
		return val == arg
	case OpNotEqual:
		return val != arg
	case OpLessThan:
		return val < arg
	case OpLessThanEqual:
		return val <= arg
	case OpGreaterThan:
		return val > arg
	case OpGreaterThanEqual:
		return val >= arg
	}
	return false
}

// LogicalOperator joins the two parts of a condition.
type LogicalOperator string

const (
	LogicNone LogicalOperator = "None"
	LogicAnd  LogicalOperator = "And"
	LogicOr   LogicalOperator = "Or"
)

// ParseLogicalOperator accepts a name in any case; anything else is None.
func ParseLogicalOperator(s string) LogicalOperator {
	switch {
	case strings.EqualFold(s, string(LogicAnd)), s == "&&":
		return LogicAnd
	case strings.EqualFold(s, string(LogicOr)), s == "||":
		return LogicOr
	}
	return LogicNone
}

// ImageCondition selects ImageName when the channel value satisfies it.
// The second comparison is used only when LogicalOperator is And or Or.
type ImageCondition struct {
	CompareOperator1 CompareOperator
	CompareArgument1 float64
	CompareOperator2 CompareOperator
	CompareArgument2 float64
	LogicalOperator  LogicalOperator
	ImageName        string
}

// Satisfied reports whether val meets the condition.
func (c ImageCondition) Satisfied(val float64) bool {
	first := c.CompareOperator1.Compare(val, c.CompareArgument1)
	switch c.LogicalOperator {
	case LogicAnd:
		return first && c.CompareOperator2.Compare(val, c.CompareArgument2)
	case LogicOr:
		return first || c.CompareOperator2.Compare(val, c.CompareArgument2)
	}
	return first
}

// SelectImage returns the image of the first satisfied condition, or def
// when none matches. Conditions are tried in declaration order.
func SelectImage(conds []ImageCondition, val float64, def string) string {
	for _, c := range conds {
		if c.Satisfied(val) {
			return c.ImageName
		}
	}
	return def
}
