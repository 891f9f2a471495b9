/*
File    : korc/parser/precedence.go
*/
package parser

// Operator precedence levels. Division sits at the same level as
// multiplication; assignment sits lowest and right-associative, so
// `a = b = c` assigns `c` to `b` then the result to `a` (see DESIGN.md
// for the reasoning behind that choice).
const (
	assignPrecedence   = 5
	lessThanPrecedence = 10
	plusPrecedence     = 20
	minusPrecedence    = 20
	starPrecedence     = 40
	slashPrecedence    = 40
)

// precedenceTable maps a binary operator symbol to its climbing
// precedence, kept in its own file separate from the climbing logic
// that reads it.
var precedenceTable = map[string]int{
	"=": assignPrecedence,
	"<": lessThanPrecedence,
	"+": plusPrecedence,
	"-": minusPrecedence,
	"*": starPrecedence,
	"/": slashPrecedence,
}

// precedenceOf returns an operator's climbing precedence and whether
// it is known. An operator absent from the table is a hard parse
// error at the call site.
func precedenceOf(op string) (int, bool) {
	p, ok := precedenceTable[op]
	return p, ok
}

// isRightAssociative reports whether op folds right-to-left. Only `=`
// is right-associative in Klang; every other operator in the table is
// left-associative at equal precedence.
func isRightAssociative(op string) bool {
	return op == "="
}
