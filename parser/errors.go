/*
File    : korc/parser/errors.go
*/
package parser

import "errors"

// notCompleteError signals that input was truncated mid-statement
// rather than malformed. It is its own type, distinguished from an
// ordinary parse error with errors.As rather than a plain comparison,
// so a future variant carrying more context (partial token, expected
// rule) can still be recognized by callers written against this type.
type notCompleteError struct{}

func (notCompleteError) Error() string {
	return "not complete: input truncated mid-statement"
}

// ErrNotComplete is returned throughout the parser when input runs out
// mid-statement. At the top level the caller gets back every token
// consumed while attempting the in-progress statement, so it can
// append more input and retry.
var ErrNotComplete error = notCompleteError{}

// isNotComplete reports whether err is (or wraps) a notCompleteError.
func isNotComplete(err error) bool {
	var nc notCompleteError
	return errors.As(err, &nc)
}
