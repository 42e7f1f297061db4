package types

import (
	"errors"
	"fmt"
)

// Domain errors shared by the query layers
var (
	// ErrCapability is returned when a form does not provide both a search
	// term and a page specification
	ErrCapability = errors.New("form must provide both a search term and a page specification")
	// ErrUnknownSearchMode is returned when a table function is requested for
	// an unset or unrecognized search mode
	ErrUnknownSearchMode = errors.New("search mode is not set to a recognized value")
	// ErrRewriteAssumption is returned when rendered SQL lacks the markers the
	// rewriting pipeline depends on
	ErrRewriteAssumption = errors.New("rendered SQL does not match rewriting assumptions")
	// ErrDuplicateJoin is returned when a query already carries a full-text join
	ErrDuplicateJoin = errors.New("query already contains a full-text join")
	// ErrForeignQuery is returned when a query layer receives a query it did not build
	ErrForeignQuery = errors.New("query was not built by this provider")
)

// RewriteError reports which rewriting stage found unexpected SQL
type RewriteError struct {
	Stage  string // splice, parameter, fragment
	Detail string
}

func (e *RewriteError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrRewriteAssumption.Error(), e.Stage, e.Detail)
}

// Unwrap allows errors.Is(err, ErrRewriteAssumption)
func (e *RewriteError) Unwrap() error {
	return ErrRewriteAssumption
}
