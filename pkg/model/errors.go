package model

import "fmt"

type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %s: missing required column %q", e.Table, e.Column)
}

// InvalidValueError reports a cell that should be numeric but is not.
type InvalidValueError struct {
	Table  string
	Row    int
	Column string
	Value  string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("table %s: row %d: column %s: invalid number %q", e.Table, e.Row, e.Column, e.Value)
}

// UnknownDomainError carries the joined row index and the raw GO field.
type UnknownDomainError struct {
	Row    int
	Domain string
	GO     string
}

func (e *UnknownDomainError) Error() string {
	return fmt.Sprintf("unexpected GO domain %q in %q at row %d", e.Domain, e.GO, e.Row)
}

// MalformedGOPairError is returned for a GO pair without a domain separator.
type MalformedGOPairError struct {
	Row  int
	Pair string
	GO   string
}

func (e *MalformedGOPairError) Error() string {
	return fmt.Sprintf("malformed GO pair %q (want domain:description) in %q at row %d", e.Pair, e.GO, e.Row)
}
