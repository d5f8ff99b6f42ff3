package db

import "fmt"

// DuplicateSourceError means two files in the input directory map to the same label.
type DuplicateSourceError struct {
	Label  SourceLabel
	First  string
	Second string
}

func (e *DuplicateSourceError) Error() string {
	return fmt.Sprintf("the file %s was already read from %s, please check the input directory for duplicates (%s)",
		e.Label, e.First, e.Second)
}

type UnrecognizedLabelError struct {
	File  string
	Label string
}

func (e *UnrecognizedLabelError) Error() string {
	return fmt.Sprintf("unrecognized input file %s: label %q is not one of %v", e.File, e.Label, RecognizedLabels)
}

// MissingSourceError is returned when a required table was not provided.
type MissingSourceError struct {
	Label SourceLabel
	Dir   string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("no %s spreadsheet found in %s", e.Label, e.Dir)
}
