package query

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidFilter indicates a filter parameter could not be parsed or
	// describes an impossible range.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrUnrecognizedPhrase indicates a phrase that is not in the phrase table.
	ErrUnrecognizedPhrase = errors.New("unable to parse natural language query")

	// ErrEmptyResult indicates a constrained query matched no records.
	ErrEmptyResult = errors.New("no strings found matching the criteria")
)
