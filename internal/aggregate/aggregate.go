// Package aggregate groups JSON Lines messages by their "type" field.
//
// Every line is parsed once and folded straight into its group's counters
// (get-or-create, then add). No per-type list of lines is ever built, so a
// run costs one decode and one map update per line.
package aggregate

import (
	"fmt"
	"io"
	"unicode/utf8"

	"msgstats/internal/iox"
	"msgstats/internal/jsonl"
	"msgstats/internal/message"
	"msgstats/internal/stats"
)

// ErrInvalidUTF8 is the same sentinel iox.ReadText reports.
var ErrInvalidUTF8 = iox.ErrInvalidUTF8

// Aggregate folds every line of input into per-type stats.
// The first line that is not a {"type": string} object aborts the run with
// a *message.InvalidMessageError; no partial result is returned.
func Aggregate(input string) (stats.Groups, error) {
	groups := make(stats.Groups)
	if err := jsonl.EachLine(input, fold(groups)); err != nil {
		return nil, err
	}
	return groups, nil
}

// AggregateReader is Aggregate over a stream. Lines that are not valid UTF-8
// fail with ErrInvalidUTF8, read errors are returned wrapped.
func AggregateReader(r io.Reader) (stats.Groups, error) {
	groups := make(stats.Groups)
	next := fold(groups)
	err := jsonl.EachLineReader(r, func(n int, line string) error {
		if !utf8.ValidString(line) {
			return fmt.Errorf("line %d: %w", n, ErrInvalidUTF8)
		}
		return next(n, line)
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func fold(groups stats.Groups) jsonl.LineFunc {
	return func(n int, line string) error {
		m, err := message.Parse(line)
		if err != nil {
			return &message.InvalidMessageError{Line: n, Raw: line, Err: err}
		}
		if err := groups.Observe(m.Type, line); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		return nil
	}
}
