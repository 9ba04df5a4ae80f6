package stats

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"sort"
	"strings"
)

var ErrCounterOverflow = errors.New("stats: counter overflow")

// GroupStats su akumulirani brojači za jedan "type".
type GroupStats struct {
	Occurrences   int64  `json:"occurrences" yaml:"occurrences"`
	TotalByteSize uint64 `json:"total_byte_size" yaml:"total_byte_size"`
}

// FromLine returns the contribution of a single raw line: one occurrence
// and its length in bytes as read, not as parsed.
func FromLine(raw string) GroupStats {
	return GroupStats{Occurrences: 1, TotalByteSize: uint64(len(raw))}
}

// Add adds o into s. On overflow s is left unchanged.
func (s *GroupStats) Add(o GroupStats) error {
	if (o.Occurrences > 0 && s.Occurrences > math.MaxInt64-o.Occurrences) ||
		(o.Occurrences < 0 && s.Occurrences < math.MinInt64-o.Occurrences) {
		return fmt.Errorf("%w: occurrences", ErrCounterOverflow)
	}
	size, carry := bits.Add64(s.TotalByteSize, o.TotalByteSize, 0)
	if carry != 0 {
		return fmt.Errorf("%w: total_byte_size", ErrCounterOverflow)
	}
	s.Occurrences += o.Occurrences
	s.TotalByteSize = size
	return nil
}

// Groups maps a type name to its accumulated stats.
type Groups map[string]GroupStats

// Observe folds one raw line of the given type into g, creating the entry
// on first sight.
func (g Groups) Observe(typ, raw string) error {
	s := g[typ]
	if err := s.Add(FromLine(raw)); err != nil {
		return fmt.Errorf("type %q: %w", typ, err)
	}
	g[typ] = s
	return nil
}

// Merge combines o into g key by key.
func (g Groups) Merge(o Groups) error {
	for typ, add := range o {
		s := g[typ]
		if err := s.Add(add); err != nil {
			return fmt.Errorf("merge type %q: %w", typ, err)
		}
		g[typ] = s
	}
	return nil
}

// Total sums all groups.
func (g Groups) Total() (GroupStats, error) {
	var t GroupStats
	for _, s := range g {
		if err := t.Add(s); err != nil {
			return GroupStats{}, err
		}
	}
	return t, nil
}

type SortKey int

const (
	SortByName SortKey = iota
	SortByCount
	SortByBytes
)

func (k SortKey) String() string {
	switch k {
	case SortByCount:
		return "count"
	case SortByBytes:
		return "bytes"
	default:
		return "name"
	}
}

func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name", "type":
		return SortByName, nil
	case "count", "occurrences":
		return SortByCount, nil
	case "bytes", "size":
		return SortByBytes, nil
	}
	return SortByName, fmt.Errorf("unknown sort key %q (use name | count | bytes)", s)
}

type Entry struct {
	Type string
	GroupStats
}

// Sorted returns the groups as a slice. Count and bytes order descending,
// ties fall back to the type name.
func (g Groups) Sorted(by SortKey) []Entry {
	out := make([]Entry, 0, len(g))
	for typ, s := range g {
		out = append(out, Entry{Type: typ, GroupStats: s})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch by {
		case SortByCount:
			if a.Occurrences != b.Occurrences {
				return a.Occurrences > b.Occurrences
			}
		case SortByBytes:
			if a.TotalByteSize != b.TotalByteSize {
				return a.TotalByteSize > b.TotalByteSize
			}
		}
		return a.Type < b.Type
	})
	return out
}
