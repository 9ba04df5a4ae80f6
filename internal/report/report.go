package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"msgstats/internal/stats"
)

type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
	CSV  Format = "csv"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Text, nil
	case Text, JSON, YAML, CSV:
		return f, nil
	case "yml":
		return YAML, nil
	}
	return Text, fmt.Errorf("unknown format %q (use text | json | yaml | csv)", s)
}

type Options struct {
	Format Format
	SortBy stats.SortKey
}

// record je red izveštaja za json/yaml/csv
type record struct {
	Type          string `json:"type" yaml:"type"`
	Occurrences   int64  `json:"occurrences" yaml:"occurrences"`
	TotalByteSize uint64 `json:"total_byte_size" yaml:"total_byte_size"`
}

// Write renders g to w. Text output is one line per type:
//
//	<type>: <occurrences> times, <total_byte_size> bytes
func Write(w io.Writer, g stats.Groups, opt Options) error {
	bw := bufio.NewWriterSize(w, 1<<20)
	entries := g.Sorted(opt.SortBy)

	var err error
	switch opt.Format {
	case "", Text:
		err = writeText(bw, entries)
	case JSON:
		err = writeJSON(bw, records(entries))
	case YAML:
		err = writeYAML(bw, records(entries))
	case CSV:
		err = writeCSV(bw, entries)
	default:
		err = fmt.Errorf("report: unsupported format %q", opt.Format)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func writeText(w io.Writer, entries []stats.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s: %d times, %d bytes\n", e.Type, e.Occurrences, e.TotalByteSize); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, recs []record) error {
	b, err := sonic.ConfigStd.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("report: json: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

func writeYAML(w io.Writer, recs []record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("report: yaml: %w", err)
	}
	return enc.Close()
}

func writeCSV(w io.Writer, entries []stats.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"type", "occurrences", "total_byte_size"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			e.Type,
			strconv.FormatInt(e.Occurrences, 10),
			strconv.FormatUint(e.TotalByteSize, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func records(entries []stats.Entry) []record {
	out := make([]record, 0, len(entries))
	for _, e := range entries {
		out = append(out, record{Type: e.Type, Occurrences: e.Occurrences, TotalByteSize: e.TotalByteSize})
	}
	return out
}
