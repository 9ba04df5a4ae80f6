package jsonl

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LineFunc receives the 1-based line number and the line without its terminator.
type LineFunc func(n int, line string) error

// EachLine calls fn for every line of input, in order. Lines end at '\n';
// a '\r' right before it is dropped. A trailing newline does not produce an
// extra empty line and empty input produces none. The first error from fn
// stops the walk and is returned as is.
func EachLine(input string, fn LineFunc) error {
	n := 0
	for len(input) > 0 {
		n++
		var line string
		if i := strings.IndexByte(input, '\n'); i >= 0 {
			line, input = trimCR(input[:i]), input[i+1:]
		} else {
			line, input = input, ""
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	return nil
}

// EachLineReader is EachLine over a stream. Read errors are wrapped with
// the number of the line being read.
func EachLineReader(r io.Reader, fn LineFunc) error {
	// veliki bafer za čitanje (1MB)
	br := bufio.NewReaderSize(r, 1<<20)
	n := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("jsonl: read line %d: %w", n+1, err)
		}
		if len(line) > 0 {
			n++
			if strings.HasSuffix(line, "\n") {
				line = trimCR(line[:len(line)-1])
			}
			if ferr := fn(n, line); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
	}
}

func trimCR(s string) string {
	return strings.TrimSuffix(s, "\r")
}
