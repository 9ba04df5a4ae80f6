package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
)

var (
	ErrBlankLine   = errors.New("blank line")
	ErrMissingType = errors.New(`missing "type" field`)
	ErrInvalidJSON = errors.New("invalid JSON")
)

// ključevi se porede tačno ("Type" nije "type"), stringovi se proveravaju
var decoder = sonic.Config{CaseSensitive: true, ValidateString: true}.Froze()

// Message je jedna linija ulaza svedena na diskriminator "type".
// Ostala polja JSON objekta se ne čitaju.
type Message struct {
	Type string
}

// samo "type" se dekodira; sonic preskače ostatak objekta
type partial struct {
	Type *string `json:"type"`
}

// Parse decodes only the "type" key of a single JSON Lines record.
// An empty string is a valid type; null, absent or non-string values are not.
// If "type" repeats, the last value wins.
func Parse(raw string) (Message, error) {
	if strings.TrimSpace(raw) == "" {
		return Message{}, ErrBlankLine
	}
	var p partial
	if err := decoder.UnmarshalFromString(raw, &p); err != nil {
		return Message{}, err
	}
	// sonic ne proverava escape sekvence u preskočenim poljima
	if !json.Valid([]byte(raw)) {
		return Message{}, ErrInvalidJSON
	}
	if p.Type == nil {
		return Message{}, ErrMissingType
	}
	return Message{Type: *p.Type}, nil
}

// InvalidMessageError is returned for the first line that does not yield a
// {"type": string} shape. Err carries the decoder diagnostic.
type InvalidMessageError struct {
	Line int
	Raw  string
	Err  error
}

func (e *InvalidMessageError) Error() string {
	return fmt.Sprintf("failed to deserialize Message from: '%s' (line %d): %v", e.Raw, e.Line, e.Err)
}

func (e *InvalidMessageError) Unwrap() error { return e.Err }
