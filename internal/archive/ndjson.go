package archive

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sakanacore/pkg/domain"
)

const maxLineBytes = 4 << 20

// WriteNDJSON writes one JSON object per result.
func WriteNDJSON(w io.Writer, results []domain.ValidationResult) error {
	enc := json.NewEncoder(w)
	for _, res := range results {
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("encode %s: %w", res.RecordID, err)
		}
	}
	return nil
}

// ReadNDJSON decodes results written by WriteNDJSON. Blank lines are skipped.
func ReadNDJSON(r io.Reader) ([]domain.ValidationResult, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	var out []domain.ValidationResult
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var res domain.ValidationResult
		if err := json.Unmarshal([]byte(text), &res); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if res.Violations == nil {
			res.Violations = []domain.Violation{}
		}
		out = append(out, res)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ndjson: %w", err)
	}
	return out, nil
}
