package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"sakanacore/pkg/domain"
)

// readRecords loads records from each path, or from stdin when paths is empty
// or a path is "-".
func (a *app) readRecords(paths []string) ([]domain.ExperimentRecord, error) {
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	var out []domain.ExperimentRecord
	for _, p := range paths {
		recs, err := a.readPath(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		out = append(out, recs...)
	}
	assignIDs(out)
	return out, nil
}

func (a *app) readPath(p string) ([]domain.ExperimentRecord, error) {
	if p == "-" {
		return decodeRecords(a.stdin)
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return decodeRecords(f)
}

// decodeRecords accepts a JSON array, a stream of JSON objects (NDJSON), or a
// YAML list or document.
func decodeRecords(r io.Reader) ([]domain.ExperimentRecord, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	switch first {
	case '[':
		var recs []domain.ExperimentRecord
		dec := json.NewDecoder(br)
		dec.UseNumber()
		if err := dec.Decode(&recs); err != nil {
			return nil, fmt.Errorf("decode json array: %w", err)
		}
		return recs, nil
	case '{':
		var recs []domain.ExperimentRecord
		dec := json.NewDecoder(br)
		dec.UseNumber()
		for {
			var rec domain.ExperimentRecord
			err := dec.Decode(&rec)
			if errors.Is(err, io.EOF) {
				return recs, nil
			}
			if err != nil {
				return nil, fmt.Errorf("decode json record %d: %w", len(recs)+1, err)
			}
			recs = append(recs, rec)
		}
	default:
		return decodeYAML(br)
	}
}

func decodeYAML(r io.Reader) ([]domain.ExperimentRecord, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var list []domain.ExperimentRecord
	if err := yaml.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var recs []domain.ExperimentRecord
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	for {
		var rec domain.ExperimentRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return recs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		recs = append(recs, rec)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !strings.ContainsRune(" \t\r\n", rune(b)) {
			return b, br.UnreadByte()
		}
	}
}

func assignIDs(recs []domain.ExperimentRecord) {
	for i := range recs {
		if strings.TrimSpace(recs[i].ID) == "" {
			recs[i].ID = uuid.NewString()
		}
	}
}
