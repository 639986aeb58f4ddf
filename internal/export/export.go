// Package export writes extracted questions to disk or a stream and reads
// them back for merging.
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/brogergvhs/skillquiz/internal/quiz"
	"github.com/brogergvhs/skillquiz/internal/util"
)

type Format string

const (
	// NDJSON writes one record per line.
	NDJSON Format = "ndjson"
	// JSON writes a single indented array.
	JSON Format = "json"
)

var ErrUnknownFormat = errors.New("unknown output format")

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", NDJSON:
		return NDJSON, nil
	case JSON:
		return JSON, nil
	}
	return "", fmt.Errorf("%w: %q (want ndjson or json)", ErrUnknownFormat, s)
}

func (f Format) Ext() string {
	return string(f)
}

func Write(w io.Writer, f Format, qs []quiz.Question) error {
	if qs == nil {
		qs = []quiz.Question{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	switch f {
	case NDJSON:
		for i, q := range qs {
			if err := enc.Encode(q); err != nil {
				return fmt.Errorf("encode record %d: %w", i, err)
			}
		}
		return nil
	case JSON:
		enc.SetIndent("", "  ")
		if err := enc.Encode(qs); err != nil {
			return fmt.Errorf("encode records: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteFile replaces path atomically and returns the bytes written.
func WriteFile(path string, f Format, qs []quiz.Question) (int64, error) {
	return util.WriteFileAtomic(path, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if err := Write(bw, f, qs); err != nil {
			return err
		}
		return bw.Flush()
	})
}

// ReadFile loads an NDJSON or JSON array export. Malformed JSON is passed
// through jsonrepair before giving up.
func ReadFile(path string) ([]quiz.Question, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	qs, err := Read(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return qs, nil
}

func Read(b []byte) ([]quiz.Question, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return []quiz.Question{}, nil
	}

	if b[0] == '[' {
		var qs []quiz.Question
		if err := decodeRepaired(string(b), &qs); err != nil {
			return nil, err
		}
		return qs, nil
	}

	qs := []quiz.Question{}
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		var q quiz.Question
		if err := decodeRepaired(text, &q); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		qs = append(qs, q)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return qs, nil
}

func decodeRepaired(s string, v any) error {
	err := json.Unmarshal([]byte(s), v)
	if err == nil {
		return nil
	}

	repaired, rerr := jsonrepair.JSONRepair(s)
	if rerr != nil {
		return fmt.Errorf("decode: %w (repair failed: %v)", err, rerr)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("decode repaired json: %w", err)
	}
	return nil
}

// Merge concatenates record sets in order. With dedupe, a record whose
// question, description and options match an earlier one is dropped.
func Merge(sets [][]quiz.Question, dedupe bool) []quiz.Question {
	out := []quiz.Question{}
	seen := map[string]struct{}{}

	for _, set := range sets {
		for _, q := range set {
			if dedupe {
				k := key(q)
				if _, ok := seen[k]; ok {
					continue
				}
				seen[k] = struct{}{}
			}
			out = append(out, q)
		}
	}
	return out
}

func key(q quiz.Question) string {
	var sb strings.Builder
	sb.WriteString(q.Question)
	sb.WriteByte(0)
	sb.WriteString(q.Description)
	for _, o := range q.Options {
		sb.WriteByte(0)
		sb.WriteString(o.Value)
	}
	return sb.String()
}
