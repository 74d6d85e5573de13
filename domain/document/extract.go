package document

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ExtractMetadata inspects payload according to contentType and returns
// the extracted metadata. The payload is never retained.
func ExtractMetadata(contentType string, payload []byte) (Metadata, error) {
	switch normalizeContentType(contentType) {
	case "text/csv":
		return extractCSV(payload)
	case "application/json":
		return extractJSON(payload)
	case "application/xml", "text/xml":
		return extractXML(payload)
	case "text/plain":
		return extractText(payload), nil
	}
	return Metadata{}, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
}

// normalizeContentType strips parameters like "; charset=utf-8".
func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

func extractCSV(payload []byte) (Metadata, error) {
	delimiter := sniffDelimiter(payload)

	r := csv.NewReader(bytes.NewReader(payload))
	r.Comma = rune(delimiter[0])
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err == io.EOF {
		return Metadata{Format: "csv", Delimiter: delimiter}, nil
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("read csv header: %w", err)
	}

	rows := 0
	for {
		if _, err := r.Read(); err == io.EOF {
			break
		} else if err != nil {
			return Metadata{}, fmt.Errorf("read csv row %d: %w", rows+1, err)
		}
		rows++
	}

	return Metadata{
		Format:    "csv",
		Headers:   headers,
		RowCount:  rows,
		Delimiter: delimiter,
	}, nil
}

// sniffDelimiter picks the separator that appears most often in the
// first line, among comma, semicolon, tab, and pipe.
func sniffDelimiter(payload []byte) string {
	line := payload
	if i := bytes.IndexByte(payload, '\n'); i >= 0 {
		line = payload[:i]
	}

	best, bestCount := ",", 0
	for _, cand := range []string{",", ";", "\t", "|"} {
		if n := bytes.Count(line, []byte(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best
}

func extractJSON(payload []byte) (Metadata, error) {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return Metadata{}, fmt.Errorf("parse json: %w", err)
	}

	m := Metadata{Format: "json"}
	switch t := v.(type) {
	case map[string]any:
		m.TopLevelKind = "object"
		for k := range t {
			m.Keys = append(m.Keys, k)
		}
		sort.Strings(m.Keys)
	case []any:
		m.TopLevelKind = "array"
		m.ArrayLength = len(t)
	default:
		m.TopLevelKind = "scalar"
	}
	return m, nil
}

func extractXML(payload []byte) (Metadata, error) {
	dec := xml.NewDecoder(bytes.NewReader(payload))

	m := Metadata{Format: "xml", Elements: map[string]int{}}
	depth := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Metadata{}, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				m.RootElement = t.Name.Local
			} else {
				m.Elements[t.Name.Local]++
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	if m.RootElement == "" {
		return Metadata{}, fmt.Errorf("parse xml: no root element")
	}
	return m, nil
}

func extractText(payload []byte) Metadata {
	text := string(payload)
	lines := 0
	if len(text) > 0 {
		lines = strings.Count(text, "\n")
		if !strings.HasSuffix(text, "\n") {
			lines++
		}
	}
	return Metadata{
		Format:    "text",
		LineCount: lines,
		WordCount: len(strings.Fields(text)),
	}
}
