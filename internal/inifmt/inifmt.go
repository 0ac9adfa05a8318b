// Package inifmt reads and writes the sectioned "key = value" text format
// used by the repository metadata file.
//
// A document is a set of named sections, each a set of key/value pairs.
// Pairs that appear before any "[section]" header belong to the unnamed
// section "". Section names, keys and values are whitespace-trimmed and a
// line is split on its first '=' only.
package inifmt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Code classifies a syntax violation. Codes double as bits of a Mask.
type Code int

const (
	// BadSection marks a line starting with '[' that does not end with ']'.
	BadSection Code = 1 << iota
	// BadValue marks a non-section line without an '=' delimiter.
	BadValue
)

func (c Code) String() string {
	switch c {
	case BadSection:
		return "BAD_SECTION"
	case BadValue:
		return "BAD_VALUE"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Mask selects which codes are tolerated. Strict is the zero Mask.
type Mask int

const (
	Strict  Mask = 0
	Lenient Mask = Mask(BadSection) | Mask(BadValue)
)

func (m Mask) tolerates(c Code) bool { return int(m)&int(c) != 0 }

// Section maps keys to values.
type Section map[string]string

// Document maps section names to sections.
type Document map[string]Section

// Section returns the named section, creating it if needed.
func (d Document) Section(name string) Section {
	s, ok := d[name]
	if !ok {
		s = Section{}
		d[name] = s
	}
	return s
}

// Names returns the section names in ascending order. The unnamed section,
// if present, sorts first.
func (d Document) Names() []string {
	names := make([]string, 0, len(d))
	for n := range d {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LineError records a tolerated violation at a 1-based line number.
type LineError struct {
	Line int
	Code Code
}

// SyntaxError is returned by Parse in strict mode.
type SyntaxError struct {
	Line int
	Code Code
}

func (e *SyntaxError) Error() string {
	switch e.Code {
	case BadSection:
		return fmt.Sprintf("line %d: section name brace is not closed", e.Line)
	case BadValue:
		return fmt.Sprintf("line %d: key without value", e.Line)
	default:
		return fmt.Sprintf("line %d: %s", e.Line, e.Code)
	}
}

// Parse reads a document. Violations whose code is set in lenient are
// skipped and returned as LineErrors; any other violation aborts with a
// *SyntaxError.
func Parse(r io.Reader, lenient Mask) (Document, []LineError, error) {
	doc := Document{}
	var errs []LineError
	current := ""
	lineno := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var code Code
		if line[0] == '[' {
			if len(line) < 2 || line[len(line)-1] != ']' {
				code = BadSection
			} else {
				current = strings.TrimSpace(line[1 : len(line)-1])
				doc.Section(current)
				continue
			}
		} else if i := strings.IndexByte(line, '='); i >= 0 {
			key := strings.TrimSpace(line[:i])
			doc.Section(current)[key] = strings.TrimSpace(line[i+1:])
			continue
		} else {
			code = BadValue
		}

		if !lenient.tolerates(code) {
			return nil, nil, &SyntaxError{Line: lineno, Code: code}
		}
		errs = append(errs, LineError{Line: lineno, Code: code})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	return doc, errs, nil
}

// ParseString is Parse over a string.
func ParseString(s string, lenient Mask) (Document, []LineError, error) {
	return Parse(strings.NewReader(s), lenient)
}

// Serialize writes doc with sections and keys in ascending order. The
// unnamed section has no header; a blank line follows every non-empty section.
func Serialize(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	for _, name := range doc.Names() {
		sec := doc[name]
		if name != "" {
			fmt.Fprintf(bw, "[%s]\n", name)
		}
		keys := make([]string, 0, len(sec))
		for k := range sec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(bw, "%s = %s\n", k, sec[k])
		}
		if len(sec) > 0 {
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

// Marshal returns the serialized form of doc.
func Marshal(doc Document) []byte {
	var buf bytes.Buffer
	_ = Serialize(&buf, doc)
	return buf.Bytes()
}
