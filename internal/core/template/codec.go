package template

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// =============================================================================
// Parsing
// =============================================================================

// Parse parses an Unraid template XML document.
// Input: raw document bytes
// Output: Container struct or error
func Parse(data []byte) (*Container, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}

	var c Container
	if err := xml.Unmarshal(data, &c); err != nil {
		return nil, NewMalformedError("invalid XML", err)
	}

	return &c, nil
}

// =============================================================================
// Additive Amendment
// =============================================================================

// closingTag is the root element's closing tag; new Config elements are
// inserted immediately before it so every existing byte survives unchanged.
const closingTag = "</Container>"

// AppendConfigs returns a copy of the document with the given Config
// elements appended at the end of the root element.
//
// The amendment is textual: the original document bytes are preserved
// exactly, which keeps hand-curated formatting, comments, and field order
// intact. Returns the input unchanged when configs is empty.
func AppendConfigs(data []byte, configs []Config) ([]byte, error) {
	if len(configs) == 0 {
		return data, nil
	}

	idx := bytes.LastIndex(data, []byte(closingTag))
	if idx < 0 {
		return nil, NewMalformedError("missing "+closingTag+" closing tag", nil)
	}

	head, tail := data[:idx], data[idx:]

	// Whitespace between the last newline and the closing tag indents the
	// closing tag itself; it moves below the inserted elements.
	closeIndent := ""
	if nl := bytes.LastIndexByte(head, '\n'); nl >= 0 {
		trailing := string(head[nl+1:])
		if strings.TrimSpace(trailing) == "" {
			closeIndent = trailing
			head = head[:nl+1]
		}
	}

	indent := detectConfigIndent(head)

	var buf bytes.Buffer
	buf.Grow(len(data) + len(configs)*128)
	buf.Write(head)
	if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
		buf.WriteByte('\n')
	}
	for _, cfg := range configs {
		rendered, err := xml.Marshal(cfg)
		if err != nil {
			return nil, NewMalformedError("cannot render Config element", err)
		}
		buf.WriteString(indent)
		buf.Write(rendered)
		buf.WriteByte('\n')
	}
	buf.WriteString(closeIndent)
	buf.Write(tail)

	return buf.Bytes(), nil
}

// detectConfigIndent finds the indentation of existing Config elements so
// appended entries line up; defaults to two spaces.
func detectConfigIndent(data []byte) string {
	idx := bytes.LastIndex(data, []byte("<Config"))
	if idx < 0 {
		return "  "
	}
	nl := bytes.LastIndexByte(data[:idx], '\n')
	candidate := string(data[nl+1 : idx])
	if strings.TrimSpace(candidate) != "" {
		return "  "
	}
	return candidate
}
