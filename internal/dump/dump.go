// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package dump writes lexed files for people and for other tools. The text
// format is line oriented and meant for reading. JSON and YAML carry the same
// records in a structured form.
package dump

import (
	"fmt"
	"io"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	"gopkg.microglot.org/lexer.go/internal/idl"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var formats = []Format{FormatText, FormatJSON, FormatYAML}

func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q, expected one of %v", s, formats)
}

func (f Format) String() string {
	return string(f)
}

// Set and Type let a Format be used directly as a command line flag value.
func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f *Format) Type() string {
	return "format"
}

type tokenRecord struct {
	Kind    string `yaml:"kind"`
	Content string `yaml:"content"`
	Line    int    `yaml:"line"`
	Column  int    `yaml:"column"`
}

type nodeRecord struct {
	Kind     string        `yaml:"kind"`
	Leading  []tokenRecord `yaml:"leading,omitempty"`
	Children []tokenRecord `yaml:"children,omitempty"`
	Trailing []tokenRecord `yaml:"trailing,omitempty"`
}

type fileRecord struct {
	URI    string        `yaml:"uri"`
	Tokens []tokenRecord `yaml:"tokens,omitempty"`
	Nodes  []nodeRecord  `yaml:"nodes,omitempty"`
}

func newTokenRecords(tokens []idl.Token) []tokenRecord {
	if len(tokens) < 1 {
		return nil
	}
	result := make([]tokenRecord, 0, len(tokens))
	for _, t := range tokens {
		result = append(result, tokenRecord{
			Kind:    t.Kind.String(),
			Content: t.Content,
			Line:    t.Line,
			Column:  t.Column,
		})
	}
	return result
}

func newNodeRecords(nodes []idl.TokenNode) []nodeRecord {
	result := make([]nodeRecord, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, nodeRecord{
			Kind:     n.Kind.String(),
			Leading:  newTokenRecords(n.LeadingTrivia),
			Children: newTokenRecords(n.Children),
			Trailing: newTokenRecords(n.TrailingTrivia),
		})
	}
	return result
}

// Tokens writes the token stream of file.
func Tokens(w io.Writer, format Format, file *idl.LexedFile) error {
	record := fileRecord{
		URI:    file.URI,
		Tokens: newTokenRecords(file.Tokens),
	}
	switch format {
	case FormatText:
		return tokensText(w, file)
	case FormatJSON:
		return writeJSON(w, record)
	case FormatYAML:
		return writeYAML(w, record)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Nodes writes the token tree of file. The file must have been lexed with
// the tree enabled.
func Nodes(w io.Writer, format Format, file *idl.LexedFile) error {
	record := fileRecord{
		URI:   file.URI,
		Nodes: newNodeRecords(file.Nodes),
	}
	switch format {
	case FormatText:
		return nodesText(w, file)
	case FormatJSON:
		return writeJSON(w, record)
	case FormatYAML:
		return writeYAML(w, record)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"'", `\'`,
)

func tokensText(w io.Writer, file *idl.LexedFile) error {
	if _, err := fmt.Fprintf(w, "# %s\n", file.URI); err != nil {
		return err
	}
	for _, t := range file.Tokens {
		if _, err := fmt.Fprintf(w, "%-8s%-24s'%s'\n", t.Position, t.Kind, escaper.Replace(t.Content)); err != nil {
			return err
		}
	}
	return nil
}

func nodesText(w io.Writer, file *idl.LexedFile) error {
	if _, err := fmt.Fprintf(w, "# %s\n", file.URI); err != nil {
		return err
	}
	for _, n := range file.Nodes {
		if _, err := fmt.Fprintf(w, "%-24s'%s'\n", n.Kind, escaper.Replace(n.Text())); err != nil {
			return err
		}
		groups := []struct {
			label  string
			tokens []idl.Token
		}{
			{"<", n.LeadingTrivia},
			{"=", n.Children},
			{">", n.TrailingTrivia},
		}
		for _, group := range groups {
			for _, t := range group.tokens {
				if _, err := fmt.Fprintf(w, "  %s %-8s%-24s'%s'\n", group.label, t.Position, t.Kind, escaper.Replace(t.Content)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeJSON(w io.Writer, record fileRecord) error {
	value, err := structpb.NewStruct(record.asMap())
	if err != nil {
		return err
	}
	marshaler := protojson.MarshalOptions{
		Multiline: true,
		Indent:    "  ",
	}
	b, err := marshaler.Marshal(value)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

func writeYAML(w io.Writer, record fileRecord) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(record); err != nil {
		return err
	}
	return enc.Close()
}

// asMap converts the record into the plain values accepted by structpb.
func (r fileRecord) asMap() map[string]any {
	result := map[string]any{
		"uri": r.URI,
	}
	if r.Tokens != nil {
		result["tokens"] = tokenValues(r.Tokens)
	}
	if r.Nodes != nil {
		nodes := make([]any, 0, len(r.Nodes))
		for _, n := range r.Nodes {
			node := map[string]any{"kind": n.Kind}
			if n.Leading != nil {
				node["leading"] = tokenValues(n.Leading)
			}
			if n.Children != nil {
				node["children"] = tokenValues(n.Children)
			}
			if n.Trailing != nil {
				node["trailing"] = tokenValues(n.Trailing)
			}
			nodes = append(nodes, node)
		}
		result["nodes"] = nodes
	}
	return result
}

func tokenValues(tokens []tokenRecord) []any {
	result := make([]any, 0, len(tokens))
	for _, t := range tokens {
		result = append(result, map[string]any{
			"kind":    t.Kind,
			"content": t.Content,
			"line":    t.Line,
			"column":  t.Column,
		})
	}
	return result
}
