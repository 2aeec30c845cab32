package ksy

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// document is the subset of a KSY file that describes a fixed layout.
type document struct {
	Meta  meta                 `yaml:"meta"`
	Seq   []attr               `yaml:"seq"`
	Types map[string]*typeDecl `yaml:"types"`
}

// root returns the document as a type.
func (d *document) root() *typeDecl {
	return &typeDecl{Seq: d.Seq, Types: d.Types}
}

type meta struct {
	ID        string `yaml:"id"`
	Endian    string `yaml:"endian"`
	BitEndian string `yaml:"bit-endian"`
}

// typeDecl is a KSY type: the top level document or an entry under types.
type typeDecl struct {
	Seq   []attr               `yaml:"seq"`
	Types map[string]*typeDecl `yaml:"types"`
}

// attr is one entry of a seq.
type attr struct {
	ID         string  `yaml:"id"`
	Type       typeRef `yaml:"type"`
	Size       expr    `yaml:"size"`
	Encoding   string  `yaml:"encoding"`
	Repeat     string  `yaml:"repeat"`
	RepeatExpr expr    `yaml:"repeat-expr"`

	// These make a field variable or conditional. They are only read to be rejected.
	If       expr `yaml:"if"`
	SizeEOS  bool `yaml:"size-eos"`
	Process  expr `yaml:"process"`
	Contents expr `yaml:"contents"`
}

// typeRef is the type key of an attribute. KSY allows a plain name or a switch-on mapping.
type typeRef struct {
	Name   string
	Switch bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *typeRef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&t.Name)
	case yaml.MappingNode:
		t.Switch = true
		return nil
	}
	return fmt.Errorf("line %d: type must be a name or a switch-on mapping", node.Line)
}

// expr is a KSY value that may be a literal or an expression. Only integer literals are
// constants.
type expr struct {
	Raw string
	Set bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *expr) UnmarshalYAML(node *yaml.Node) error {
	e.Set = true
	if node.Kind == yaml.ScalarNode {
		e.Raw = strings.TrimSpace(node.Value)
		return nil
	}
	e.Raw = fmt.Sprintf("<%s at line %d>", kindName(node.Kind), node.Line)
	return nil
}

// Const returns the expression as a non-negative integer if it is one.
func (e expr) Const() (int, bool) {
	if !e.Set {
		return 0, false
	}
	n, err := strconv.ParseInt(e.Raw, 0, 0)
	if err != nil || n < 0 {
		return 0, false
	}
	return int(n), true
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	}
	return "node"
}

// parse decodes a KSY document and applies the meta defaults.
func parse(data []byte) (*document, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse KSY YAML: %w", err)
	}
	if doc.Meta.Endian == "" {
		doc.Meta.Endian = "be"
	}
	if doc.Meta.BitEndian == "" {
		doc.Meta.BitEndian = "be"
	}
	return &doc, nil
}

// lowerCamelCase converts a KSY snake_case identifier the way Kaitai does. Leading
// underscores are kept.
func lowerCamelCase(s string) string {
	if strings.HasPrefix(s, "_") {
		return "_" + lowerCamelCase(s[1:])
	}
	parts := strings.Split(s, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
