package ksy

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gostdlib/base/context"
	"go.uber.org/zap"

	"github.com/bearlytools/bitstruct/languages/go/errors"
	"github.com/bearlytools/bitstruct/languages/go/structs"
)

var (
	bitType    = regexp.MustCompile(`^b(\d+)(le|be)?$`)
	scalarType = regexp.MustCompile(`^([usf][1248])(le|be)?$`)
)

// scalars maps a KSY scalar type to its big-endian and little-endian constructors.
var scalars = map[string][2]func(string) *structs.Scalar{
	"u1": {structs.Uint8, structs.Uint8},
	"s1": {structs.Int8, structs.Int8},
	"u2": {structs.Uint16, structs.Uint16LE},
	"s2": {structs.Int16, structs.Int16LE},
	"u4": {structs.Uint32, structs.Uint32LE},
	"s4": {structs.Int32, structs.Int32LE},
	"f4": {structs.Float32, structs.Float32LE},
	"f8": {structs.Float64, structs.Float64LE},
}

// Build reads a KSY document and returns an anonymous struct with the layout it describes.
// Types declared in the document are always built from the document and stored in the type
// cache under their qualified path (a::b). The cache only answers references to types the
// document does not declare. When meta.id is set the result is also cached under its
// lowerCamelCase form. Only fixed layouts can be built: any size or repeat count that
// is not an integer literal, and any conditional or switched field, is an
// *errors.UnsupportedFieldError.
func Build(ctx context.Context, ksy []byte, options ...Option) (*structs.Struct, error) {
	cfg := defaultConfig()
	for _, o := range options {
		o(cfg)
	}
	if cfg.cache == nil {
		cfg.cache = NewTypeCache()
	}

	s, err := build(ctx, cfg, ksy)
	if err != nil {
		t := errors.TypeOf(err)
		if t == errors.TypeUnknown {
			t = errors.TypeParameter
		}
		return nil, errors.E(ctx, errors.CatUser, t, err)
	}
	return s, nil
}

func build(ctx context.Context, cfg *config, ksy []byte) (*structs.Struct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := parse(ksy)
	if err != nil {
		return nil, err
	}

	name := lowerCamelCase(doc.Meta.ID)
	if name == "" {
		name = "root"
	}
	b := &builder{ctx: ctx, cfg: cfg, rootName: name, built: map[string]*structs.Struct{}, building: map[string]bool{}}
	if b.byteLE, err = isLittle("meta.endian", doc.Meta.Endian); err != nil {
		return nil, err
	}
	if b.bitLE, err = isLittle("meta.bit-endian", doc.Meta.BitEndian); err != nil {
		return nil, err
	}

	s, err := b.buildType("", doc.root(), nil)
	if err != nil {
		return nil, err
	}
	if doc.Meta.ID != "" {
		cfg.cache.Put(name, s)
	}
	cfg.log.Debug("built KSY schema", zap.String("id", name), zap.Int("size", s.Size()))
	return s, nil
}

func isLittle(key, v string) (bool, error) {
	switch v {
	case "le":
		return true, nil
	case "be":
		return false, nil
	}
	return false, &errors.UnsupportedFieldError{Field: key, Detail: fmt.Sprintf("endianness %q must be le or be", v)}
}

// scope is a type together with the types that enclose it, for resolving type names. path is
// the type's qualified name, empty for the document root.
type scope struct {
	decl   *typeDecl
	path   string
	parent *scope
}

func qualify(path, name string) string {
	if path == "" {
		return name
	}
	return path + "::" + name
}

// find resolves a type name or a::b path from s outward. It returns the type, the scope it
// was declared in and its qualified name.
func (s *scope) find(ref string) (*typeDecl, *scope, string) {
	parts := strings.Split(ref, "::")
	for sc := s; sc != nil; sc = sc.parent {
		t, ok := sc.decl.Types[parts[0]]
		if !ok {
			continue
		}
		def := sc
		path := qualify(sc.path, parts[0])
		for _, p := range parts[1:] {
			def = &scope{decl: t, path: path, parent: def}
			if t, ok = t.Types[p]; !ok {
				return nil, nil, ""
			}
			path = qualify(path, p)
		}
		return t, def, path
	}
	return nil, nil, ""
}

type builder struct {
	ctx    context.Context
	cfg    *config
	byteLE bool
	bitLE  bool

	// rootName labels the document root in logs and errors.
	rootName string
	// built holds the types of this document, by qualified name.
	built map[string]*structs.Struct
	// building holds the types currently being built, to catch types that contain themselves.
	building map[string]bool
}

// buildType builds decl, declared in parent, as an anonymous struct and caches it under its
// qualified name path. Nested types are built first.
func (b *builder) buildType(path string, decl *typeDecl, parent *scope) (*structs.Struct, error) {
	if s, ok := b.built[path]; ok {
		return s, nil
	}
	name := path
	if name == "" {
		name = b.rootName
	}
	if err := b.ctx.Err(); err != nil {
		return nil, err
	}
	if b.building[path] {
		return nil, &errors.UnsupportedFieldError{Field: name, Detail: "type contains itself"}
	}
	if len(decl.Seq) == 0 {
		return nil, &errors.UnsupportedFieldError{Field: name, Detail: "type has no seq"}
	}
	b.building[path] = true
	defer delete(b.building, path)

	sc := &scope{decl: decl, path: path, parent: parent}
	nested := make([]string, 0, len(decl.Types))
	for n := range decl.Types {
		nested = append(nested, n)
	}
	slices.Sort(nested)
	for _, n := range nested {
		if _, err := b.buildType(qualify(path, n), decl.Types[n], sc); err != nil {
			return nil, err
		}
	}

	elems := make([]structs.Element, 0, len(decl.Seq))
	for _, a := range decl.Seq {
		f, err := b.field(a, sc)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", name, err)
		}
		elems = append(elems, f)
	}
	s, err := structs.NewStruct("", elems...)
	if err != nil {
		return nil, fmt.Errorf("type %q: %w", name, err)
	}

	b.built[path] = s
	if path != "" {
		b.cfg.cache.Put(path, s)
	}
	b.cfg.log.Debug("built KSY type", zap.String("type", name), zap.Int("size", s.Size()), zap.Int("fields", len(s.Names())))
	return s, nil
}

// field converts one seq entry.
func (b *builder) field(a attr, sc *scope) (structs.Field, error) {
	if a.ID == "" {
		return nil, &errors.UnsupportedFieldError{Detail: "seq entry has no id"}
	}
	name := lowerCamelCase(a.ID)
	unsupported := func(format string, args ...any) error {
		return &errors.UnsupportedFieldError{Field: name, Detail: fmt.Sprintf(format, args...)}
	}

	switch {
	case a.If.Set:
		return nil, unsupported("conditional fields are not supported")
	case a.SizeEOS:
		return nil, unsupported("size-eos is not a fixed size")
	case a.Process.Set:
		return nil, unsupported("process is not supported")
	case a.Contents.Set:
		return nil, unsupported("contents is not supported")
	case a.Type.Switch:
		return nil, unsupported("switch-on types are not supported")
	}

	count := -1
	switch a.Repeat {
	case "":
	case "expr":
		n, ok := a.RepeatExpr.Const()
		if !ok {
			return nil, unsupported("repeat-expr %q is not a constant", a.RepeatExpr.Raw)
		}
		count = n
	default:
		return nil, unsupported("repeat: %s is not a fixed count", a.Repeat)
	}

	f, err := b.base(name, a, sc)
	if err != nil {
		return nil, err
	}
	if count >= 0 {
		return structs.Repeat(f, count), nil
	}
	return f, nil
}

// base converts a seq entry without its repeat.
func (b *builder) base(name string, a attr, sc *scope) (structs.Field, error) {
	t := a.Type.Name
	if t == "" {
		if !a.Size.Set {
			return nil, &errors.UnsupportedFieldError{Field: name, Detail: "needs a type or a size"}
		}
		n, ok := a.Size.Const()
		if !ok {
			return nil, &errors.UnsupportedFieldError{Field: name, Detail: fmt.Sprintf("size %q is not a constant", a.Size.Raw)}
		}
		return structs.Bytes(name, n), nil
	}

	if m := bitType.FindStringSubmatch(t); m != nil {
		w, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, &errors.UnsupportedFieldError{Field: name, Detail: fmt.Sprintf("bad bit width in %q", t)}
		}
		le := b.bitLE
		if m[2] != "" {
			le = m[2] == "le"
		}
		if le {
			return structs.UBitLE(name, w), nil
		}
		return structs.UBit(name, w), nil
	}

	if t == "str" || t == "strz" {
		return text(name, a)
	}

	if m := scalarType.FindStringSubmatch(t); m != nil {
		ctors, ok := scalars[m[1]]
		if !ok {
			return nil, &errors.UnsupportedFieldError{Field: name, Detail: fmt.Sprintf("type %s is not supported", t)}
		}
		le := b.byteLE
		if m[2] != "" {
			le = m[2] == "le"
		}
		if le {
			return ctors[1](name), nil
		}
		return ctors[0](name), nil
	}

	sub, err := b.userType(name, t, sc)
	if err != nil {
		return nil, err
	}
	s, err := structs.NewStruct(name, sub)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// userType returns the struct for a user type reference. Types declared in the document win;
// other names are looked up in the type cache.
func (b *builder) userType(name, t string, sc *scope) (*structs.Struct, error) {
	if decl, def, path := sc.find(t); decl != nil {
		return b.buildType(path, decl, def)
	}
	if s, ok := b.cfg.cache.Get(t); ok {
		b.cfg.log.Debug("KSY type cache hit", zap.String("type", t))
		return s, nil
	}
	return nil, &errors.UnsupportedFieldError{Field: name, Detail: fmt.Sprintf("unknown type %q", t)}
}

func text(name string, a attr) (structs.Field, error) {
	n, ok := a.Size.Const()
	if !ok {
		return nil, &errors.UnsupportedFieldError{Field: name, Detail: "strings need a constant size"}
	}
	switch strings.ToUpper(a.Encoding) {
	case "", "UTF-8", "UTF8", "ASCII":
		return structs.Char(name, n), nil
	case "UTF-16LE":
		return structs.Char16LE(name, n), nil
	case "UTF-16BE":
		return structs.Char16BE(name, n), nil
	}
	return nil, &errors.UnsupportedFieldError{Field: name, Detail: fmt.Sprintf("encoding %q is not supported", a.Encoding)}
}
