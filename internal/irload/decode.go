package irload

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/config"
	"github.com/extinctpotato/catala/internal/parser"
	"github.com/extinctpotato/catala/internal/source"
	"github.com/extinctpotato/catala/internal/typesystem"
	"github.com/extinctpotato/catala/internal/utils"
)

// Load reads and decodes a program file.
func Load(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program %s: %w", path, err)
	}
	return Decode(data, path)
}

// Decode decodes a program from YAML. The path argument names the source
// file in positions when the document does not set one.
func Decode(data []byte, path string) (*ast.Program, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if f.Version != config.ProgramFileVersion {
		return nil, fmt.Errorf("%s: unsupported program version %d, want %d", path, f.Version, config.ProgramFileVersion)
	}

	d := &decoder{file: f.File, ctx: ast.NewDeclContext(), userTypes: make(map[string]typesystem.Type)}
	if d.file == "" {
		d.file = path
	}
	if err := d.declareTypes(&f); err != nil {
		return nil, err
	}
	decls, err := d.decls(f.Decls)
	if err != nil {
		return nil, err
	}

	name := f.Name
	if name == "" {
		name = utils.UnitName(path)
	}
	return &ast.Program{Name: name, Ctx: d.ctx, Decls: decls}, nil
}

type decoder struct {
	file      string
	ctx       *ast.DeclContext
	userTypes map[string]typesystem.Type
}

// env is the lexical environment of names during decoding. Inner bindings
// shadow outer ones.
type env struct {
	name string
	v    *ast.Var
	t    typesystem.Type
	next *env
}

func (e *env) bind(name string, t typesystem.Type) (*ast.Var, *env) {
	v := ast.NewVar(name)
	return v, &env{name: name, v: v, t: t, next: e}
}

func (e *env) lookup(name string) (*env, bool) {
	for b := e; b != nil; b = b.next {
		if b.name == name {
			return b, true
		}
	}
	return nil, false
}

func (d *decoder) errorf(p source.Pos, format string, args ...any) error {
	if p.StartLine == 0 {
		return fmt.Errorf("%s: %s", d.file, fmt.Sprintf(format, args...))
	}
	return fmt.Errorf("%s:%d: %s", d.file, p.StartLine, fmt.Sprintf(format, args...))
}

// at returns the position of a node on line, inheriting file and law
// headings from its parent. Line 0 keeps the parent position.
func at(parent source.Pos, line int) source.Pos {
	if line == 0 {
		return parent
	}
	p := parent
	p.StartLine, p.StartColumn = line, 1
	p.EndLine, p.EndColumn = line, 1
	return p
}

func (d *decoder) parseType(p source.Pos, annotation string) (typesystem.Type, error) {
	if annotation == "" {
		return nil, d.errorf(p, "missing type")
	}
	t, err := parser.ParseType(annotation, func(name string) (typesystem.Type, bool) {
		t, ok := d.userTypes[name]
		return t, ok
	})
	if err != nil {
		return nil, d.errorf(p, "%v", err)
	}
	return t, nil
}

// declareTypes registers every struct and enum name before any field type is
// parsed, so declarations may refer to each other in any order.
func (d *decoder) declareTypes(f *File) error {
	top := source.Pos{File: d.file}
	for _, s := range f.Structs {
		if _, dup := d.userTypes[s.Name]; dup {
			return d.errorf(top, "type %s declared twice", s.Name)
		}
		d.userTypes[s.Name] = typesystem.TStruct{Name: s.Name}
	}
	for _, e := range f.Enums {
		if _, dup := d.userTypes[e.Name]; dup || e.Name == config.OptionEnumName {
			return d.errorf(top, "type %s declared twice", e.Name)
		}
		d.userTypes[e.Name] = typesystem.TEnum{Name: e.Name}
	}

	for _, s := range f.Structs {
		fields := make([]ast.Field, len(s.Fields))
		for i, fs := range s.Fields {
			t, err := d.parseType(top, fs.Type)
			if err != nil {
				return fmt.Errorf("field %s.%s: %w", s.Name, fs.Name, err)
			}
			fields[i] = ast.Field{Name: fs.Name, Type: t}
		}
		d.ctx.AddStruct(&ast.StructDecl{Name: s.Name, Fields: fields})
	}
	for _, e := range f.Enums {
		ctors := make([]ast.Ctor, len(e.Ctors))
		for i, cs := range e.Ctors {
			t := typesystem.Type(typesystem.Unit)
			if cs.Type != "" {
				var err error
				if t, err = d.parseType(top, cs.Type); err != nil {
					return fmt.Errorf("constructor %s.%s: %w", e.Name, cs.Name, err)
				}
			}
			ctors[i] = ast.Ctor{Name: cs.Name, Type: t}
		}
		d.ctx.AddEnum(&ast.EnumDecl{Name: e.Name, Ctors: ctors})
	}
	return nil
}

// decls binds every declaration name first so declarations may refer to
// later or to themselves.
func (d *decoder) decls(specs []DeclSpec) ([]ast.Decl, error) {
	var globals *env
	vars := make([]*ast.Var, len(specs))
	types := make([]typesystem.Type, len(specs))
	for i := range specs {
		s := &specs[i]
		p := d.declPos(s)
		switch {
		case s.Scope != "" && s.Let != "":
			return nil, d.errorf(p, "declaration is both scope %s and value %s", s.Scope, s.Let)
		case s.Scope != "":
			for _, name := range []string{s.Input, s.Output} {
				if _, ok := d.ctx.Structs[name]; !ok {
					return nil, d.errorf(p, "scope %s: unknown struct %q", s.Scope, name)
				}
			}
			types[i] = typesystem.TFunc{
				Params:     []typesystem.Type{typesystem.TStruct{Name: s.Input}},
				ReturnType: typesystem.TStruct{Name: s.Output},
			}
			vars[i], globals = globals.bind(s.Scope, types[i])
		case s.Let != "":
			t, err := d.parseType(p, s.Type)
			if err != nil {
				return nil, err
			}
			types[i] = t
			vars[i], globals = globals.bind(s.Let, t)
		default:
			return nil, d.errorf(p, "declaration has neither scope nor let")
		}
	}

	out := make([]ast.Decl, len(specs))
	for i := range specs {
		s := &specs[i]
		p := d.declPos(s)
		if s.Scope != "" {
			body, err := d.scopeBody(globals, s, p)
			if err != nil {
				return nil, err
			}
			out[i] = &ast.ScopeDecl{Pos: p, Var: vars[i], Body: body}
			continue
		}
		e, err := d.expr(globals, s.Expr, p)
		if err != nil {
			return nil, err
		}
		out[i] = &ast.TopLevelDecl{Pos: p, Var: vars[i], Type: types[i], Expr: e}
	}
	return out, nil
}

func (d *decoder) declPos(s *DeclSpec) source.Pos {
	p := source.Pos{File: d.file}
	if len(s.Headings) > 0 {
		p = p.WithHeadings(s.Headings...)
	}
	return at(p, s.Line)
}

func (d *decoder) scopeBody(globals *env, s *DeclSpec, p source.Pos) (*ast.ScopeBody, error) {
	inputName := s.InputVar
	if inputName == "" {
		inputName = config.ScopeInputName
	}
	input, scope := globals.bind(inputName, typesystem.TStruct{Name: s.Input})

	lets := make([]*ast.ScopeLet, len(s.Lets))
	for i, ls := range s.Lets {
		lp := at(p, ls.Line)
		kind, ok := ast.ScopeLetKindByName(ls.Kind)
		if !ok {
			return nil, d.errorf(lp, "unknown scope binding kind %q", ls.Kind)
		}
		t, err := d.parseType(lp, ls.Type)
		if err != nil {
			return nil, err
		}
		e, err := d.expr(scope, ls.Expr, lp)
		if err != nil {
			return nil, err
		}
		var v *ast.Var
		v, scope = scope.bind(ls.Var, t)
		lets[i] = &ast.ScopeLet{Pos: lp, Kind: kind, Var: v, Type: t, Expr: e}
	}

	result, err := d.expr(scope, s.Result, p)
	if err != nil {
		return nil, err
	}
	return &ast.ScopeBody{
		InputVar:     input,
		InputStruct:  s.Input,
		OutputStruct: s.Output,
		Lets:         lets,
		Result:       result,
	}, nil
}
