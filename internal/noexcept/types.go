package noexcept

import (
	"github.com/extinctpotato/catala/internal/ast"
	"github.com/extinctpotato/catala/internal/typesystem"
)

// TranslateType rewrites every thunk type Unit -> t into Option<t>,
// innermost first.
func TranslateType(t typesystem.Type) typesystem.Type {
	if t == nil {
		return nil
	}
	return t.Map(func(t typesystem.Type) typesystem.Type {
		if typesystem.IsThunk(t) {
			ret, _ := typesystem.ReturnType(t)
			return typesystem.MakeOption(ret)
		}
		return t
	})
}

// binderType is the target type of a variable bound to a value of source
// type src with purity p.
func binderType(p ast.Purity, src typesystem.Type) typesystem.Type {
	t := TranslateType(src)
	if p.ReturnMayBeAbsent && !typesystem.IsThunk(src) {
		if fn, ok := t.(typesystem.TFunc); ok {
			fn.ReturnType = typesystem.MakeOption(fn.ReturnType)
			t = fn
		}
	}
	if p.MayBeAbsent {
		t = typesystem.MakeOption(t)
	}
	return t
}

// TranslateDeclContext rewrites the field and payload types of every
// declaration and registers the option enum.
func TranslateDeclContext(src *ast.DeclContext) *ast.DeclContext {
	out := ast.NewDeclContext()
	if src != nil {
		for _, name := range src.Order {
			if s, ok := src.Structs[name]; ok {
				fields := make([]ast.Field, len(s.Fields))
				for i, f := range s.Fields {
					fields[i] = ast.Field{Name: f.Name, Type: TranslateType(f.Type)}
				}
				out.AddStruct(&ast.StructDecl{Name: s.Name, Fields: fields})
			}
			if e, ok := src.Enums[name]; ok {
				ctors := make([]ast.Ctor, len(e.Ctors))
				for i, c := range e.Ctors {
					ctors[i] = ast.Ctor{Name: c.Name, Type: TranslateType(c.Type)}
				}
				out.AddEnum(&ast.EnumDecl{Name: e.Name, Ctors: ctors})
			}
		}
	}
	out.AddEnum(ast.OptionEnum())
	return out
}
