package typesystem

// MakeOption wraps t in the option type constructor.
func MakeOption(t Type) Type {
	return TApp{Constructor: optionCon, Args: []Type{t}}
}

// MakeArray wraps t in the array type constructor.
func MakeArray(t Type) Type {
	return TApp{Constructor: arrayCon, Args: []Type{t}}
}

// MakeThunk builds the type of a unit-parameter function returning t.
func MakeThunk(t Type) Type {
	return TFunc{Params: []Type{Unit}, ReturnType: t}
}

// OptionElem returns the payload type of an option type.
func OptionElem(t Type) (Type, bool) {
	return appElem(t, optionCon.Name)
}

// ArrayElem returns the element type of an array type.
func ArrayElem(t Type) (Type, bool) {
	return appElem(t, arrayCon.Name)
}

func appElem(t Type, ctor string) (Type, bool) {
	app, ok := t.(TApp)
	if !ok || app.Constructor.Name != ctor || len(app.Args) != 1 {
		return nil, false
	}
	return app.Args[0], true
}

func IsFunc(t Type) bool {
	_, ok := t.(TFunc)
	return ok
}

// IsThunk reports whether t is Unit -> r, the type of a deferred computation
// whose result may be absent.
func IsThunk(t Type) bool {
	fn, ok := t.(TFunc)
	if !ok || len(fn.Params) != 1 {
		return false
	}
	return Equal(fn.Params[0], Unit)
}

// ReturnType returns the codomain of a function type.
func ReturnType(t Type) (Type, bool) {
	fn, ok := t.(TFunc)
	if !ok {
		return nil, false
	}
	return fn.ReturnType, true
}

// Equal compares two types structurally. Nil only equals nil.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case TCon:
		y, ok := b.(TCon)
		return ok && x.Name == y.Name
	case TStruct:
		y, ok := b.(TStruct)
		return ok && x.Name == y.Name
	case TEnum:
		y, ok := b.(TEnum)
		return ok && x.Name == y.Name
	case TAny:
		_, ok := b.(TAny)
		return ok
	case TApp:
		y, ok := b.(TApp)
		return ok && x.Constructor.Name == y.Constructor.Name && equalAll(x.Args, y.Args)
	case TTuple:
		y, ok := b.(TTuple)
		return ok && equalAll(x.Elements, y.Elements)
	case TFunc:
		y, ok := b.(TFunc)
		return ok && equalAll(x.Params, y.Params) && Equal(x.ReturnType, y.ReturnType)
	}
	return false
}

func equalAll(as, bs []Type) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !Equal(as[i], bs[i]) {
			return false
		}
	}
	return true
}
