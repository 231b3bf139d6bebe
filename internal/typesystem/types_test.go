package typesystem

import (
	"testing"
)

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		name string
		typ  Type
		want string
	}{
		{"literal", Int, "Int"},
		{"option", MakeOption(Bool), "Option<Bool>"},
		{"array of option", MakeArray(MakeOption(Money)), "Array<Option<Money>>"},
		{"tuple", TTuple{Elements: []Type{Int, TStruct{Name: "Household"}}}, "(Int, Household)"},
		{"thunk", MakeThunk(Int), "(Unit) -> Int"},
		{"function", TFunc{Params: []Type{Int, Int}, ReturnType: Bool}, "(Int, Int) -> Bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("String() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestIsThunk(t *testing.T) {
	if !IsThunk(MakeThunk(Int)) {
		t.Errorf("Unit -> Int should be a thunk")
	}
	if IsThunk(TFunc{Params: []Type{Int}, ReturnType: Int}) {
		t.Errorf("Int -> Int should not be a thunk")
	}
	if IsThunk(TFunc{Params: []Type{Unit, Unit}, ReturnType: Int}) {
		t.Errorf("binary function should not be a thunk")
	}
	if IsThunk(Unit) {
		t.Errorf("Unit should not be a thunk")
	}
}

func TestOptionElem(t *testing.T) {
	elem, ok := OptionElem(MakeOption(Int))
	if !ok || !Equal(elem, Int) {
		t.Errorf("OptionElem(Option<Int>) = %v, %v, want Int, true", elem, ok)
	}
	if _, ok := OptionElem(MakeArray(Int)); ok {
		t.Errorf("OptionElem(Array<Int>) should fail")
	}
}

func TestMapRewritesThunks(t *testing.T) {
	typ := TTuple{Elements: []Type{MakeThunk(Int), TFunc{Params: []Type{Int}, ReturnType: MakeThunk(Bool)}}}
	got := typ.Map(func(t Type) Type {
		if IsThunk(t) {
			ret, _ := ReturnType(t)
			return MakeOption(ret)
		}
		return t
	})
	want := TTuple{Elements: []Type{MakeOption(Int), TFunc{Params: []Type{Int}, ReturnType: MakeOption(Bool)}}}
	if !Equal(got, want) {
		t.Errorf("Map = %s, want %s", got, want)
	}
}

func TestEqual(t *testing.T) {
	if Equal(TStruct{Name: "A"}, TEnum{Name: "A"}) {
		t.Errorf("struct and enum with the same name must differ")
	}
	if !Equal(nil, nil) {
		t.Errorf("nil should equal nil")
	}
	if Equal(Int, nil) {
		t.Errorf("Int should not equal nil")
	}
}
