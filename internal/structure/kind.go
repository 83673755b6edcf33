package structure

// Kind is the closed vocabulary of structural node kinds the rules reason
// about. Parser-specific kinds that have no mapping are kept as KindUnknown
// with the raw name preserved on the node.
type Kind uint16

const (
	KindUnknown Kind = iota

	// Statements
	KindIf
	KindGuard
	KindWhile
	KindRepeatWhile
	KindFor
	KindForEach
	KindSwitch
	KindCase
	KindBrace

	// Variable bindings by storage class
	KindVarGlobal
	KindVarInstance
	KindVarStatic
	KindVarClass
	KindVarLocal
	KindVarParameter

	// Callables
	KindFunctionFree
	KindFunctionMethodInstance
	KindFunctionMethodStatic
	KindFunctionMethodClass
	KindFunctionConstructor
	KindFunctionDestructor
	KindFunctionOperator
	KindFunctionSubscript
	KindFunctionAccessorGetter
	KindFunctionAccessorSetter
	KindFunctionAccessorWillSet
	KindFunctionAccessorDidSet
	KindFunctionAccessorAddress
	KindFunctionAccessorMutableAddress
	KindClosure

	// Type-level declarations
	KindClass
	KindStruct
	KindEnum
	KindEnumCase
	KindProtocol
	KindExtension
	KindTypeAlias
	KindModule

	kindCount
)

var kindNames = [...]string{
	KindUnknown:                        "unknown",
	KindIf:                             "stmt.if",
	KindGuard:                          "stmt.guard",
	KindWhile:                          "stmt.while",
	KindRepeatWhile:                    "stmt.repeatwhile",
	KindFor:                            "stmt.for",
	KindForEach:                        "stmt.foreach",
	KindSwitch:                         "stmt.switch",
	KindCase:                           "stmt.case",
	KindBrace:                          "stmt.brace",
	KindVarGlobal:                      "decl.var.global",
	KindVarInstance:                    "decl.var.instance",
	KindVarStatic:                      "decl.var.static",
	KindVarClass:                       "decl.var.class",
	KindVarLocal:                       "decl.var.local",
	KindVarParameter:                   "decl.var.parameter",
	KindFunctionFree:                   "decl.function.free",
	KindFunctionMethodInstance:         "decl.function.method.instance",
	KindFunctionMethodStatic:           "decl.function.method.static",
	KindFunctionMethodClass:            "decl.function.method.class",
	KindFunctionConstructor:            "decl.function.constructor",
	KindFunctionDestructor:             "decl.function.destructor",
	KindFunctionOperator:               "decl.function.operator",
	KindFunctionSubscript:              "decl.function.subscript",
	KindFunctionAccessorGetter:         "decl.function.accessor.getter",
	KindFunctionAccessorSetter:         "decl.function.accessor.setter",
	KindFunctionAccessorWillSet:        "decl.function.accessor.willset",
	KindFunctionAccessorDidSet:         "decl.function.accessor.didset",
	KindFunctionAccessorAddress:        "decl.function.accessor.address",
	KindFunctionAccessorMutableAddress: "decl.function.accessor.mutableaddress",
	KindClosure:                        "expr.closure",
	KindClass:                          "decl.class",
	KindStruct:                         "decl.struct",
	KindEnum:                           "decl.enum",
	KindEnumCase:                       "decl.enumcase",
	KindProtocol:                       "decl.protocol",
	KindExtension:                      "decl.extension",
	KindTypeAlias:                      "decl.typealias",
	KindModule:                         "decl.module",
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for i, n := range kindNames {
		m[n] = Kind(i)
	}
	return m
}()

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// MarshalText writes kinds by canonical name in JSON dumps.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText maps unknown names to KindUnknown.
func (k *Kind) UnmarshalText(b []byte) error {
	*k, _ = ParseKind(string(b))
	return nil
}

// ParseKind looks up a kind by its canonical name (e.g. "stmt.if").
// Unmapped names return KindUnknown and false.
func ParseKind(name string) (Kind, bool) {
	k, ok := kindByName[name]
	if !ok || k == KindUnknown {
		return KindUnknown, false
	}
	return k, true
}

// IsVariable reports whether k is a variable binding of any storage class.
func (k Kind) IsVariable() bool {
	return k >= KindVarGlobal && k <= KindVarParameter
}

// IsFunction reports whether k declares a callable with a body.
func (k Kind) IsFunction() bool {
	return k >= KindFunctionFree && k <= KindClosure
}

// IsStatement reports whether k is a control-flow statement.
func (k Kind) IsStatement() bool {
	return k >= KindIf && k <= KindBrace
}

// IsType reports whether k declares a type or type extension.
func (k Kind) IsType() bool {
	return k >= KindClass && k <= KindModule
}

// KindSet is a whitelist of kinds usable as a Flatten predicate.
type KindSet map[Kind]struct{}

// NewKindSet builds a whitelist.
func NewKindSet(kinds ...Kind) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is whitelisted.
func (s KindSet) Has(k Kind) bool {
	_, ok := s[k]
	return ok
}

// Match is a Flatten predicate accepting nodes whose kind is in the set.
// Unknown kinds never match a whitelist.
func (s KindSet) Match(n *Node) bool {
	if n.Kind == KindUnknown {
		return false
	}
	return s.Has(n.Kind)
}
