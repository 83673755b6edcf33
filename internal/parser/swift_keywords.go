package parser

// swiftKeywords are classified as keywords unless they follow a ".".
var swiftKeywords = map[string]bool{
	// declarations
	"associatedtype": true, "class": true, "deinit": true, "enum": true, "extension": true,
	"fileprivate": true, "func": true, "import": true, "init": true, "inout": true,
	"internal": true, "let": true, "open": true, "operator": true, "private": true,
	"precedencegroup": true, "protocol": true, "public": true, "rethrows": true,
	"static": true, "struct": true, "subscript": true, "typealias": true, "var": true,
	"actor": true,
	// statements
	"break": true, "case": true, "catch": true, "continue": true, "default": true,
	"defer": true, "do": true, "else": true, "fallthrough": true, "for": true,
	"guard": true, "if": true, "in": true, "repeat": true, "return": true,
	"throw": true, "switch": true, "where": true, "while": true,
	// expressions and types
	"Any": true, "as": true, "await": true, "false": true, "is": true, "nil": true,
	"self": true, "Self": true, "super": true, "throws": true, "true": true, "try": true,
	// contextual
	"async": true, "convenience": true, "didSet": true, "dynamic": true, "final": true,
	"get": true, "indirect": true, "lazy": true, "mutating": true, "nonmutating": true,
	"optional": true, "override": true, "required": true, "set": true, "some": true,
	"unowned": true, "weak": true, "willSet": true, "infix": true, "prefix": true,
	"postfix": true,
}

// buildConfigDirectives are "#name" words classified as build configuration.
var buildConfigDirectives = map[string]bool{
	"if": true, "else": true, "elseif": true, "endif": true,
	"sourceLocation": true, "warning": true, "error": true,
}

// declModifiers may precede a declaration keyword; "class" in front of one
// of these is a modifier, not a type declaration.
var declModifiers = map[string]bool{
	"func": true, "var": true, "let": true, "subscript": true, "override": true,
	"final": true, "static": true, "private": true, "public": true, "internal": true,
	"fileprivate": true, "open": true, "required": true, "convenience": true,
	"dynamic": true, "lazy": true, "weak": true, "unowned": true, "mutating": true,
}
