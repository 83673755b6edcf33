package parser

import (
	"unsafe"

	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/standardbeagle/stylecheck/internal/structure"
)

// Language names a tree-sitter grammar.
type Language string

const (
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageRust       Language = "rust"
	LanguageJava       Language = "java"
	LanguageCpp        Language = "cpp"
	LanguageCSharp     Language = "csharp"
	LanguageZig        Language = "zig"
	LanguagePHP        Language = "php"
)

// languageSpec maps one grammar's node types onto structure kinds.
// Bindings and functions depend on the enclosing scope and are resolved
// while walking: a function inside a type is a method, a binding inside a
// function is local.
type languageSpec struct {
	extensions []string
	grammar    func() unsafe.Pointer
	kinds      map[string]structure.Kind
	bindings   map[string]bool
	functions  map[string]bool
}

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

var languageSpecs = map[Language]*languageSpec{
	LanguageGo: {
		extensions: []string{".go"},
		grammar:    tree_sitter_go.Language,
		kinds: map[string]structure.Kind{
			"if_statement":                structure.KindIf,
			"for_statement":               structure.KindFor,
			"expression_switch_statement": structure.KindSwitch,
			"type_switch_statement":       structure.KindSwitch,
			"select_statement":            structure.KindSwitch,
			"expression_case":             structure.KindCase,
			"type_case":                   structure.KindCase,
			"communication_case":          structure.KindCase,
			"default_case":                structure.KindCase,
			"method_declaration":          structure.KindFunctionMethodInstance,
			"func_literal":                structure.KindClosure,
			"struct_type":                 structure.KindStruct,
			"interface_type":              structure.KindProtocol,
			"type_alias":                  structure.KindTypeAlias,
			"field_declaration":           structure.KindVarInstance,
			"parameter_declaration":       structure.KindVarParameter,
		},
		bindings:  set("short_var_declaration", "var_declaration", "const_declaration"),
		functions: set("function_declaration"),
	},
	LanguagePython: {
		extensions: []string{".py"},
		grammar:    tree_sitter_python.Language,
		kinds: map[string]structure.Kind{
			"if_statement":     structure.KindIf,
			"for_statement":    structure.KindForEach,
			"while_statement":  structure.KindWhile,
			"match_statement":  structure.KindSwitch,
			"case_clause":      structure.KindCase,
			"class_definition": structure.KindClass,
			"lambda":           structure.KindClosure,
		},
		bindings:  set("assignment", "augmented_assignment"),
		functions: set("function_definition"),
	},
	LanguageJavaScript: {
		extensions: []string{".js", ".jsx"},
		grammar:    tree_sitter_javascript.Language,
		kinds:      javaScriptKinds(),
		bindings:   set("lexical_declaration", "variable_declaration"),
		functions:  set("function_declaration", "generator_function_declaration"),
	},
	LanguageTypeScript: {
		extensions: []string{".ts", ".tsx"},
		grammar:    tree_sitter_typescript.LanguageTypescript,
		kinds: merge(javaScriptKinds(), map[string]structure.Kind{
			"abstract_class_declaration": structure.KindClass,
			"interface_declaration":      structure.KindProtocol,
			"enum_declaration":           structure.KindEnum,
			"type_alias_declaration":     structure.KindTypeAlias,
			"public_field_definition":    structure.KindVarInstance,
			"required_parameter":         structure.KindVarParameter,
			"optional_parameter":         structure.KindVarParameter,
		}),
		bindings:  set("lexical_declaration", "variable_declaration"),
		functions: set("function_declaration", "generator_function_declaration"),
	},
	LanguageRust: {
		extensions: []string{".rs"},
		grammar:    tree_sitter_rust.Language,
		kinds: map[string]structure.Kind{
			"if_expression":      structure.KindIf,
			"while_expression":   structure.KindWhile,
			"loop_expression":    structure.KindWhile,
			"for_expression":     structure.KindForEach,
			"match_expression":   structure.KindSwitch,
			"match_arm":          structure.KindCase,
			"closure_expression": structure.KindClosure,
			"struct_item":        structure.KindStruct,
			"enum_item":          structure.KindEnum,
			"enum_variant":       structure.KindEnumCase,
			"trait_item":         structure.KindProtocol,
			"impl_item":          structure.KindExtension,
			"type_item":          structure.KindTypeAlias,
			"field_declaration":  structure.KindVarInstance,
			"parameter":          structure.KindVarParameter,
		},
		bindings:  set("let_declaration", "const_item", "static_item"),
		functions: set("function_item"),
	},
	LanguageJava: {
		extensions: []string{".java"},
		grammar:    tree_sitter_java.Language,
		kinds: map[string]structure.Kind{
			"if_statement":                 structure.KindIf,
			"for_statement":                structure.KindFor,
			"enhanced_for_statement":       structure.KindForEach,
			"while_statement":              structure.KindWhile,
			"do_statement":                 structure.KindRepeatWhile,
			"switch_expression":            structure.KindSwitch,
			"switch_block_statement_group": structure.KindCase,
			"switch_rule":                  structure.KindCase,
			"constructor_declaration":      structure.KindFunctionConstructor,
			"lambda_expression":            structure.KindClosure,
			"class_declaration":            structure.KindClass,
			"interface_declaration":        structure.KindProtocol,
			"enum_declaration":             structure.KindEnum,
			"enum_constant":                structure.KindEnumCase,
			"record_declaration":           structure.KindStruct,
			"field_declaration":            structure.KindVarInstance,
			"formal_parameter":             structure.KindVarParameter,
		},
		bindings:  set("local_variable_declaration"),
		functions: set("method_declaration"),
	},
	LanguageCpp: {
		extensions: []string{".cpp", ".cc", ".cxx", ".c", ".h", ".hpp"},
		grammar:    tree_sitter_cpp.Language,
		kinds: map[string]structure.Kind{
			"if_statement":          structure.KindIf,
			"for_statement":         structure.KindFor,
			"for_range_loop":        structure.KindForEach,
			"while_statement":       structure.KindWhile,
			"do_statement":          structure.KindRepeatWhile,
			"switch_statement":      structure.KindSwitch,
			"case_statement":        structure.KindCase,
			"lambda_expression":     structure.KindClosure,
			"class_specifier":       structure.KindClass,
			"struct_specifier":      structure.KindStruct,
			"enum_specifier":        structure.KindEnum,
			"alias_declaration":     structure.KindTypeAlias,
			"type_definition":       structure.KindTypeAlias,
			"field_declaration":     structure.KindVarInstance,
			"parameter_declaration": structure.KindVarParameter,
		},
		bindings:  set("declaration"),
		functions: set("function_definition"),
	},
	LanguageCSharp: {
		extensions: []string{".cs"},
		grammar:    tree_sitter_csharp.Language,
		kinds: map[string]structure.Kind{
			"if_statement":                structure.KindIf,
			"for_statement":               structure.KindFor,
			"foreach_statement":           structure.KindForEach,
			"while_statement":             structure.KindWhile,
			"do_statement":                structure.KindRepeatWhile,
			"switch_statement":            structure.KindSwitch,
			"switch_expression":           structure.KindSwitch,
			"switch_section":              structure.KindCase,
			"constructor_declaration":     structure.KindFunctionConstructor,
			"destructor_declaration":      structure.KindFunctionDestructor,
			"operator_declaration":        structure.KindFunctionOperator,
			"indexer_declaration":         structure.KindFunctionSubscript,
			"lambda_expression":           structure.KindClosure,
			"anonymous_method_expression": structure.KindClosure,
			"class_declaration":           structure.KindClass,
			"record_declaration":          structure.KindClass,
			"struct_declaration":          structure.KindStruct,
			"interface_declaration":       structure.KindProtocol,
			"enum_declaration":            structure.KindEnum,
			"enum_member_declaration":     structure.KindEnumCase,
			"property_declaration":        structure.KindVarInstance,
			"field_declaration":           structure.KindVarInstance,
			"parameter":                   structure.KindVarParameter,
		},
		bindings:  set("local_declaration_statement"),
		functions: set("method_declaration", "local_function_statement"),
	},
	LanguageZig: {
		extensions: []string{".zig"},
		grammar:    tree_sitter_zig.Language,
		kinds: map[string]structure.Kind{
			"if_statement":       structure.KindIf,
			"if_expression":      structure.KindIf,
			"while_statement":    structure.KindWhile,
			"while_expression":   structure.KindWhile,
			"for_statement":      structure.KindForEach,
			"for_expression":     structure.KindForEach,
			"switch_expression":  structure.KindSwitch,
			"switch_case":        structure.KindCase,
			"struct_declaration": structure.KindStruct,
			"union_declaration":  structure.KindStruct,
			"enum_declaration":   structure.KindEnum,
		},
		bindings:  set("variable_declaration"),
		functions: set("function_declaration"),
	},
	LanguagePHP: {
		extensions: []string{".php", ".phtml"},
		grammar:    tree_sitter_php.LanguagePHP,
		kinds: map[string]structure.Kind{
			"if_statement":          structure.KindIf,
			"for_statement":         structure.KindFor,
			"foreach_statement":     structure.KindForEach,
			"while_statement":       structure.KindWhile,
			"do_statement":          structure.KindRepeatWhile,
			"switch_statement":      structure.KindSwitch,
			"match_expression":      structure.KindSwitch,
			"case_statement":        structure.KindCase,
			"default_statement":     structure.KindCase,
			"anonymous_function":    structure.KindClosure,
			"arrow_function":        structure.KindClosure,
			"class_declaration":     structure.KindClass,
			"interface_declaration": structure.KindProtocol,
			"trait_declaration":     structure.KindProtocol,
			"enum_declaration":      structure.KindEnum,
			"enum_case":             structure.KindEnumCase,
			"property_declaration":  structure.KindVarInstance,
			"simple_parameter":      structure.KindVarParameter,
		},
		bindings:  set("const_declaration", "assignment_expression"),
		functions: set("function_definition", "method_declaration"),
	},
}

func javaScriptKinds() map[string]structure.Kind {
	return map[string]structure.Kind{
		"if_statement":        structure.KindIf,
		"for_statement":       structure.KindFor,
		"for_in_statement":    structure.KindForEach,
		"while_statement":     structure.KindWhile,
		"do_statement":        structure.KindRepeatWhile,
		"switch_statement":    structure.KindSwitch,
		"switch_case":         structure.KindCase,
		"switch_default":      structure.KindCase,
		"method_definition":   structure.KindFunctionMethodInstance,
		"function_expression": structure.KindClosure,
		"arrow_function":      structure.KindClosure,
		"class_declaration":   structure.KindClass,
		"class":               structure.KindClass,
		"field_definition":    structure.KindVarInstance,
	}
}

func merge(base, extra map[string]structure.Kind) map[string]structure.Kind {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// extensionLanguages maps a lower-case extension to its grammar.
var extensionLanguages = func() map[string]Language {
	m := make(map[string]Language)
	for lang, spec := range languageSpecs {
		for _, ext := range spec.extensions {
			m[ext] = lang
		}
	}
	return m
}()

// LanguageForExtension returns the grammar for ext, if any.
func LanguageForExtension(ext string) (Language, bool) {
	lang, ok := extensionLanguages[ext]
	return lang, ok
}
