package hexza

import (
	"encoding/json"
	"sort"

	"github.com/hexza-lang/hexza/builtins"
	"github.com/hexza-lang/hexza/errors"
	"github.com/hexza-lang/hexza/object"
)

// Version is the language version described by Docs.
const Version = "0.1.0"

// DocsOption configures documentation retrieval.
type DocsOption func(*docsOptions)

type docsOptions struct {
	category string
	topic    string
	quick    bool
	all      bool
}

// DocsCategory filters documentation to one category: "builtins", "types",
// "syntax" or "errors".
func DocsCategory(cat string) DocsOption {
	return func(o *docsOptions) {
		o.category = cat
	}
}

// DocsTopic retrieves documentation for one builtin or type, such as "len"
// or "list".
func DocsTopic(topic string) DocsOption {
	return func(o *docsOptions) {
		o.topic = topic
	}
}

// DocsQuick returns a concise quick reference.
func DocsQuick() DocsOption {
	return func(o *docsOptions) {
		o.quick = true
	}
}

// DocsAll returns the complete documentation.
func DocsAll() DocsOption {
	return func(o *docsOptions) {
		o.all = true
	}
}

// Documentation provides structured access to Hexza documentation.
type Documentation struct {
	data any
	err  string
}

// JSON returns the documentation as indented JSON.
func (d *Documentation) JSON() string {
	b, _ := json.MarshalIndent(d.data, "", "  ")
	return string(b)
}

// Data returns the raw documentation data.
func (d *Documentation) Data() any {
	return d.data
}

// Found reports whether the requested category or topic exists.
func (d *Documentation) Found() bool {
	return d.err == ""
}

type docsInfo struct {
	Version        string `json:"version"`
	Description    string `json:"description"`
	ExecutionModel string `json:"execution_model"`
}

type docsSyntaxPattern struct {
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
}

type docsQuickReference struct {
	Hexza          docsInfo            `json:"hexza"`
	SyntaxQuickRef []docsSyntaxPattern `json:"syntax_quick_ref"`
	Topics         map[string]string   `json:"topics"`
}

type docsTypeInfo struct {
	Name    string              `json:"name"`
	Doc     string              `json:"doc"`
	Methods []object.MethodSpec `json:"methods,omitempty"`
}

type docsSyntaxSection struct {
	Name  string           `json:"name"`
	Items []docsSyntaxItem `json:"items"`
}

type docsSyntaxItem struct {
	Syntax string `json:"syntax"`
	Notes  string `json:"notes"`
}

type docsErrorPattern struct {
	Kind    string           `json:"kind"`
	Code    errors.ErrorCode `json:"code"`
	Causes  []string         `json:"causes"`
	BadCode string           `json:"bad_code"`
	Fix     string           `json:"fix"`
}

type docsFullDocumentation struct {
	Hexza    docsInfo            `json:"hexza"`
	Builtins []builtins.FuncSpec `json:"builtins"`
	Types    []docsTypeInfo      `json:"types"`
	Syntax   []docsSyntaxSection `json:"syntax"`
	Errors   []docsErrorPattern  `json:"errors"`
}

// Docs returns structured documentation about Hexza for tooling and the
// "hexza docs" command. Without options it returns the quick reference.
//
//	fmt.Println(hexza.Docs(hexza.DocsTopic("range")).JSON())
func Docs(opts ...DocsOption) *Documentation {
	o := &docsOptions{}
	for _, opt := range opts {
		opt(o)
	}
	switch {
	case o.all:
		return &Documentation{data: buildFullDocumentation()}
	case o.category != "":
		return buildCategoryDocs(o.category)
	case o.topic != "":
		return buildTopicDocs(o.topic)
	default:
		return &Documentation{data: buildQuickReference()}
	}
}

var docsAbout = docsInfo{
	Version:        Version,
	Description:    "Small scripting language with classes, async functions and HTTP routes",
	ExecutionModel: "source -> lexer -> parser -> evaluator (or compiler -> bytecode -> vm)",
}

func buildQuickReference() docsQuickReference {
	return docsQuickReference{
		Hexza:          docsAbout,
		SyntaxQuickRef: docsSyntaxQuickRef,
		Topics: map[string]string{
			"builtins": "Built-in functions (print, len, range, ...)",
			"types":    "Value types and their methods",
			"syntax":   "Complete syntax reference",
			"errors":   "Error kinds and how to fix them",
		},
	}
}

func buildFullDocumentation() docsFullDocumentation {
	return docsFullDocumentation{
		Hexza:    docsAbout,
		Builtins: builtins.Docs(),
		Types:    typeDocs(),
		Syntax:   docsSyntaxSections,
		Errors:   docsErrorPatterns,
	}
}

func buildCategoryDocs(category string) *Documentation {
	switch category {
	case "builtins":
		fns := builtins.Docs()
		return &Documentation{data: map[string]any{
			"category":  "builtins",
			"count":     len(fns),
			"functions": fns,
		}}
	case "types":
		types := typeDocs()
		return &Documentation{data: map[string]any{
			"category": "types",
			"count":    len(types),
			"types":    types,
		}}
	case "syntax":
		return &Documentation{data: map[string]any{
			"category": "syntax",
			"sections": docsSyntaxSections,
		}}
	case "errors":
		return &Documentation{data: map[string]any{
			"category": "errors",
			"patterns": docsErrorPatterns,
		}}
	default:
		msg := "unknown category: " + category
		return &Documentation{data: map[string]any{"error": msg}, err: msg}
	}
}

func buildTopicDocs(topic string) *Documentation {
	for _, t := range typeDocs() {
		if t.Name == topic {
			return &Documentation{data: map[string]any{"type": "type", "info": t}}
		}
	}
	for _, fn := range builtins.Docs() {
		if fn.Name == topic {
			return &Documentation{data: map[string]any{"type": "builtin", "function": fn}}
		}
	}
	msg := "unknown topic: " + topic
	return &Documentation{data: map[string]any{"error": msg}, err: msg}
}

var typeDescriptions = map[object.Type]string{
	object.BOOL:      "Boolean value (true or false)",
	object.BUILTIN:   "Function implemented in Go",
	object.CLASS:     "Class declared with class, callable through new",
	object.FLOAT:     "64-bit floating point number",
	object.FUNCTION:  "User-defined function, lambda or bound method",
	object.INSTANCE:  "Object created by new",
	object.INT:       "64-bit signed integer",
	object.LIST:      "Mutable ordered collection of values",
	object.MAP:       "Mutable mapping with string keys, kept in insertion order",
	object.MODULE:    "Exports of an imported Hexza file",
	object.NAMESPACE: "View over a frame of variables, such as global",
	object.NIL:       "Absence of a value",
	object.PROXY:     "Module implemented by a foreign interpreter",
	object.STRING:    "Immutable sequence of Unicode characters",
	object.TASK:      "Pending result of an async function call",
}

func typeDocs() []docsTypeInfo {
	types := make([]docsTypeInfo, 0, len(typeDescriptions))
	for typ, doc := range typeDescriptions {
		t := docsTypeInfo{Name: string(typ), Doc: doc}
		switch typ {
		case object.LIST:
			t.Methods = object.NewList(nil).Methods()
		case object.STRING:
			t.Methods = object.NewString("").Methods()
		}
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types
}

var docsSyntaxQuickRef = []docsSyntaxPattern{
	{Pattern: "let x = 1;", Description: "Variable declaration"},
	{Pattern: "const PI = 3.14;", Description: "Constant declaration"},
	{Pattern: "func add(a, b) { return a + b; }", Description: "Named function"},
	{Pattern: "lambda (x) -> x * 2", Description: "Single-expression function"},
	{Pattern: "class Dog < Animal { func init(n) { this.n = n; } }", Description: "Class with a base class"},
	{Pattern: "new Dog(\"rex\")", Description: "Instance creation"},
	{Pattern: "async func f() { return await g(); }", Description: "Async function"},
	{Pattern: "import \"lib/util.hx\" as util;", Description: "Import a module"},
	{Pattern: "api Shop { GET \"/items\" -> list_items; }", Description: "HTTP routes"},
}

var docsSyntaxSections = []docsSyntaxSection{
	{
		Name: "literals",
		Items: []docsSyntaxItem{
			{Syntax: "42, 3.14", Notes: "Int and float literals"},
			{Syntax: `"hi", 'hi'`, Notes: "Strings with escapes"},
			{Syntax: `"""multi"""`, Notes: "Multiline string"},
			{Syntax: "true, false, null", Notes: "Boolean and null literals"},
			{Syntax: "[1, 2], {a: 1, \"b\": 2}", Notes: "List and map literals"},
		},
	},
	{
		Name: "variables",
		Items: []docsSyntaxItem{
			{Syntax: "let x = v; var y = v;", Notes: "Mutable variables"},
			{Syntax: "const X = v;", Notes: "Constant, reassignment is an error"},
			{Syntax: "x = v; x += 1; x++;", Notes: "Assignment and compound operators"},
			{Syntax: "global.x = v", Notes: "Write a global from any function"},
		},
	},
	{
		Name: "control_flow",
		Items: []docsSyntaxItem{
			{Syntax: "if (c) { } else if (d) { } else { }", Notes: "Conditional"},
			{Syntax: "c ? a : b", Notes: "Ternary"},
			{Syntax: "while (c) { }", Notes: "Loop"},
			{Syntax: "for (let i = 0; i < n; i++) { }", Notes: "C-style loop"},
			{Syntax: "for (x in items) { }", Notes: "Iterate list items, map keys or string characters"},
			{Syntax: "break; continue;", Notes: "Loop control"},
			{Syntax: "try { } catch (e) { } finally { }", Notes: "Error handling, e is the message"},
			{Syntax: "throw \"message\";", Notes: "Raise an error"},
		},
	},
	{
		Name: "operators",
		Items: []docsSyntaxItem{
			{Syntax: "+ - * / % **", Notes: "Arithmetic"},
			{Syntax: "== != < > <= >=", Notes: "Comparison"},
			{Syntax: "and or not && || !", Notes: "Logical"},
			{Syntax: "& | ^ << >> ~", Notes: "Bitwise"},
		},
	},
}

var docsErrorPatterns = []docsErrorPattern{
	{
		Kind:    string(errors.NameError),
		Code:    errors.CodeFor(errors.NameError),
		Causes:  []string{"Typo in a variable or function name", "Variable used before it is declared"},
		BadCode: "print(totl);",
		Fix:     "print(total);",
	},
	{
		Kind:    string(errors.ConstError),
		Code:    errors.CodeFor(errors.ConstError),
		Causes:  []string{"Assigning to a name declared with const"},
		BadCode: "const N = 1; N = 2;",
		Fix:     "let n = 1; n = 2;",
	},
	{
		Kind:    string(errors.TypeError),
		Code:    errors.CodeFor(errors.TypeError),
		Causes:  []string{"Operator applied to types it does not support", "Wrong argument type for a builtin"},
		BadCode: `"a" - 1`,
		Fix:     `"a" + str(1)`,
	},
	{
		Kind:    string(errors.CallError),
		Code:    errors.CodeFor(errors.CallError),
		Causes:  []string{"Calling a value that is not a function", "Wrong number of arguments to a builtin"},
		BadCode: "let x = 1; x();",
		Fix:     "let x = lambda -> 1; x();",
	},
	{
		Kind:    string(errors.IndexError),
		Code:    errors.CodeFor(errors.IndexError),
		Causes:  []string{"List index past the end"},
		BadCode: "[1, 2][5]",
		Fix:     "[1, 2][1]",
	},
}
