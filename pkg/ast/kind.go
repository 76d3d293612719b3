package ast

// Kind identifies the grammar production a node was built from.
type Kind uint16

// Form and clause kinds.
const (
	KindInvalid Kind = iota

	Module
	ModuleAttr
	ExportAttr
	ImportAttr
	RecordAttr
	TypeAttr
	SpecAttr
	DefineAttr
	Attribute
	FunArity
	RecordFieldDecl
	Function
	FunctionClause
	ClauseArgs
	Guard
	Statement

	// Expressions.
	CatchExpr
	MatchExpr
	SendExpr
	OrElseExpr
	AndAlsoExpr
	CompareExpr
	ListOpExpr
	AdditiveExpr
	MultiplicativeExpr
	PrefixExpr
	AccessExpr
	CallExpr
	RemoteExpr
	Arguments
	RecordExpr
	MapExpr
	MapAssoc
	RecordField
	CaseExpr
	CrClause
	IfExpr
	IfClause
	ReceiveExpr
	AfterClause
	FunExpr
	FunRef
	FunClause
	TryExpr
	TryCatchClause
	TryAfter
	BeginExpr
	ParenExpr
	ListExpr
	ListComprehension
	Generator
	TupleExpr
	BinaryExpr
	BinaryComprehension
	BinaryElement
	MapComprehension
	MacroCall
	TypeExpr

	// Leaves.
	Atom
	Variable
	Integer
	Float
	Char
	String
	Comment
	Keyword
	Punctuator

	kindCount
)

//nolint:gochecknoglobals // Static lookup table.
var kindNames = [...]string{
	KindInvalid:         "Invalid",
	Module:              "Module",
	ModuleAttr:          "ModuleAttr",
	ExportAttr:          "ExportAttr",
	ImportAttr:          "ImportAttr",
	RecordAttr:          "RecordAttr",
	TypeAttr:            "TypeAttr",
	SpecAttr:            "SpecAttr",
	DefineAttr:          "DefineAttr",
	Attribute:           "Attribute",
	FunArity:            "FunArity",
	RecordFieldDecl:     "RecordFieldDecl",
	Function:            "Function",
	FunctionClause:      "FunctionClause",
	ClauseArgs:          "ClauseArgs",
	Guard:               "Guard",
	Statement:           "Statement",
	CatchExpr:           "CatchExpr",
	MatchExpr:           "MatchExpr",
	SendExpr:            "SendExpr",
	OrElseExpr:          "OrElseExpr",
	AndAlsoExpr:         "AndAlsoExpr",
	CompareExpr:         "CompareExpr",
	ListOpExpr:          "ListOpExpr",
	AdditiveExpr:        "AdditiveExpr",
	MultiplicativeExpr:  "MultiplicativeExpr",
	PrefixExpr:          "PrefixExpr",
	AccessExpr:          "AccessExpr",
	CallExpr:            "CallExpr",
	RemoteExpr:          "RemoteExpr",
	Arguments:           "Arguments",
	RecordExpr:          "RecordExpr",
	MapExpr:             "MapExpr",
	MapAssoc:            "MapAssoc",
	RecordField:         "RecordField",
	CaseExpr:            "CaseExpr",
	CrClause:            "CrClause",
	IfExpr:              "IfExpr",
	IfClause:            "IfClause",
	ReceiveExpr:         "ReceiveExpr",
	AfterClause:         "AfterClause",
	FunExpr:             "FunExpr",
	FunRef:              "FunRef",
	FunClause:           "FunClause",
	TryExpr:             "TryExpr",
	TryCatchClause:      "TryCatchClause",
	TryAfter:            "TryAfter",
	BeginExpr:           "BeginExpr",
	ParenExpr:           "ParenExpr",
	ListExpr:            "ListExpr",
	ListComprehension:   "ListComprehension",
	Generator:           "Generator",
	TupleExpr:           "TupleExpr",
	BinaryExpr:          "BinaryExpr",
	BinaryComprehension: "BinaryComprehension",
	BinaryElement:       "BinaryElement",
	MapComprehension:    "MapComprehension",
	MacroCall:           "MacroCall",
	TypeExpr:            "TypeExpr",
	Atom:                "Atom",
	Variable:            "Variable",
	Integer:             "Integer",
	Float:               "Float",
	Char:                "Char",
	String:              "String",
	Comment:             "Comment",
	Keyword:             "Keyword",
	Punctuator:          "Punctuator",
}

// String returns the production name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}

	return "Invalid"
}

// IsLeaf reports whether nodes of this kind carry a token instead of children.
func (k Kind) IsLeaf() bool {
	return k >= Atom && k < kindCount
}

// Kinds returns every valid node kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount-1)
	for k := Module; k < kindCount; k++ {
		kinds = append(kinds, k)
	}

	return kinds
}

// ParseKind resolves a production name back to its kind.
func ParseKind(name string) (Kind, bool) {
	for k := Module; k < kindCount; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}

	return KindInvalid, false
}
