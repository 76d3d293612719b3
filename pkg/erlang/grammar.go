// Package erlang defines the Erlang grammar on top of the peg engine and
// exposes ready-made parser configurations.
//
// The grammar is lexerless: whitespace and comments are consumed by the
// Spacing rule after every token, and comments end up in the tree as Comment
// leaves so that line-oriented checks can see them.
package erlang

import (
	"github.com/Sumatoshi-tech/erlfang/pkg/ast"
	"github.com/Sumatoshi-tech/erlfang/pkg/peg"
)

// GrammarName is the name of the Erlang grammar.
const GrammarName = "erlang"

//nolint:gochecknoglobals // Static keyword table.
var reservedWords = []string{
	"after", "andalso", "and", "band", "begin", "bnot", "bor", "bsl", "bsr", "bxor",
	"case", "catch", "cond", "div", "end", "fun", "if", "let", "not", "of",
	"orelse", "or", "receive", "rem", "try", "when", "xor",
}

const (
	identChars = "a-zA-Z0-9_@À-ÖØ-öø-ÿ"
	spaceChars = " \t\r\n\f\v"
)

func ref(name string) peg.Expr { return peg.Ref(name) }

func sp() peg.Expr { return ref("Spacing") }

func identChar() peg.Expr { return peg.Class(identChars) }

// kw matches a reserved word as a Keyword leaf.
func kw(word string) peg.Expr {
	return peg.Seq(peg.Token(ast.Keyword, peg.Seq(peg.Lit(word), peg.Not(identChar()))), sp())
}

// atomWord matches a specific unquoted atom, e.g. the name of a known attribute.
func atomWord(word string) peg.Expr {
	return peg.Seq(peg.Token(ast.Atom, peg.Seq(peg.Lit(word), peg.Not(identChar()))), sp())
}

// punct matches a punctuator that must not be directly followed by any
// character of notFollowedBy.
func punct(text, notFollowedBy string) peg.Expr {
	inner := peg.Lit(text)
	if notFollowedBy != "" {
		inner = peg.Seq(inner, peg.Not(peg.Class(notFollowedBy)))
	}

	return peg.Seq(peg.Token(ast.Punctuator, inner), sp())
}

func p(text string) peg.Expr { return punct(text, "") }

func commaList(item peg.Expr) peg.Expr {
	return peg.Seq(item, peg.ZeroOrMore(peg.Seq(p(","), item)))
}

func sepList(sep, item peg.Expr) peg.Expr {
	return peg.Seq(item, peg.ZeroOrMore(peg.Seq(sep, item)))
}

func reserved() peg.Expr {
	alts := make([]peg.Expr, 0, len(reservedWords))
	for _, word := range reservedWords {
		alts = append(alts, peg.Seq(peg.Lit(word), peg.Not(identChar())))
	}

	return peg.Choice(alts...)
}

// NewGrammar builds the Erlang grammar.
func NewGrammar() (*peg.Grammar, error) {
	g := peg.NewGrammar(GrammarName)

	defineLexical(g)
	defineForms(g)
	defineExpressions(g)
	defineTypes(g)

	g.SetRoot("Module")

	err := g.Build()
	if err != nil {
		return nil, err
	}

	return g, nil
}

func defineLexical(g *peg.Grammar) {
	escape := peg.Seq(peg.Lit("\\"), peg.Choice(
		peg.Seq(peg.Class("0-7"), peg.Optional(peg.Class("0-7")), peg.Optional(peg.Class("0-7"))),
		peg.Seq(peg.Lit("x{"), peg.OneOrMore(peg.Class("0-9a-fA-F")), peg.Lit("}")),
		peg.Seq(peg.Lit("x"), peg.Class("0-9a-fA-F"), peg.Class("0-9a-fA-F")),
		peg.Seq(peg.Lit("^"), peg.Any()),
		peg.Any(),
	))

	quoted := func(delim string) peg.Expr {
		return peg.Seq(
			peg.Lit(delim),
			peg.ZeroOrMore(peg.Choice(escape, peg.Seq(peg.Not(peg.Lit(delim)), peg.Any()))),
			peg.Lit(delim),
		)
	}

	toEOL := peg.ZeroOrMore(peg.Seq(peg.Not(peg.Lit("\n")), peg.Any()))

	g.Transparent("Spacing", peg.ZeroOrMore(peg.Choice(
		peg.OneOrMore(peg.Class(spaceChars)),
		peg.Trivia(ast.Comment, peg.Seq(peg.Lit("%"), toEOL)),
	)), peg.Quiet())

	g.Transparent("Shebang", peg.Trivia(ast.Comment, peg.Seq(peg.Lit("#!"), toEOL)))

	g.Transparent("AtomTok", peg.Seq(peg.Token(ast.Atom, peg.Choice(
		peg.Seq(peg.Not(reserved()), peg.Class("a-zß-öø-ÿ"), peg.ZeroOrMore(identChar())),
		quoted("'"),
	)), sp()))

	g.Transparent("VarTok", peg.Seq(
		peg.Token(ast.Variable, peg.Seq(peg.Class("A-Z_À-ÖØ-Þ"), peg.ZeroOrMore(identChar()))),
		sp(),
	))

	digits := peg.Seq(
		peg.OneOrMore(peg.Class("0-9")),
		peg.ZeroOrMore(peg.Seq(peg.Lit("_"), peg.OneOrMore(peg.Class("0-9")))),
	)

	g.Transparent("IntegerTok", peg.Seq(peg.Token(ast.Integer, peg.Choice(
		peg.Seq(peg.OneOrMore(peg.Class("0-9")), peg.Lit("#"), peg.OneOrMore(peg.Class("0-9a-zA-Z_"))),
		digits,
	)), sp()))

	g.Transparent("FloatTok", peg.Seq(peg.Token(ast.Float, peg.Seq(
		digits, peg.Lit("."), digits,
		peg.Optional(peg.Seq(peg.Class("eE"), peg.Optional(peg.Class("+-")), digits)),
	)), sp()))

	g.Transparent("CharTok", peg.Seq(
		peg.Token(ast.Char, peg.Seq(peg.Lit("$"), peg.Choice(escape, peg.Any()))),
		sp(),
	))

	g.Transparent("StringTok", peg.Seq(peg.Token(ast.String, quoted(`"`)), sp()))

	// A form ends with a dot followed by whitespace, a comment, or end of input.
	g.Transparent("FormEnd", peg.Seq(
		peg.Token(ast.Punctuator, peg.Lit(".")),
		peg.Choice(peg.And(peg.Class(spaceChars+"%")), peg.EOF()),
	))
}

func defineForms(g *peg.Grammar) {
	dash := punct("-", "->")
	lp, rp := p("("), p(")")
	funArityList := peg.Seq(p("["), peg.Optional(commaList(ref("FunArity"))), p("]"))

	g.Rule("Module", ast.Module, peg.Seq(
		peg.Optional(ref("Shebang")),
		sp(),
		peg.ZeroOrMore(peg.Seq(ref("Form"), sp())),
		peg.EOF(),
	))

	g.Transparent("Form", peg.Choice(
		ref("ModuleAttr"),
		ref("ExportAttr"),
		ref("ImportAttr"),
		ref("RecordAttr"),
		ref("TypeAttr"),
		ref("SpecAttr"),
		ref("DefineAttr"),
		ref("Attribute"),
		ref("Function"),
	))

	g.Rule("ModuleAttr", ast.ModuleAttr, peg.Seq(
		dash, atomWord("module"), lp, ref("AtomTok"),
		peg.Optional(peg.Seq(p(","), ref("Expression"))),
		rp, ref("FormEnd"),
	))

	g.Rule("ExportAttr", ast.ExportAttr, peg.Seq(
		dash, atomWord("export"), lp, funArityList, rp, ref("FormEnd"),
	))

	g.Rule("ImportAttr", ast.ImportAttr, peg.Seq(
		dash, atomWord("import"), lp, ref("AtomTok"), p(","), funArityList, rp, ref("FormEnd"),
	))

	g.Rule("FunArity", ast.FunArity, peg.Seq(ref("AtomTok"), punct("/", "="), ref("IntegerTok")))

	g.Rule("RecordAttr", ast.RecordAttr, peg.Seq(
		dash, atomWord("record"), lp, ref("AtomTok"), p(","),
		p("{"), peg.Optional(commaList(ref("RecordFieldDecl"))), p("}"),
		rp, ref("FormEnd"),
	))

	g.Rule("RecordFieldDecl", ast.RecordFieldDecl, peg.Seq(
		ref("AtomTok"),
		peg.Optional(peg.Seq(ref("Eq"), ref("Expression"))),
		peg.Optional(peg.Seq(p("::"), ref("Type"))),
	))

	typeDef := peg.Seq(
		ref("AtomTok"), lp, peg.Optional(commaList(ref("VarTok"))), rp, p("::"), ref("Type"),
	)

	g.Rule("TypeAttr", ast.TypeAttr, peg.Seq(
		dash, peg.Choice(atomWord("type"), atomWord("opaque")),
		peg.Choice(peg.Seq(lp, typeDef, rp), typeDef),
		ref("FormEnd"),
	))

	specBody := peg.Seq(
		peg.Optional(peg.Seq(ref("AtomTok"), ref("Colon"))),
		ref("AtomTok"),
		sepList(p(";"), ref("FunType")),
	)

	g.Rule("SpecAttr", ast.SpecAttr, peg.Seq(
		dash, peg.Choice(atomWord("spec"), atomWord("callback")),
		peg.Choice(peg.Seq(lp, specBody, rp), specBody),
		ref("FormEnd"),
	))

	macroExpr := peg.Choice(ref("Guard"), ref("Expression"))

	g.Rule("DefineAttr", ast.DefineAttr, peg.Seq(
		dash, atomWord("define"), lp,
		peg.Choice(ref("AtomTok"), ref("VarTok")),
		peg.Optional(peg.Seq(lp, peg.Optional(commaList(ref("VarTok"))), rp)),
		p(","),
		peg.Optional(sepList(peg.Choice(p(","), p(";")), macroExpr)),
		rp, ref("FormEnd"),
	))

	// Preprocessor conditionals are named by reserved words.
	g.Rule("Attribute", ast.Attribute, peg.Seq(
		dash, peg.Choice(atomWord("if"), atomWord("elif"), ref("AtomTok")),
		peg.Choice(
			peg.Seq(lp, peg.Optional(commaList(ref("Expression"))), rp),
			peg.Optional(ref("Expression")),
		),
		ref("FormEnd"),
	))

	g.Rule("Function", ast.Function, peg.Seq(
		sepList(p(";"), ref("FunctionClause")),
		ref("FormEnd"),
	))

	g.Rule("FunctionClause", ast.FunctionClause, peg.Seq(
		ref("AtomTok"), ref("ClauseArgs"), peg.Optional(ref("Guard")), p("->"), ref("Body"),
	))

	g.Rule("ClauseArgs", ast.ClauseArgs, peg.Seq(lp, peg.Optional(commaList(ref("Expression"))), rp))

	g.Rule("Guard", ast.Guard, peg.Seq(kw("when"), ref("GuardSeq")))

	g.Transparent("GuardSeq", sepList(peg.Choice(p(";"), p(",")), ref("Expression")))

	g.Transparent("Body", commaList(ref("Statement")))

	g.Rule("Statement", ast.Statement, ref("Expression"))
}

func defineExpressions(g *peg.Grammar) {
	lp, rp := p("("), p(")")
	skip := peg.SkipIfOneChild()

	g.Transparent("Eq", punct("=", "=:/<>"))
	g.Transparent("Colon", punct(":", ":="))

	g.Transparent("Expression", peg.Choice(ref("CatchExpr"), ref("MatchExpr")), peg.Memo())

	g.Rule("CatchExpr", ast.CatchExpr, peg.Seq(kw("catch"), ref("Expression")))

	g.Rule("MatchExpr", ast.MatchExpr, peg.Seq(
		ref("SendExpr"),
		peg.Optional(peg.Seq(ref("Eq"), peg.Choice(ref("CatchExpr"), ref("MatchExpr")))),
	), skip)

	g.Rule("SendExpr", ast.SendExpr, peg.Seq(
		ref("OrElseExpr"),
		peg.Optional(peg.Seq(p("!"), peg.Choice(ref("CatchExpr"), ref("SendExpr")))),
	), skip)

	g.Rule("OrElseExpr", ast.OrElseExpr, sepList(kw("orelse"), ref("AndAlsoExpr")), skip)

	g.Rule("AndAlsoExpr", ast.AndAlsoExpr, sepList(kw("andalso"), ref("CompareExpr")), skip)

	compOp := peg.Choice(
		p("=:="), p("=/="), p("=="), p("/="), p("=<"), p(">="),
		punct("<", "-=<"), punct(">", "=>"),
	)

	g.Rule("CompareExpr", ast.CompareExpr, peg.Seq(
		ref("ListOpExpr"),
		peg.Optional(peg.Seq(compOp, ref("ListOpExpr"))),
	), skip)

	g.Rule("ListOpExpr", ast.ListOpExpr, peg.Seq(
		ref("AdditiveExpr"),
		peg.Optional(peg.Seq(peg.Choice(p("++"), p("--")), ref("ListOpExpr"))),
	), skip)

	addOp := peg.Choice(
		punct("+", "+"), punct("-", "->"),
		kw("bor"), kw("bxor"), kw("bsl"), kw("bsr"), kw("or"), kw("xor"),
	)

	g.Rule("AdditiveExpr", ast.AdditiveExpr, sepList(addOp, ref("MultiplicativeExpr")), skip)

	mulOp := peg.Choice(punct("/", "="), p("*"), kw("div"), kw("rem"), kw("band"), kw("and"))

	g.Rule("MultiplicativeExpr", ast.MultiplicativeExpr, sepList(mulOp, ref("PrefixExpr")), skip)

	g.Transparent("PrefixOp", peg.Choice(punct("+", "+"), punct("-", "->"), kw("bnot"), kw("not")))

	g.Rule("PrefixExpr", ast.PrefixExpr, peg.Choice(
		peg.Seq(ref("PrefixOp"), ref("PrefixExpr")),
		ref("AccessExpr"),
	), skip)

	g.Rule("AccessExpr", ast.AccessExpr, peg.Seq(
		ref("CallExpr"),
		peg.ZeroOrMore(peg.Choice(ref("MapTail"), ref("RecordTail"))),
	), skip)

	g.Rule("CallExpr", ast.CallExpr, peg.Seq(ref("RemoteExpr"), peg.ZeroOrMore(ref("Arguments"))), skip)

	g.Rule("RemoteExpr", ast.RemoteExpr, peg.Seq(
		ref("Primary"),
		peg.Optional(peg.Seq(ref("Colon"), ref("Primary"))),
	), skip)

	g.Rule("Arguments", ast.Arguments, peg.Seq(lp, peg.Optional(commaList(ref("Expression"))), rp))

	g.Transparent("Primary", peg.Choice(
		ref("VarTok"),
		ref("CaseExpr"),
		ref("IfExpr"),
		ref("ReceiveExpr"),
		ref("TryExpr"),
		ref("BeginExpr"),
		ref("FunExpr"),
		ref("ParenExpr"),
		ref("TupleExpr"),
		ref("ListComprehension"),
		ref("ListExpr"),
		ref("BinaryComprehension"),
		ref("BinaryExpr"),
		ref("MapComprehension"),
		ref("MapTail"),
		ref("RecordTail"),
		ref("MacroCall"),
		ref("AtomTok"),
		ref("FloatTok"),
		ref("IntegerTok"),
		ref("CharTok"),
		peg.OneOrMore(peg.Choice(ref("StringTok"), ref("MacroCall"))),
	))

	g.Rule("ParenExpr", ast.ParenExpr, peg.Seq(lp, ref("Expression"), rp))

	g.Rule("TupleExpr", ast.TupleExpr, peg.Seq(p("{"), peg.Optional(commaList(ref("Expression"))), p("}")))

	g.Rule("ListExpr", ast.ListExpr, peg.Seq(
		p("["),
		peg.Optional(peg.Seq(
			commaList(ref("Expression")),
			peg.Optional(peg.Seq(punct("|", "|"), ref("Expression"))),
		)),
		p("]"),
	))

	g.Rule("ListComprehension", ast.ListComprehension, peg.Seq(
		p("["), ref("Expression"), p("||"), ref("Qualifiers"), p("]"),
	))

	g.Transparent("Qualifiers", commaList(peg.Choice(ref("Generator"), ref("Expression"))))

	g.Rule("Generator", ast.Generator, peg.Seq(
		ref("Expression"),
		peg.Optional(peg.Seq(p(":="), ref("Expression"))),
		peg.Choice(p("<-"), p("<=")),
		ref("Expression"),
	))

	g.Rule("BinaryExpr", ast.BinaryExpr, peg.Seq(
		p("<<"), peg.Optional(commaList(ref("BinaryElement"))), p(">>"),
	))

	g.Rule("BinaryComprehension", ast.BinaryComprehension, peg.Seq(
		p("<<"), ref("BinaryElement"), p("||"), ref("Qualifiers"), p(">>"),
	))

	binType := peg.Seq(ref("AtomTok"), peg.Optional(peg.Seq(ref("Colon"), ref("IntegerTok"))))

	g.Rule("BinaryElement", ast.BinaryElement, peg.Seq(
		peg.Choice(ref("BinaryPrefix"), ref("Primary")),
		peg.Optional(peg.Seq(ref("Colon"), ref("Primary"))),
		peg.Optional(peg.Seq(punct("/", "="), sepList(punct("-", "->"), binType))),
	), peg.Memo())

	g.Rule("BinaryPrefix", ast.PrefixExpr, peg.Seq(ref("PrefixOp"), ref("Primary")))

	g.Rule("MapComprehension", ast.MapComprehension, peg.Seq(
		p("#"), p("{"), ref("MapAssoc"), p("||"), ref("Qualifiers"), p("}"),
	))

	g.Rule("MapTail", ast.MapExpr, peg.Seq(
		p("#"), p("{"), peg.Optional(commaList(ref("MapAssoc"))), p("}"),
	))

	g.Rule("MapAssoc", ast.MapAssoc, peg.Seq(
		ref("Expression"), peg.Choice(p("=>"), p(":=")), ref("Expression"),
	), peg.Memo())

	recordName := peg.Choice(ref("MacroCall"), ref("AtomTok"))

	// A record field access dot is never followed by spacing, which would make it a form end.
	recDot := peg.Seq(peg.Token(ast.Punctuator, peg.Seq(peg.Lit("."), peg.Not(peg.Class(spaceChars+"%.")))), sp())

	g.Rule("RecordTail", ast.RecordExpr, peg.Seq(
		p("#"), recordName,
		peg.Choice(
			peg.Seq(recDot, ref("AtomTok")),
			peg.Seq(p("{"), peg.Optional(commaList(ref("RecordField"))), p("}")),
		),
	))

	g.Rule("RecordField", ast.RecordField, peg.Seq(
		peg.Choice(ref("AtomTok"), ref("VarTok")), ref("Eq"), ref("Expression"),
	))

	g.Rule("MacroCall", ast.MacroCall, peg.Seq(
		peg.Token(ast.Punctuator, peg.Seq(peg.Lit("?"), peg.Optional(peg.Lit("?")))), sp(),
		peg.Choice(ref("AtomTok"), ref("VarTok")),
		peg.Optional(ref("Arguments")),
	))

	g.Rule("CaseExpr", ast.CaseExpr, peg.Seq(
		kw("case"), ref("Expression"), kw("of"), ref("CrClauses"), kw("end"),
	))

	g.Transparent("CrClauses", sepList(p(";"), ref("CrClause")))

	g.Rule("CrClause", ast.CrClause, peg.Seq(
		ref("Expression"), peg.Optional(ref("Guard")), p("->"), ref("Body"),
	))

	g.Rule("IfExpr", ast.IfExpr, peg.Seq(
		kw("if"), sepList(p(";"), ref("IfClause")), kw("end"),
	))

	g.Rule("IfClause", ast.IfClause, peg.Seq(
		sepList(peg.Choice(p(","), p(";")), ref("Expression")), p("->"), ref("Body"),
	))

	g.Rule("ReceiveExpr", ast.ReceiveExpr, peg.Seq(
		kw("receive"), peg.Optional(ref("CrClauses")), peg.Optional(ref("AfterClause")), kw("end"),
	))

	g.Rule("AfterClause", ast.AfterClause, peg.Seq(
		kw("after"), ref("Expression"), p("->"), ref("Body"),
	))

	g.Rule("FunExpr", ast.FunExpr, peg.Seq(
		kw("fun"),
		peg.Choice(
			ref("FunRef"),
			peg.Seq(sepList(p(";"), ref("FunClause")), kw("end")),
		),
	))

	funName := peg.Choice(ref("AtomTok"), ref("VarTok"), ref("MacroCall"))

	g.Rule("FunRef", ast.FunRef, peg.Seq(
		peg.Optional(peg.Seq(funName, ref("Colon"))),
		funName,
		punct("/", "="),
		peg.Choice(ref("IntegerTok"), ref("VarTok"), ref("MacroCall")),
	))

	g.Rule("FunClause", ast.FunClause, peg.Seq(
		peg.Optional(ref("VarTok")), ref("ClauseArgs"), peg.Optional(ref("Guard")), p("->"), ref("Body"),
	))

	g.Rule("TryExpr", ast.TryExpr, peg.Seq(
		kw("try"), ref("Body"),
		peg.Optional(peg.Seq(kw("of"), ref("CrClauses"))),
		peg.Optional(peg.Seq(kw("catch"), sepList(p(";"), ref("TryCatchClause")))),
		peg.Optional(ref("TryAfter")),
		kw("end"),
	))

	g.Rule("TryCatchClause", ast.TryCatchClause, peg.Seq(
		ref("Expression"),
		peg.Optional(peg.Seq(ref("Colon"), ref("Expression"))),
		peg.Optional(peg.Seq(ref("Colon"), ref("VarTok"))),
		peg.Optional(ref("Guard")),
		p("->"), ref("Body"),
	))

	g.Rule("TryAfter", ast.TryAfter, peg.Seq(kw("after"), ref("Body")))

	g.Rule("BeginExpr", ast.BeginExpr, peg.Seq(kw("begin"), ref("Body"), kw("end")))
}

func defineTypes(g *peg.Grammar) {
	lp, rp := p("("), p(")")
	arrow := p("->")

	g.Rule("FunType", ast.TypeExpr, peg.Seq(
		lp, peg.Optional(commaList(ref("Type"))), rp, arrow, ref("Type"),
		peg.Optional(peg.Seq(kw("when"), commaList(ref("TypeConstraint")))),
	))

	g.Transparent("TypeConstraint", peg.Choice(
		peg.Seq(ref("VarTok"), p("::"), ref("Type")),
		ref("Type"),
	))

	g.Rule("Type", ast.TypeExpr, sepList(punct("|", "|"), ref("TypeRange")), peg.SkipIfOneChild(), peg.Memo())

	g.Transparent("TypeRange", peg.Seq(
		ref("TypePrimary"),
		peg.Optional(peg.Seq(punct("..", "."), ref("TypePrimary"))),
	))

	g.Transparent("TypePrimary", peg.Choice(
		ref("TypeAnnotated"),
		ref("TypeFun"),
		peg.Seq(lp, ref("Type"), rp),
		ref("TypeTuple"),
		ref("TypeList"),
		ref("TypeMap"),
		ref("TypeRecord"),
		ref("TypeBinary"),
		ref("TypeCall"),
		ref("MacroCall"),
		peg.Seq(punct("-", "->"), ref("IntegerTok")),
		ref("IntegerTok"),
		ref("CharTok"),
		ref("AtomTok"),
		ref("VarTok"),
	))

	g.Rule("TypeAnnotated", ast.TypeExpr, peg.Seq(ref("VarTok"), p("::"), ref("Type")))

	g.Rule("TypeFun", ast.TypeExpr, peg.Seq(
		kw("fun"), lp,
		peg.Optional(peg.Seq(
			lp, peg.Optional(peg.Choice(p("..."), commaList(ref("Type")))), rp, arrow, ref("Type"),
		)),
		rp,
	))

	g.Rule("TypeTuple", ast.TypeExpr, peg.Seq(p("{"), peg.Optional(commaList(ref("Type"))), p("}")))

	g.Rule("TypeList", ast.TypeExpr, peg.Seq(
		p("["),
		peg.Optional(peg.Seq(ref("Type"), peg.Optional(peg.Seq(p(","), p("..."))))),
		p("]"),
	))

	g.Rule("TypeMap", ast.TypeExpr, peg.Seq(
		p("#"), p("{"),
		peg.Optional(commaList(peg.Seq(ref("Type"), peg.Choice(p("=>"), p(":=")), ref("Type")))),
		p("}"),
	))

	g.Rule("TypeRecord", ast.TypeExpr, peg.Seq(
		p("#"), peg.Choice(ref("MacroCall"), ref("AtomTok")), p("{"),
		peg.Optional(commaList(peg.Seq(ref("AtomTok"), p("::"), ref("Type")))),
		p("}"),
	))

	g.Rule("TypeBinary", ast.TypeExpr, peg.Seq(
		p("<<"),
		peg.ZeroOrMore(peg.Choice(ref("VarTok"), ref("IntegerTok"), ref("Colon"), p(","), p("*"))),
		p(">>"),
	))

	g.Rule("TypeCall", ast.TypeExpr, peg.Seq(
		peg.Optional(peg.Seq(ref("AtomTok"), ref("Colon"))),
		ref("AtomTok"), lp, peg.Optional(commaList(ref("Type"))), rp,
	))
}
