package metrics

// Standard metric names.
const (
	Files                 = "files"
	Classes               = "classes"
	Functions             = "functions"
	FunctionClauses       = "function_clauses"
	Lines                 = "lines"
	LinesOfCode           = "lines_of_code"
	CommentLines          = "comment_lines"
	BlankLines            = "blank_lines"
	Statements            = "statements"
	Complexity            = "complexity"
	MaxFunctionComplexity = "max_function_complexity"
	PublicAPI             = "public_api"
	FunExpressions        = "fun_expressions"
	Macros                = "macros"
	Issues                = "issues"
	CommentLinesDensity   = "comment_lines_density"
)

const percent = 100

func summed(name, display, description string) Definition {
	return Definition{
		MetricMeta: MetricMeta{
			MetricName:        name,
			MetricDisplayName: display,
			MetricDescription: description,
			MetricType:        Sum.String(),
		},
		Aggregation: Sum,
	}
}

// StandardDefinitions returns the metrics recorded by the built-in visitors.
func StandardDefinitions() []Definition {
	return []Definition{
		summed(Files, "Files", "Number of Erlang source files."),
		summed(Classes, "Modules", "Number of -module declarations."),
		summed(Functions, "Functions", "Number of named functions, counted once per name and arity."),
		summed(FunctionClauses, "Function clauses", "Number of clauses over all named functions."),
		summed(Lines, "Lines", "Physical lines, including blank and comment lines."),
		summed(LinesOfCode, "Lines of code", "Lines holding at least one token that is not a comment."),
		summed(CommentLines, "Comment lines", "Lines holding a comment."),
		summed(BlankLines, "Blank lines", "Lines holding only whitespace."),
		summed(Statements, "Statements", "Body expressions of functions plus attributes."),
		summed(Complexity, "Cyclomatic complexity",
			"One per function plus one per extra clause, case/if/receive/catch branch, "+
				"andalso/orelse operator, and fun clause."),
		{
			MetricMeta: MetricMeta{
				MetricName:        MaxFunctionComplexity,
				MetricDisplayName: "Max function complexity",
				MetricDescription: "Highest complexity of a single function.",
				MetricType:        Max.String(),
			},
			Aggregation: Max,
		},
		summed(PublicAPI, "Public API", "Exported functions."),
		summed(FunExpressions, "Fun expressions", "Anonymous functions and fun references."),
		summed(Macros, "Macros", "-define attributes."),
		summed(Issues, "Issues", "Rule violations."),
		{
			MetricMeta: MetricMeta{
				MetricName:        CommentLinesDensity,
				MetricDisplayName: "Comment density (%)",
				MetricDescription: "comment_lines / (lines_of_code + comment_lines) * 100.",
				MetricType:        Calculated.String(),
			},
			Aggregation: Calculated,
			Formula:     commentDensity,
		},
	}
}

func commentDensity(values map[string]float64) (float64, bool) {
	code, hasCode := values[LinesOfCode]
	comments, hasComments := values[CommentLines]

	if !hasCode && !hasComments {
		return 0, false
	}

	total := code + comments
	if total == 0 {
		return 0, true
	}

	return comments / total * percent, true
}

// StandardRegistry returns a registry of [StandardDefinitions].
func StandardRegistry() *Registry {
	r, err := NewRegistry(StandardDefinitions()...)
	if err != nil {
		panic(err)
	}

	return r
}
