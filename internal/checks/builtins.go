package checks

import (
	"github.com/Sumatoshi-tech/erlfang/internal/analyze"
)

// Rule keys.
const (
	KeyMultipleBlankLines       = "MultipleBlankLines"
	KeyExportOneFunctionPerLine = "ExportOneFunctionPerLine"
	KeyLineLength               = "LineLength"
	KeyNoTabs                   = "NoTabs"
	KeyNoTrailingWhitespace     = "NoTrailingWhitespace"
	KeyDoNotUseExportAll        = "DoNotUseExportAll"
	KeyFunctionComplexity       = "FunctionComplexity"
	KeyNumberOfFunctionArgs     = "NumberOfFunctionArgs"
	KeyFunctionNamePattern      = "FunctionNamePattern"
	KeyVariableNamePattern      = "VariableNamePattern"
	KeyDepthOfCases             = "DepthOfCases"
)

// Parameter names and defaults.
const (
	ParamMaxBlankLinesInside  = "max_blank_lines_inside_functions"
	ParamMaxBlankLinesOutside = "max_blank_lines_outside_functions"
	ParamMaxLineLength        = "maximum_line_length"
	ParamMaxComplexity        = "maximum_function_complexity"
	ParamMaxArgs              = "maximum_function_args"
	ParamRegularExpression    = "regular_expression"
	ParamMaxNestingLevel      = "maximum_nesting_level"

	DefaultMaxBlankLinesInside  = 1
	DefaultMaxBlankLinesOutside = 2
	DefaultMaxLineLength        = 100
	DefaultMaxComplexity        = 10
	DefaultMaxArgs              = 6
	DefaultFunctionNamePattern  = `^[a-z][a-zA-Z0-9_]*$`
	DefaultVariableNamePattern  = `^(_|_?[A-Z][a-zA-Z0-9_]*)$`
	DefaultMaxNestingLevel      = 4
)

func builtins() []Definition {
	return []Definition{
		{
			Descriptor: Descriptor{
				Key:         KeyMultipleBlankLines,
				Description: "Consecutive blank lines should not exceed a threshold.",
				Severity:    SeverityMinor,
				Params: []Param{
					{ParamMaxBlankLinesInside, "Maximum consecutive blank lines inside a function.", DefaultMaxBlankLinesInside},
					{ParamMaxBlankLinesOutside, "Maximum consecutive blank lines outside of functions.", DefaultMaxBlankLinesOutside},
				},
			},
			New: newMultipleBlankLines,
		},
		{
			Descriptor: Descriptor{
				Key:         KeyExportOneFunctionPerLine,
				Description: "Each exported function should be on its own line.",
				Severity:    SeverityMinor,
			},
			New: func(Params) (analyze.Visitor, error) { return &exportOnePerLine{}, nil },
		},
		{
			Descriptor: Descriptor{
				Key:         KeyLineLength,
				Description: "Lines should not be too long.",
				Severity:    SeverityMinor,
				Params:      []Param{{ParamMaxLineLength, "Maximum authorized line length.", DefaultMaxLineLength}},
			},
			New: newLineLength,
		},
		{
			Descriptor: Descriptor{
				Key:         KeyNoTabs,
				Description: "Tabulation characters should not be used.",
				Severity:    SeverityMinor,
			},
			New: func(Params) (analyze.Visitor, error) { return &noTabs{}, nil },
		},
		{
			Descriptor: Descriptor{
				Key:         KeyNoTrailingWhitespace,
				Description: "Lines should not end with white space.",
				Severity:    SeverityMinor,
			},
			New: func(Params) (analyze.Visitor, error) { return &noTrailingWhitespace{}, nil },
		},
		{
			Descriptor: Descriptor{
				Key:         KeyDoNotUseExportAll,
				Description: "The export_all compile option should not be used.",
				Severity:    SeverityMajor,
			},
			New: func(Params) (analyze.Visitor, error) { return &noExportAll{}, nil },
		},
		{
			Descriptor: Descriptor{
				Key:         KeyFunctionComplexity,
				Description: "Functions should not be too complex.",
				Severity:    SeverityMajor,
				Params:      []Param{{ParamMaxComplexity, "Maximum authorized complexity.", DefaultMaxComplexity}},
			},
			New: newFunctionComplexity,
		},
		{
			Descriptor: Descriptor{
				Key:         KeyNumberOfFunctionArgs,
				Description: "Functions should not have too many arguments.",
				Severity:    SeverityMajor,
				Params:      []Param{{ParamMaxArgs, "Maximum authorized number of arguments.", DefaultMaxArgs}},
			},
			New: newFunctionArgs,
		},
		{
			Descriptor: Descriptor{
				Key:         KeyFunctionNamePattern,
				Description: "Function names should match a naming convention.",
				Severity:    SeverityMinor,
				Params:      []Param{{ParamRegularExpression, "Expression function names must match.", DefaultFunctionNamePattern}},
			},
			New: newFunctionName,
		},
		{
			Descriptor: Descriptor{
				Key:         KeyVariableNamePattern,
				Description: "Variable names should match a naming convention.",
				Severity:    SeverityMinor,
				Params:      []Param{{ParamRegularExpression, "Expression variable names must match.", DefaultVariableNamePattern}},
			},
			New: newVariableName,
		},
		{
			Descriptor: Descriptor{
				Key:         KeyDepthOfCases,
				Description: "Case expressions should not be nested too deeply.",
				Severity:    SeverityMajor,
				Params:      []Param{{ParamMaxNestingLevel, "Maximum authorized nesting of case expressions.", DefaultMaxNestingLevel}},
			},
			New: newDepthOfCases,
		},
	}
}
