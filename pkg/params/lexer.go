package params

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ParamLexer tokenizes ROSCO-style controller parameter files.
// Everything from '!' to the end of a line is a single Note token: on entry
// lines it carries the parameter name and description, on its own it is a
// comment or section banner.
var ParamLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Note", Pattern: `![^\r\n]*`},

	// Line structure matters, so newlines are tokens and only blanks are elided.
	{Name: "EOL", Pattern: `[\r\n]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},

	{Name: "String", Pattern: `"[^"\r\n]*"`},
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},

	// Bare words: True/False, unquoted file names
	{Name: "Word", Pattern: `[^\s!"]+`},
})
