package params

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Document is the raw parse tree of a parameter file.
type Document struct {
	Lines []*Line `parser:"( @@ | EOL )*"`
}

// Line is either a comment (no values) or an entry: one or more values
// followed by "! Name - description".
// Example: 97.0   ! WE_GearboxRatio  - Gearbox ratio [>=1],  [-]
type Line struct {
	Pos    lexer.Position
	Values []*Literal `parser:"@@*"`
	Note   string     `parser:"@Note"`
}

// Literal is a single value on an entry line.
type Literal struct {
	Number *float64 `parser:"  @Number"`
	Quoted *string  `parser:"| @String"`
	Word   *string  `parser:"| @Word"`
}

// IsComment reports whether the line carries no values.
func (l *Line) IsComment() bool {
	return len(l.Values) == 0
}

// Name returns the first word of the note, which names the parameter.
func (l *Line) Name() string {
	fields := strings.Fields(strings.TrimPrefix(l.Note, "!"))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Description returns the note text after the name and its dash separator.
func (l *Line) Description() string {
	text := strings.TrimSpace(strings.TrimPrefix(l.Note, "!"))
	text = strings.TrimSpace(strings.TrimPrefix(text, l.Name()))
	return strings.TrimSpace(strings.TrimPrefix(text, "-"))
}

// Text returns the literal as it should be read as a string, without quotes.
func (v *Literal) Text() string {
	switch {
	case v.Number != nil:
		return strconv.FormatFloat(*v.Number, 'g', -1, 64)
	case v.Quoted != nil:
		return strings.Trim(*v.Quoted, `"`)
	case v.Word != nil:
		return *v.Word
	}
	return ""
}
