package params

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// ErrConfigRead is wrapped by every error from reading or querying a
// parameter file.
var ErrConfigRead = errors.New("params: config read failed")

// Parser represents a parameter file parser
type Parser struct {
	parser *participle.Parser[Document]
}

// NewParser creates a new parameter file parser instance
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Document](
		participle.Lexer(ParamLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses a parameter file from a reader
func (p *Parser) Parse(name string, r io.Reader) (*File, error) {
	doc, err := p.parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse error: %w", ErrConfigRead, err)
	}
	return Resolve(name, doc), nil
}

// ParseString parses a parameter file from a string
func (p *Parser) ParseString(input string) (*File, error) {
	doc, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("%w: parse error: %w", ErrConfigRead, err)
	}
	return Resolve("", doc), nil
}

// ParseFile parses a parameter file from a file path
func (p *Parser) ParseFile(filename string) (*File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigRead, err)
	}
	defer file.Close()

	return p.Parse(filename, file)
}

// ReadFile builds a parser and reads filename in one step.
func ReadFile(filename string) (*File, error) {
	p, err := NewParser()
	if err != nil {
		return nil, err
	}
	return p.ParseFile(filename)
}
