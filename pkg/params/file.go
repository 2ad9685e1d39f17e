package params

import (
	"fmt"
	"math"
	"strconv"
)

// GearboxRatioKey names the gearbox ratio entry used to seed the generator
// speed slot.
const GearboxRatioKey = "WE_GearboxRatio"

// Value is one named entry.
type Value struct {
	Name        string
	Description string
	Line        int

	// Literals holds every value on the line in order.
	Literals []*Literal
}

// Numeric reports whether every literal is a number.
func (v *Value) Numeric() bool {
	for _, lit := range v.Literals {
		if lit.Number == nil {
			return false
		}
	}
	return len(v.Literals) > 0
}

// File is a resolved parameter file: entries by name, in file order.
type File struct {
	Path string

	values map[string]*Value
	order  []string
}

// Resolve turns a parse tree into named entries. A later entry with the same
// name replaces an earlier one.
func Resolve(path string, doc *Document) *File {
	f := &File{
		Path:   path,
		values: make(map[string]*Value),
	}
	for _, line := range doc.Lines {
		if line.IsComment() {
			continue
		}
		name := line.Name()
		if name == "" {
			continue
		}
		if _, seen := f.values[name]; !seen {
			f.order = append(f.order, name)
		}
		f.values[name] = &Value{
			Name:        name,
			Description: line.Description(),
			Line:        line.Pos.Line,
			Literals:    line.Values,
		}
	}
	return f
}

// Names returns every entry name in file order.
func (f *File) Names() []string {
	return append([]string(nil), f.order...)
}

// Has reports whether name is defined.
func (f *File) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Lookup returns the raw entry.
func (f *File) Lookup(name string) (*Value, bool) {
	v, ok := f.values[name]
	return v, ok
}

func (f *File) get(name string) (*Value, error) {
	v, ok := f.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing parameter %s", ErrConfigRead, f.label(), name)
	}
	return v, nil
}

func (f *File) label() string {
	if f.Path == "" {
		return "<input>"
	}
	return f.Path
}

// Floats returns a numeric entry of any length.
func (f *File) Floats(name string) ([]float64, error) {
	v, err := f.get(name)
	if err != nil {
		return nil, err
	}
	if !v.Numeric() {
		return nil, fmt.Errorf("%w: %s:%d: %s is not numeric", ErrConfigRead, f.label(), v.Line, name)
	}
	out := make([]float64, len(v.Literals))
	for i, lit := range v.Literals {
		out[i] = *lit.Number
	}
	return out, nil
}

// Float returns a scalar numeric entry.
func (f *File) Float(name string) (float64, error) {
	vals, err := f.Floats(name)
	if err != nil {
		return 0, err
	}
	if len(vals) != 1 {
		return 0, fmt.Errorf("%w: %s: %s has %d values, want 1", ErrConfigRead, f.label(), name, len(vals))
	}
	return vals[0], nil
}

// Int returns a scalar entry holding an integral number.
func (f *File) Int(name string) (int, error) {
	x, err := f.Float(name)
	if err != nil {
		return 0, err
	}
	if x != math.Trunc(x) {
		return 0, fmt.Errorf("%w: %s: %s = %g is not an integer", ErrConfigRead, f.label(), name, x)
	}
	return int(x), nil
}

// String returns a scalar entry as text with quotes removed.
func (f *File) String(name string) (string, error) {
	v, err := f.get(name)
	if err != nil {
		return "", err
	}
	if len(v.Literals) != 1 {
		return "", fmt.Errorf("%w: %s: %s has %d values, want 1", ErrConfigRead, f.label(), name, len(v.Literals))
	}
	return v.Literals[0].Text(), nil
}

// Bool returns a True/False entry.
func (f *File) Bool(name string) (bool, error) {
	s, err := f.String(name)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %s = %q is not a boolean", ErrConfigRead, f.label(), name, s)
	}
	return b, nil
}

// GearboxRatio returns WE_GearboxRatio, which must be positive.
func (f *File) GearboxRatio() (float64, error) {
	ratio, err := f.Float(GearboxRatioKey)
	if err != nil {
		return 0, err
	}
	if ratio <= 0 {
		return 0, fmt.Errorf("%w: %s: %s must be positive, got %g", ErrConfigRead, f.label(), GearboxRatioKey, ratio)
	}
	return ratio, nil
}
