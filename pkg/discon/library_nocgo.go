//go:build !cgo || !unix

package discon

import "fmt"

// Library is unavailable without cgo on a unix platform.
type Library struct {
	path   string
	symbol string
}

// Open always fails in this build.
func Open(path, symbol string) (*Library, error) {
	return nil, fmt.Errorf("%w: %s: %w", ErrLibraryLoad, path, ErrCgoRequired)
}

func (l *Library) Path() string {
	return l.path
}

func (l *Library) Symbol() string {
	return l.symbol
}

// Call reports the missing loader through the status flag.
func (l *Library) Call(_ []float32, status *int32, _ []byte, _, msg []byte) {
	if status != nil {
		*status = -1
	}
	writeCString(msg, ErrCgoRequired.Error())
}

func (l *Library) Close() error {
	return nil
}
