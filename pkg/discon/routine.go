package discon

import (
	"bytes"
	"errors"
	"fmt"
)

// DefaultSymbol is the exported entry point of Bladed-style controllers.
const DefaultSymbol = "DISCON"

// MessageBufferSize is the capacity of the output-name and message buffers
// handed to the controller. Existing controller binaries assume at least this
// much room.
const MessageBufferSize = 1000

// Routine abstracts a controller entry point with the signature
//
//	void DISCON(float *avrSWAP, int *aviFAIL, const char *accINFILE,
//	            char *avcOUTNAME, char *avcMSG)
//
// Call mutates avrSwap, status, outName and msg in place. inFile must be
// NUL-terminated. Implementations are not safe for concurrent use.
type Routine interface {
	Call(avrSwap []float32, status *int32, inFile []byte, outName, msg []byte)
	Close() error
}

var (
	_ Routine = (*Library)(nil)
	_ Routine = (*SimRoutine)(nil)
)

var (
	// ErrLibraryLoad is returned when a controller library cannot be opened
	// or does not export the requested symbol.
	ErrLibraryLoad = errors.New("discon: library load failed")

	// ErrControllerFailure is wrapped by StatusError for negative status flags.
	ErrControllerFailure = errors.New("discon: controller reported failure")

	// ErrCgoRequired signals a build without cgo support for dynamic loading.
	ErrCgoRequired = errors.New("discon: dynamic loading requires cgo on a unix platform")
)

// StatusError carries the status flag and message text from a failed call.
type StatusError struct {
	Status  int32
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("discon: controller status %d", e.Status)
	}
	return fmt.Sprintf("discon: controller status %d: %s", e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	return ErrControllerFailure
}

// CheckStatus converts a status flag into an error. Zero and positive values
// are success.
func CheckStatus(status int32, msg []byte) error {
	if status >= 0 {
		return nil
	}
	return &StatusError{Status: status, Message: CString(msg)}
}

// CString returns the text before the first NUL in buf, trimmed of the
// trailing blanks Fortran controllers pad with.
func CString(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(bytes.TrimRight(buf, " "))
}

// CBytes returns s as a NUL-terminated byte slice.
func CBytes(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// writeCString copies s into buf with a terminating NUL, truncating if needed.
func writeCString(buf []byte, s string) {
	if len(buf) == 0 {
		return
	}
	n := copy(buf[:len(buf)-1], s)
	buf[n] = 0
}
