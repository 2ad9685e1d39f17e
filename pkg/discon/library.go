//go:build cgo && unix

package discon

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdio.h>
#include <stdlib.h>

typedef void (*discon_fn)(float *avrSWAP, int *aviFAIL, const char *accINFILE,
                          char *avcOUTNAME, char *avcMSG);

static void go_discon_lasterror(char *errbuf, int errcap) {
    const char *e = dlerror();
    snprintf(errbuf, errcap, "%s", e ? e : "unknown dlerror");
}

static void *go_discon_open(const char *path, char *errbuf, int errcap) {
    void *h = dlopen(path, RTLD_NOW | RTLD_LOCAL);
    if (h == NULL) {
        go_discon_lasterror(errbuf, errcap);
    }
    return h;
}

static void *go_discon_sym(void *handle, const char *name, char *errbuf, int errcap) {
    dlerror();
    void *fn = dlsym(handle, name);
    if (fn == NULL) {
        go_discon_lasterror(errbuf, errcap);
    }
    return fn;
}

static int go_discon_close(void *handle, char *errbuf, int errcap) {
    int rc = dlclose(handle);
    if (rc != 0) {
        go_discon_lasterror(errbuf, errcap);
    }
    return rc;
}

static void go_discon_call(void *fn, float *avr, int *fail, const char *infile,
                           char *outname, char *msg) {
    ((discon_fn)fn)(avr, fail, infile, outname, msg);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/sirupsen/logrus"
)

const dlErrorCap = 512

// Library is a controller loaded with dlopen. The handle is process-wide: a
// second Library opened on the same path shares the controller's static state,
// so only one should be driven at a time.
type Library struct {
	path   string
	symbol string

	handle unsafe.Pointer
	fn     unsafe.Pointer
}

// Open loads the shared library at path and resolves symbol (DefaultSymbol
// when empty). Failures wrap ErrLibraryLoad.
func Open(path, symbol string) (*Library, error) {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty library path", ErrLibraryLoad)
	}

	errbuf := make([]byte, dlErrorCap)
	cerr := (*C.char)(unsafe.Pointer(&errbuf[0]))

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.go_discon_open(cpath, cerr, C.int(dlErrorCap))
	if handle == nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrLibraryLoad, path, CString(errbuf))
	}

	csym := C.CString(symbol)
	defer C.free(unsafe.Pointer(csym))

	fn := C.go_discon_sym(handle, csym, cerr, C.int(dlErrorCap))
	if fn == nil {
		C.go_discon_close(handle, cerr, C.int(dlErrorCap))
		return nil, fmt.Errorf("%w: %s: symbol %s: %s", ErrLibraryLoad, path, symbol, CString(errbuf))
	}

	logrus.WithFields(logrus.Fields{
		"function": "discon.Open",
		"library":  path,
		"symbol":   symbol,
	}).Info("Controller library loaded")

	return &Library{
		path:   path,
		symbol: symbol,
		handle: handle,
		fn:     fn,
	}, nil
}

// Path returns the library path passed to Open.
func (l *Library) Path() string {
	return l.path
}

// Symbol returns the resolved entry point name.
func (l *Library) Symbol() string {
	return l.symbol
}

// Call invokes the controller entry point. Memory safety past this point is
// the controller's responsibility. A call on a closed library or with empty
// buffers sets status to -1 and writes the reason into msg instead.
func (l *Library) Call(avrSwap []float32, status *int32, inFile []byte, outName, msg []byte) {
	if reason := l.checkCall(avrSwap, status, outName, msg); reason != "" {
		if status != nil {
			*status = -1
		}
		writeCString(msg, reason)
		return
	}

	if len(inFile) == 0 || inFile[len(inFile)-1] != 0 {
		inFile = append(append([]byte(nil), inFile...), 0)
	}

	C.go_discon_call(
		l.fn,
		(*C.float)(unsafe.Pointer(&avrSwap[0])),
		(*C.int)(unsafe.Pointer(status)),
		(*C.char)(unsafe.Pointer(&inFile[0])),
		(*C.char)(unsafe.Pointer(&outName[0])),
		(*C.char)(unsafe.Pointer(&msg[0])),
	)
}

func (l *Library) checkCall(avrSwap []float32, status *int32, outName, msg []byte) string {
	switch {
	case l.handle == nil:
		return "discon: library closed"
	case status == nil:
		return "discon: nil status flag"
	case len(avrSwap) == 0:
		return "discon: empty exchange buffer"
	case len(outName) == 0 || len(msg) == 0:
		return "discon: empty output buffers"
	}
	return ""
}

// Close unloads the library. Calling Close twice is a no-op.
func (l *Library) Close() error {
	if l.handle == nil {
		return nil
	}

	errbuf := make([]byte, dlErrorCap)
	rc := C.go_discon_close(l.handle, (*C.char)(unsafe.Pointer(&errbuf[0])), C.int(dlErrorCap))
	l.handle = nil
	l.fn = nil

	logrus.WithFields(logrus.Fields{
		"function": "Library.Close",
		"library":  l.path,
	}).Debug("Controller library unloaded")

	if rc != 0 {
		return fmt.Errorf("discon: dlclose %s: %s", l.path, CString(errbuf))
	}
	return nil
}
