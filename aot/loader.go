package aot

import "github.com/TevmFoundation/tevm-chain/aot/native"

// nativeLoader adapts the dlopen-backed native loader to the Loader seam the
// dispatcher is tested through.
type nativeLoader struct {
	dl *native.Loader
}

// NewNativeLoader returns the production loader using the platform dynamic
// linker.
func NewNativeLoader() Loader {
	return nativeLoader{dl: native.NewLoader()}
}

func (l nativeLoader) Open(path string) (Library, error) {
	lib, err := l.dl.Open(path)
	if err != nil {
		return nil, err
	}
	return nativeLibrary{lib: lib}, nil
}

type nativeLibrary struct {
	lib *native.Library
}

func (l nativeLibrary) Lookup(label string) (NativeFunc, error) {
	fn, err := l.lib.Lookup(label)
	if err != nil {
		return nil, err
	}
	return fn, nil
}

func (l nativeLibrary) Close() error {
	return l.lib.Close()
}
