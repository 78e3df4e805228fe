//go:build darwin

package aot

// sharedObjectExt is the platform suffix of linked artifacts.
const sharedObjectExt = ".dylib"
