// Package errno provides POSIX error numbers and the errno-carrying error type
// surfaced to the virtual filesystem.
//
// Numbers follow the WASI/Emscripten numbering used by wasm guests, not the
// host kernel's. They are opaque constants to the adapter: the only thing that
// matters is that the same name always maps to the same number.
//
// Errors are built with the Builder:
//
//	err := errno.New(errno.ENOENT).
//		Op("lookup").
//		Path("/data/missing.txt").
//		Cause(hostErr).
//		Build()
//
// and inspected with errors.Is against a bare Errno or with From:
//
//	if errors.Is(err, errno.ENOENT) { ... }
//	code, ok := errno.From(err)
package errno
