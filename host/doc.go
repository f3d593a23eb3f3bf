// Package host is the native filesystem API the adapter translates into.
//
// It deliberately mirrors a script-runtime style API rather than POSIX:
// paths instead of descriptors where possible, option records instead of
// flag bitmasks, and failures reported as either a symbolic code ("ENOENT")
// or a not-supported signal. Any other error is a genuine runtime fault.
//
// OS is the implementation over the os package. On Windows it reports the
// same gaps a script runtime does there: no POSIX mode, no block counts, no
// chmod.
package host
