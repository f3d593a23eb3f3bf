package host

import "context"

// ReadFileAsync reads a whole file on a background goroutine and reports
// through exactly one of the callbacks. A context cancelled before the read
// starts is reported to onerror; once the host read is issued it runs to
// completion.
func ReadFileAsync(ctx context.Context, fsys FS, path string, onload func([]byte), onerror func(error)) {
	go func() {
		if err := ctx.Err(); err != nil {
			onerror(err)
			return
		}
		data, err := fsys.ReadFile(path)
		if err != nil {
			onerror(err)
			return
		}
		onload(data)
	}()
}
