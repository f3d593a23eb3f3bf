package loader

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/hostfs/host"
)

const (
	fileScheme = "file://"
	dataScheme = "data:"
)

// ErrMalformedDataURI is returned for a data: URI that cannot be decoded.
var ErrMalformedDataURI = errors.New("malformed data URI")

// Loader reads whole files from a host filesystem.
type Loader struct {
	fs  host.FS
	log *zap.Logger
}

// New creates a loader over fsys.
func New(fsys host.FS, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{fs: fsys, log: log.Named("loader")}
}

// Read returns the content of name as text.
func (l *Loader) Read(name string) (string, error) {
	data, err := l.ReadBinary(name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadBinary returns the content of name.
func (l *Loader) ReadBinary(name string) ([]byte, error) {
	if data, ok, err := parseDataURI(name); ok {
		return data, err
	}
	path := hostPath(name)
	l.log.Debug("reading file", zap.String("path", path))
	return l.fs.ReadFile(path)
}

// ReadAsync reads name in the background and reports through exactly one of
// onload or onerror. Inline data URIs are delivered without touching the host.
func (l *Loader) ReadAsync(ctx context.Context, name string, onload func([]byte), onerror func(error)) {
	if data, ok, err := parseDataURI(name); ok {
		go func() {
			if err != nil {
				onerror(err)
				return
			}
			onload(data)
		}()
		return
	}
	path := hostPath(name)
	l.log.Debug("reading file asynchronously", zap.String("path", path))
	host.ReadFileAsync(ctx, l.fs, path, onload, onerror)
}

// hostPath turns a file:// URL into a host path. Other names are returned
// unchanged.
func hostPath(name string) string {
	if !strings.HasPrefix(name, fileScheme) {
		return name
	}
	path := strings.TrimPrefix(name, fileScheme)
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}
	// file:///C:/dir names a drive path on windows.
	if runtime.GOOS == "windows" && len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return path
}

// parseDataURI decodes a data: URI. ok is false when name is not one.
func parseDataURI(name string) (data []byte, ok bool, err error) {
	if !strings.HasPrefix(name, dataScheme) {
		return nil, false, nil
	}
	meta, payload, found := strings.Cut(strings.TrimPrefix(name, dataScheme), ",")
	if !found {
		return nil, true, fmt.Errorf("%w: missing ','", ErrMalformedDataURI)
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, true, fmt.Errorf("%w: %v", ErrMalformedDataURI, err)
		}
		return data, true, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, true, fmt.Errorf("%w: %v", ErrMalformedDataURI, err)
	}
	return []byte(text), true, nil
}
