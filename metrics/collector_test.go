package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/hostfs/errno"
	"github.com/wippyai/hostfs/host"
	"github.com/wippyai/hostfs/hostfs"
	"github.com/wippyai/hostfs/vfs"
)

func TestResult(t *testing.T) {
	assert.Equal(t, ResultOK, Result(nil))
	assert.Equal(t, "ENOENT", Result(errno.New(errno.ENOENT).Build()))
	assert.Equal(t, "EINVAL", Result(errno.EINVAL))
	assert.Equal(t, ResultFault, Result(errors.New("boom")))
}

func TestObserveOperation(t *testing.T) {
	c, err := NewCollector(nil, nil)
	require.NoError(t, err)

	c.ObserveOperation(hostfs.OpLookup, time.Millisecond, nil)
	c.ObserveOperation(hostfs.OpLookup, time.Millisecond, errno.New(errno.ENOENT).Build())
	c.ObserveOperation(hostfs.OpLookup, time.Millisecond, errno.New(errno.ENOENT).Build())

	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues(hostfs.OpLookup, ResultOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.operations.WithLabelValues(hostfs.OpLookup, "ENOENT")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.duration))
}

func TestOpenStreamsGauge(t *testing.T) {
	c, err := NewCollector(DefaultConfig(), nil)
	require.NoError(t, err)

	c.ObserveOperation(hostfs.OpOpen, 0, nil)
	c.ObserveOperation(hostfs.OpOpen, 0, nil)
	c.ObserveOperation(hostfs.OpOpen, 0, errno.New(errno.EACCES).Build())
	c.ObserveOperation(hostfs.OpClose, 0, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.open))
}

func TestCollectorAsObserver(t *testing.T) {
	c, err := NewCollector(&Config{Namespace: "test", Labels: map[string]string{"mount": "tmp"}}, nil)
	require.NoError(t, err)

	fsys := hostfs.New(host.NewOS(), hostfs.WithObserver(c))
	root, err := fsys.Mount(&vfs.Mount{Root: t.TempDir(), Mountpoint: "/tmp"})
	require.NoError(t, err)
	_, err = root.NodeOps.Lookup(root, "missing")
	require.Error(t, err)

	expected := `
# HELP test_operations_total Total number of filesystem operations by result.
# TYPE test_operations_total counter
test_operations_total{mount="tmp",operation="lookup",result="ENOENT"} 1
test_operations_total{mount="tmp",operation="mount",result="ok"} 1
`
	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(expected), "test_operations_total"))
}

func TestHandler(t *testing.T) {
	c, err := NewCollector(nil, nil)
	require.NoError(t, err)
	c.ObserveOperation(hostfs.OpRead, time.Microsecond, nil)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `hostfs_operations_total{operation="read",result="ok"} 1`)
}
