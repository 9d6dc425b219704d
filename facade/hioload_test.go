package facade_test

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-buffer/api"
	"github.com/momentics/hioload-buffer/buffer"
	"github.com/momentics/hioload-buffer/control"
	"github.com/momentics/hioload-buffer/facade"
	"github.com/momentics/hioload-buffer/logging"
)

func testConfig(t *testing.T) control.Config {
	cfg := control.DefaultConfig()
	cfg.Buffer.Capacity = 256
	cfg.Pool.MaxIdle = 4
	cfg.Pool.Prealloc = 2
	cfg.Log.Path = filepath.Join(t.TempDir(), "buffers.log")
	cfg.Log.Level = "info"
	cfg.Log.Stderr = false
	return cfg
}

// Exercise the full lifecycle: pool traffic, relay between rings, debug
// state, hot reload and shutdown.
func TestBuffersLifecycle(t *testing.T) {
	cfg := testConfig(t)
	b, err := facade.New(cfg, prometheus.NewRegistry())
	require.NoError(t, err)

	in, err := b.Pool().Get()
	require.NoError(t, err)
	out, err := b.PoolFor(64)
	require.NoError(t, err)
	outRing, err := out.Get()
	require.NoError(t, err)

	in.Put([]byte("request frame"))
	assert.Equal(t, 13, buffer.Move(outRing, in, 100))
	require.NoError(t, b.Pool().Put(in))
	require.NoError(t, out.Put(outRing))

	state := b.Debug().DumpState()
	stats := state["pool.default"].(api.RingPoolStats)
	assert.Equal(t, 256, stats.Capacity)
	assert.Equal(t, 2, stats.Idle)
	assert.Equal(t, cfg.Log.Path, state["log.name"])
	assert.Equal(t, "INFO", state["log.verbosity"])

	next := b.Store().Snapshot()
	next.Log.Level = "debug"
	require.NoError(t, b.Store().Update(next))
	assert.Equal(t, logging.Debug, b.Logger().Verbosity())

	rb, err := b.NewBuffer(16)
	require.NoError(t, err)
	assert.Equal(t, api.Owned, rb.Ownership())
	require.NoError(t, rb.Free())

	var report strings.Builder
	require.NoError(t, b.WriteDebug(&report))
	lines := strings.Split(strings.TrimSpace(report.String()), "\n")
	assert.True(t, sort.StringsAreSorted(lines), report.String())
	assert.Contains(t, report.String(), "log.verbosity: DEBUG\n")

	require.NoError(t, b.Shutdown())
	require.NoError(t, b.Shutdown())
	assert.NotContains(t, b.Debug().Names(), "pool.default")
	assert.Contains(t, b.Debug().Names(), "platform.cpus")
	_, err = b.Pool().Get()
	assert.ErrorIs(t, err, api.ErrPoolClosed)

	data, err := os.ReadFile(cfg.Log.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "buffers ready")
	assert.Contains(t, string(data), "log verbosity now DEBUG")
	assert.Contains(t, string(data), "buffers shut down")
}

func TestBuffersRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Buffer.Capacity = 0
	_, err := facade.New(cfg, nil)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestBuffersSamePoolForDefaultCapacity(t *testing.T) {
	b, err := facade.New(testConfig(t), nil)
	require.NoError(t, err)
	defer b.Shutdown()

	p, err := b.PoolFor(256)
	require.NoError(t, err)
	assert.Same(t, b.Pool(), p)
}

func TestBuffersReloadWarnsOnRestartOnlySettings(t *testing.T) {
	cfg := testConfig(t)
	b, err := facade.New(cfg, nil)
	require.NoError(t, err)

	next := b.Store().Snapshot()
	next.Pool.MaxIdle = 8
	require.NoError(t, b.Store().Update(next))
	next.Log.Sync = true
	require.NoError(t, b.Store().Update(next))
	next.Log.Level = "warning"
	require.NoError(t, b.Store().Update(next))
	require.NoError(t, b.Shutdown())

	data, err := os.ReadFile(cfg.Log.Path)
	require.NoError(t, err)
	log := string(data)
	assert.Contains(t, log, "pool settings changed on reload")
	assert.Contains(t, log, "log sink settings changed on reload")
	assert.Equal(t, 1, strings.Count(log, "log sink settings changed"), "level-only change is applied live")
	assert.NotContains(t, log, "buffer settings changed")
}
