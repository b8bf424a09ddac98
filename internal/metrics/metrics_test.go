package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordConversion(t *testing.T) {
	r := NewRecorder()
	r.RecordConversion("ap", "plain")
	r.RecordConversion("ap", "plain")
	r.RecordConversion("ac", "packed")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.conversions.WithLabelValues("ap", "plain")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.conversions.WithLabelValues("ac", "packed")))
}

func TestRecordDeclarationAndError(t *testing.T) {
	r := NewRecorder()
	r.RecordDeclaration("array")
	r.RecordDeclaration("stream")
	r.RecordDeclaration("stream")
	r.RecordError("DEGENERATE_SHAPE")
	r.RecordError("")

	assert.Equal(t, 1.0, testutil.ToFloat64(r.declarations.WithLabelValues("array")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.declarations.WithLabelValues("stream")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errors.WithLabelValues("DEGENERATE_SHAPE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errors.WithLabelValues("UNKNOWN")))
}

func TestRecordersAreIndependent(t *testing.T) {
	a := NewRecorder()
	b := NewRecorder()
	a.RecordDeclaration("array")

	assert.Equal(t, 1, testutil.CollectAndCount(a.declarations))
	assert.Equal(t, 0, testutil.CollectAndCount(b.declarations))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.RecordConversion("ap", "plain")
		r.RecordDeclaration("array")
		r.RecordError("X")
		r.RecordBuild(time.Second)
	})
	assert.Nil(t, r.Registry())
	assert.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RecordDeclaration("static_weight")
	r.RecordBuild(10 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "hlsdecl.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `hlsdecl_declarations_total{kind="static_weight"} 1`)
	assert.Contains(t, string(data), "hlsdecl_build_duration_seconds_count 1")
}
