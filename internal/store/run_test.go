package store

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hlsdecl/internal/config"
	"github.com/roach88/hlsdecl/internal/hls"
	"github.com/roach88/hlsdecl/internal/ir"
	"github.com/roach88/hlsdecl/internal/manifest"
	"github.com/roach88/hlsdecl/internal/testutil"
)

func TestNewRunID_IsUUIDv7(t *testing.T) {
	id, err := NewRunID()
	require.NoError(t, err)

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	other, err := NewRunID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestNewRun_SetsVersions(t *testing.T) {
	run, err := NewRun(createTestManifest("mlp", "h1"))
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, ir.BackendVersion, run.BackendVersion)
	assert.Equal(t, ir.IRVersion, run.IRVersion)
}

func TestWriteRun_ReadRunRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := NewRun(createTestManifest("mlp", "h1"))
	require.NoError(t, err)

	seq, err := s.WriteRun(ctx, run)
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	got, err := s.ReadRun(ctx, run.ID)
	require.NoError(t, err)

	run.Seq = seq
	assert.Equal(t, &run, got)
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run, err := NewRun(createTestManifest("mlp", "h1"))
	require.NoError(t, err)

	first, err := s.WriteRun(ctx, run)
	require.NoError(t, err)
	second, err := s.WriteRun(ctx, run)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestWriteRun_Validation(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, Run{Manifest: createTestManifest("m", "h")})
	assert.ErrorContains(t, err, "id is required")

	_, err = s.WriteRun(ctx, Run{ID: "r1"})
	assert.ErrorContains(t, err, "manifest is required")
}

func TestWriteRun_DuplicateTypedefRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	m := createTestManifest("mlp", "h1")
	m.Typedefs = append(m.Typedefs, m.Typedefs[0])
	run, err := NewRun(m)
	require.NoError(t, err)

	_, err = s.WriteRun(ctx, run)
	require.Error(t, err)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs, "failed write must not leave a partial run")
}

func TestListRuns_DeterministicOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	// IDs deliberately out of lexical order: seq decides.
	for _, id := range []string{"c", "a", "b"} {
		_, err := s.WriteRun(ctx, Run{ID: id, BackendVersion: "0.1.0", IRVersion: "1", Manifest: createTestManifest("m-"+id, "h-"+id)})
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	ids := []string{runs[0].ID, runs[1].ID, runs[2].ID}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
	assert.Equal(t, []int64{1, 2, 3}, []int64{runs[0].Seq, runs[1].Seq, runs[2].Seq})
	assert.Equal(t, "m-c", runs[0].Model)
	assert.Equal(t, 2, runs[0].Declarations)
}

func TestListRuns_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestFindRunsByHash(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, tc := range []struct{ id, hash string }{{"r1", "same"}, {"r2", "other"}, {"r3", "same"}} {
		_, err := s.WriteRun(ctx, Run{ID: tc.id, BackendVersion: "0.1.0", IRVersion: "1", Manifest: createTestManifest("m", tc.hash)})
		require.NoError(t, err)
	}

	runs, err := s.FindRunsByHash(ctx, "same")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r1", runs[0].ID)
	assert.Equal(t, "r3", runs[1].ID)
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestWriteRun_BuiltManifestRoundTrip(t *testing.T) {
	cfg := config.Default()
	cfg.Dialect = hls.DialectAC
	cfg.IOType = config.IOStream
	cfg.BramFactor = 3

	b, err := manifest.NewBuilder(cfg, manifest.WithLogger(testutil.QuietLogger()))
	require.NoError(t, err)
	built, err := b.Build(context.Background(), testutil.MLPModel())
	require.NoError(t, err)

	s := createTestStore(t)
	run, err := NewRun(built)
	require.NoError(t, err)
	_, err = s.WriteRun(context.Background(), run)
	require.NoError(t, err)

	got, err := s.ReadRun(context.Background(), run.ID)
	require.NoError(t, err)
	if diff := cmp.Diff(built, got.Manifest); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}

	hash, err := got.Manifest.ComputeHash()
	require.NoError(t, err)
	assert.Equal(t, built.Hash, hash, "stored manifest must hash identically")
}
