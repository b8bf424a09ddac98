package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/hlsdecl/internal/hls"
	"github.com/roach88/hlsdecl/internal/manifest"
	"github.com/roach88/hlsdecl/internal/variable"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestManifest creates a small manifest with one typedef and two
// declarations.
func createTestManifest(model, hash string) *manifest.Manifest {
	return &manifest.Manifest{
		Model:   model,
		Dialect: hls.DialectAP,
		Port:    "dense",
		IOType:  "parallel",
		Typedefs: []manifest.Typedef{
			{Name: "input_t", Form: "plain", Text: "typedef ap_fixed<16,6> input_t;"},
		},
		Declarations: []manifest.Declaration{
			{
				Role: manifest.RoleInput, Kind: variable.KindArray, Name: "input_1", Type: "input_t",
				Declaration: "input_t input_1[N_INPUT_1_1]", Reference: "input_t input_1[N_INPUT_1_1]",
			},
			{
				Role: manifest.RoleWeight, Kind: variable.KindBramWeight, Name: "w2", Type: "input_t",
			},
		},
		Hash: hash,
	}
}
