package ir

// Version constants for the IR schema and backend.
const (
	// IRVersion is the IR schema version.
	IRVersion = "1"

	// BackendVersion is the hlsdecl backend version.
	BackendVersion = "0.1.0"
)
