package core

import "time"

// VerifyConfig configures verification of bearer tokens against a remote
// key source (verify-only mode: this kit never signs).
type VerifyConfig struct {
	Issuer     string
	Audience   string // Expected audience for this service (single value)
	Algorithms []string
	Skew       time.Duration

	// KeyTTL is the maximum age the cached key set may reach before it is
	// proactively treated as invalid. Zero or negative disables the check.
	KeyTTL time.Duration

	// RefreshMinInterval is the minimum elapsed time between two permitted
	// remote key fetches. Zero or negative disables limiting.
	RefreshMinInterval time.Duration
}
