package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer produces cache keys. Implementations must be deterministic.
type Keyer interface {
	// FrameKey returns the key of a solved frame.
	FrameKey(sceneHash string, opts FrameKeyOpts) string

	// ArtifactKey returns the key of a rendered artifact.
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// FrameKeyOpts are the solve inputs besides the scene itself.
type FrameKeyOpts struct {
	Width  float64            `json:"width"`
	Height float64            `json:"height"`
	Scroll map[string]float64 `json:"scroll,omitempty"`
}

// ArtifactKeyOpts are the render inputs besides the frame itself.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Labels      bool    `json:"labels,omitempty"`
	Diagnostics bool    `json:"diagnostics,omitempty"`
	Palette     string  `json:"palette,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Detailed    bool    `json:"detailed,omitempty"`
	Columns     int     `json:"columns,omitempty"`
	Rows        int     `json:"rows,omitempty"`
}

// DefaultKeyer is the standard key layout: "frame:<sha256>" and
// "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FrameKey hashes the scene hash and solve options.
// Scroll maps are encoded by encoding/json with sorted keys, so map
// iteration order does not affect the key.
func (DefaultKeyer) FrameKey(sceneHash string, opts FrameKeyOpts) string {
	return hashKey(KeyTypeFrame, sceneHash, opts)
}

// ArtifactKey hashes the frame hash and render options.
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey(KeyTypeArtifact, frameHash, opts)
}

// Hash returns the hex SHA-256 digest of data. Scene hashes, frame hashes and
// file cache paths all use it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "prefix:<digest>" where the digest covers the JSON
// encoding of parts.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	// Key parts are strings, numbers and option structs; encoding cannot fail.
	_ = json.NewEncoder(h).Encode(parts)
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}
