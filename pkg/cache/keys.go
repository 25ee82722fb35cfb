package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys. Implementations must be deterministic: equal
// inputs produce equal keys across processes.
type Keyer interface {
	// LayoutKey keys a layout result by the hash of its snapshot.
	LayoutKey(snapshotHash string, opts LayoutKeyOpts) string
	// SessionKey keys a stored board session.
	SessionKey(id string) string
}

// LayoutKeyOpts holds the layout parameters that change a result.
type LayoutKeyOpts struct {
	ContainerWidth float64 `json:"container_width"`
	WordHeight     float64 `json:"word_height"`
	WordGap        float64 `json:"word_gap"`
	LineGap        float64 `json:"line_gap"`
	RTL            bool    `json:"rtl"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>" over the snapshot hash and options.
func (DefaultKeyer) LayoutKey(snapshotHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", snapshotHash, opts)
}

// SessionKey returns "session:<id>".
func (DefaultKeyer) SessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Map keys are sorted by
// encoding/json, so equal values hash equally.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}

func hashKey(prefix string, parts ...any) string {
	h, _ := HashJSON(parts)
	return prefix + ":" + h
}
