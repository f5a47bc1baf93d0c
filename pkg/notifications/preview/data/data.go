package data

import (
	"encoding/hex"
	"fmt"
	"math/rand"

	"github.com/nicholas-fedor/announcer/pkg/types"
)

// Constants for sample generation.
const (
	revisionLength = 20 // Revision hash length in bytes
	maxMinor       = 12
	maxPatch       = 20
)

// PreviewData generates sample releases for previews.
type PreviewData struct {
	rand *rand.Rand
}

// New initializes a generator with a fixed seed for deterministic output.
//
//nolint:redefines-builtin-id // Constructor naming convention
func New() *PreviewData {
	return &PreviewData{
		rand: rand.New(rand.NewSource(1)), //nolint:gosec // Preview data, not security-critical
	}
}

// Release returns the next sample release using the default package.
func (p *PreviewData) Release() types.Release {
	return types.NewRelease(p.generateVersion(), p.generateRevision())
}

func (p *PreviewData) generateVersion() string {
	return fmt.Sprintf("2.%d.%d", p.rand.Intn(maxMinor), p.rand.Intn(maxPatch))
}

func (p *PreviewData) generateRevision() string {
	buf := make([]byte, revisionLength)
	_, _ = p.rand.Read(buf)

	return hex.EncodeToString(buf)
}
