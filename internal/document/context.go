package document

import (
	"fmt"
	"sync"

	"github.com/AdaWorldAPI/cypherdoc/internal/assets"
)

// AssetRegistrar is the collaborator that attaches the companion script and
// stylesheet to the output document. The host document tool (or the built-in
// site builder) provides the implementation.
type AssetRegistrar interface {
	RegisterScript(name string, content []byte) error
	RegisterStylesheet(name string, content []byte) error
}

// BuildContext carries the mutable state of exactly one document build pass:
// the sequential block identity counter and the one-shot asset registration
// guard. Create one at build start, discard it at build end — state never
// persists across independent builds.
//
// A BuildContext is safe for concurrent use; the site builder processes
// source files in parallel.
type BuildContext struct {
	registrar       AssetRegistrar
	defaultEndpoint string

	mu         sync.Mutex
	nextID     int
	registered bool
}

// NewBuildContext creates the state object for one build pass. registrar may
// be nil when the host attaches assets itself; defaultEndpoint is the
// process-configured endpoint tier (usually CYPHERDOC_ENDPOINT).
func NewBuildContext(registrar AssetRegistrar, defaultEndpoint string) *BuildContext {
	return &BuildContext{
		registrar:       registrar,
		defaultEndpoint: defaultEndpoint,
		nextID:          1,
	}
}

// nextBlockID hands out the monotonically increasing block identity,
// starting at 1 within this build pass.
func (bc *BuildContext) nextBlockID() int {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	id := bc.nextID
	bc.nextID++
	return id
}

// registerAssets requests the companion script and stylesheet exactly once
// per build pass, no matter how many qualifying blocks the pass encounters.
func (bc *BuildContext) registerAssets() error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.registered || bc.registrar == nil {
		bc.registered = true
		return nil
	}
	if err := bc.registrar.RegisterScript(assets.RunnerJSName, assets.RunnerJS); err != nil {
		return fmt.Errorf("document: register script: %w", err)
	}
	if err := bc.registrar.RegisterStylesheet(assets.StylesheetName, assets.Stylesheet); err != nil {
		return fmt.Errorf("document: register stylesheet: %w", err)
	}
	bc.registered = true
	return nil
}
