package document

import (
	"log/slog"
	"strconv"

	"github.com/AdaWorldAPI/cypherdoc/internal/directive"
)

// Target is the publishing target of a build pass. Blocks are only made
// interactive when the target markup supports embedded scripts.
type Target string

const (
	TargetHTML  Target = "html"
	TargetOther Target = "other"
)

// Extractor rewrites one tagged block's text and attributes into published
// form: directives out of the displayed code, resolved metadata attributes in.
type Extractor struct {
	target Target
	logger *slog.Logger
}

// NewExtractor creates an Extractor publishing to the given target.
func NewExtractor(target Target, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{target: target, logger: logger}
}

// Process transforms a single block within the given build pass. Blocks that
// are not cypher-tagged, and every block when the target does not support
// embedded scripts, pass through unchanged.
//
// For qualifying blocks it extracts directives, strips them (and leading
// blank lines) from the displayed code, assigns the next sequential block
// identity, rewrites the class list to the canonical published set, and
// writes the identity and resolved endpoint attributes. The first qualifying
// block of the pass also triggers the one-time asset registration.
func (e *Extractor) Process(bc *BuildContext, b Block) (Block, error) {
	if e.target != TargetHTML || !b.HasClass(ClassCypher) {
		return b, nil
	}

	directives, code := directive.Scan(b.Text)
	opts := directive.Resolve(directives, bc.defaultEndpoint)

	out := b.clone()
	out.Text = directive.StripLeadingBlank(code)
	out.Classes = []string{ClassCypher, ClassInteractive, ClassCopy}

	id := bc.nextBlockID()
	out.Attrs[AttrBlockID] = strconv.Itoa(id)
	out.Attrs[AttrEndpoint] = opts[directive.KeyEndpoint]

	// Unrecognized directive keys ride along as data attributes so future
	// script versions can pick them up without a rebuild of this tool.
	for k, v := range directives {
		if k == directive.KeyEndpoint || k == directive.KeyContext {
			continue
		}
		out.Attrs["data-"+k] = v
	}

	if err := bc.registerAssets(); err != nil {
		return Block{}, err
	}

	e.logger.Debug("block published",
		"block_id", id,
		"endpoint", opts[directive.KeyEndpoint],
		"context", opts[directive.KeyContext],
		"directives", len(directives),
	)
	return out, nil
}
