package document

import "slices"

// Canonical class set written onto every published block.
const (
	ClassCypher      = "cypher"             // language tag
	ClassInteractive = "cypher-interactive" // discovered by the page script
	ClassCopy        = "code-copy"          // copy affordance hook for the host theme
)

// Attribute names serialized into the published page and read back by the
// page script on every load.
const (
	AttrBlockID  = "data-block-id"
	AttrEndpoint = "data-endpoint"
)

// Block is one fenced code region: its raw source text plus the tag classes
// and key/value attributes the host document tool knows about. Blocks only
// exist during a build pass; the rewritten attribute set is what survives
// into the published page.
type Block struct {
	Text    string
	Classes []string
	Attrs   map[string]string
}

// HasClass reports whether the block carries the given tag class.
func (b Block) HasClass(class string) bool {
	return slices.Contains(b.Classes, class)
}

// clone returns a copy with its own class slice and attribute map, so the
// extractor never mutates the caller's block.
func (b Block) clone() Block {
	out := Block{
		Text:    b.Text,
		Classes: slices.Clone(b.Classes),
		Attrs:   make(map[string]string, len(b.Attrs)),
	}
	for k, v := range b.Attrs {
		out.Attrs[k] = v
	}
	return out
}
