package document

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdaWorldAPI/cypherdoc/internal/directive"
)

// recordingRegistrar counts collaborator registration calls.
type recordingRegistrar struct {
	scripts     int
	stylesheets int
}

func (r *recordingRegistrar) RegisterScript(string, []byte) error     { r.scripts++; return nil }
func (r *recordingRegistrar) RegisterStylesheet(string, []byte) error { r.stylesheets++; return nil }

func cypherBlock(text string) Block {
	return Block{Text: text, Classes: []string{ClassCypher}, Attrs: map[string]string{}}
}

func TestProcess_DirectiveExtractionScenario(t *testing.T) {
	bc := NewBuildContext(nil, "")
	ex := NewExtractor(TargetHTML, nil)

	out, err := ex.Process(bc, cypherBlock("//| endpoint: http://h:9000\nMATCH (n) RETURN n"))
	require.NoError(t, err)

	assert.Equal(t, "MATCH (n) RETURN n", out.Text)
	assert.Equal(t, "http://h:9000", out.Attrs[AttrEndpoint])
	assert.Equal(t, "1", out.Attrs[AttrBlockID])
}

func TestProcess_CanonicalClassSet(t *testing.T) {
	bc := NewBuildContext(nil, "")
	ex := NewExtractor(TargetHTML, nil)

	out, err := ex.Process(bc, Block{
		Text:    "RETURN 1",
		Classes: []string{ClassCypher, "numberLines"},
		Attrs:   map[string]string{},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{ClassCypher, ClassInteractive, ClassCopy}, out.Classes)
}

func TestProcess_SequentialIdentityPerPass(t *testing.T) {
	ex := NewExtractor(TargetHTML, nil)

	bc := NewBuildContext(nil, "")
	for i := 1; i <= 3; i++ {
		out, err := ex.Process(bc, cypherBlock("RETURN 1"))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%d", i), out.Attrs[AttrBlockID])
	}

	// A fresh build pass restarts the counter: state never persists
	// across independent builds.
	bc2 := NewBuildContext(nil, "")
	out, err := ex.Process(bc2, cypherBlock("RETURN 1"))
	require.NoError(t, err)
	assert.Equal(t, "1", out.Attrs[AttrBlockID])
}

func TestProcess_EndpointPrecedence(t *testing.T) {
	ex := NewExtractor(TargetHTML, nil)

	// Directive wins over the process default.
	bc := NewBuildContext(nil, "http://env:8080")
	out, err := ex.Process(bc, cypherBlock("//| endpoint: http://block:1\nRETURN 1"))
	require.NoError(t, err)
	assert.Equal(t, "http://block:1", out.Attrs[AttrEndpoint])

	// Process default when no directive.
	out, err = ex.Process(bc, cypherBlock("RETURN 1"))
	require.NoError(t, err)
	assert.Equal(t, "http://env:8080", out.Attrs[AttrEndpoint])

	// Hardcoded fallback when neither is set.
	bc2 := NewBuildContext(nil, "")
	out, err = ex.Process(bc2, cypherBlock("RETURN 1"))
	require.NoError(t, err)
	assert.Equal(t, directive.FallbackEndpoint, out.Attrs[AttrEndpoint])
}

func TestProcess_StripsLeadingBlankLines(t *testing.T) {
	bc := NewBuildContext(nil, "")
	ex := NewExtractor(TargetHTML, nil)

	out, err := ex.Process(bc, cypherBlock("//| context: demo\n\n   \nMATCH (n)\nRETURN n"))
	require.NoError(t, err)
	assert.Equal(t, "MATCH (n)\nRETURN n", out.Text)
}

func TestProcess_UnrecognizedDirectivesPassThrough(t *testing.T) {
	bc := NewBuildContext(nil, "")
	ex := NewExtractor(TargetHTML, nil)

	out, err := ex.Process(bc, cypherBlock("//| theme: dark\nRETURN 1"))
	require.NoError(t, err)
	assert.Equal(t, "dark", out.Attrs["data-theme"])
}

func TestProcess_NonCypherBlockPassesThrough(t *testing.T) {
	bc := NewBuildContext(nil, "")
	ex := NewExtractor(TargetHTML, nil)

	in := Block{Text: "print('hi')", Classes: []string{"python"}, Attrs: map[string]string{}}
	out, err := ex.Process(bc, in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestProcess_NonHTMLTargetPassesThrough(t *testing.T) {
	bc := NewBuildContext(nil, "")
	ex := NewExtractor(TargetOther, nil)

	in := cypherBlock("//| endpoint: http://h:9000\nRETURN 1")
	out, err := ex.Process(bc, in)
	require.NoError(t, err)
	assert.Equal(t, in, out, "directives must survive when the target cannot embed scripts")
}

func TestProcess_DoesNotMutateInput(t *testing.T) {
	bc := NewBuildContext(nil, "")
	ex := NewExtractor(TargetHTML, nil)

	in := cypherBlock("//| endpoint: http://h:9000\nRETURN 1")
	_, err := ex.Process(bc, in)
	require.NoError(t, err)
	assert.Equal(t, "//| endpoint: http://h:9000\nRETURN 1", in.Text)
	assert.Empty(t, in.Attrs)
}

func TestRegisterAssets_ExactlyOncePerPass(t *testing.T) {
	ex := NewExtractor(TargetHTML, nil)

	for _, blocks := range []int{0, 1, 5} {
		reg := &recordingRegistrar{}
		bc := NewBuildContext(reg, "")
		for range blocks {
			_, err := ex.Process(bc, cypherBlock("RETURN 1"))
			require.NoError(t, err)
		}

		want := 0
		if blocks > 0 {
			want = 1
		}
		assert.Equal(t, want, reg.scripts, "scripts for %d blocks", blocks)
		assert.Equal(t, want, reg.stylesheets, "stylesheets for %d blocks", blocks)
	}
}
