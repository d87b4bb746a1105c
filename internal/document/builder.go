package document

import (
	"context"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ScriptHref and StylesheetHref are the site-root-relative locations the
// published pages reference; FileRegistrar writes the matching files.
const (
	ScriptHref     = "/cypherdoc/runner.js"
	StylesheetHref = "/cypherdoc/cypherdoc.css"
)

// buildParallelism bounds the per-file fan-out of BuildDir.
const buildParallelism = 8

// Builder runs the extractor over whole markdown sources, splicing published
// block HTML in place of tagged fences. Everything that is not a cypher fence
// passes through verbatim — general document compilation belongs to the host
// tool, not to this builder.
type Builder struct {
	ex     *Extractor
	logger *slog.Logger
}

// NewBuilder creates a Builder around the given extractor.
func NewBuilder(ex *Extractor, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{ex: ex, logger: logger}
}

// BuildFile rewrites one markdown source into dst and returns the number of
// published blocks. Documents that contain at least one qualifying block get
// the companion script and stylesheet references injected once, at the top.
func (b *Builder) BuildFile(bc *BuildContext, src, dst string) (int, error) {
	raw, err := os.ReadFile(src)
	if err != nil {
		return 0, fmt.Errorf("document: read %s: %w", src, err)
	}

	out, count, err := b.rewrite(bc, string(raw))
	if err != nil {
		return 0, fmt.Errorf("document: rewrite %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("document: mkdir for %s: %w", dst, err)
	}
	if err := os.WriteFile(dst, []byte(out), 0o644); err != nil {
		return 0, fmt.Errorf("document: write %s: %w", dst, err)
	}
	return count, nil
}

// rewrite splices published block HTML into the document text. It scans for
// fenced regions whose info string names the cypher language; all other
// content, including non-cypher fences, is preserved byte for byte.
func (b *Builder) rewrite(bc *BuildContext, text string) (string, int, error) {
	lines := strings.Split(text, "\n")
	var out []string
	count := 0

	for i := 0; i < len(lines); i++ {
		fenceLen, info := openFence(lines[i])
		if fenceLen == 0 || !isCypherInfo(info) {
			out = append(out, lines[i])
			continue
		}

		var body []string
		closed := false
		j := i + 1
		for ; j < len(lines); j++ {
			if closesFence(lines[j], fenceLen) {
				closed = true
				break
			}
			body = append(body, lines[j])
		}
		if !closed {
			// Unterminated fence: not a block, keep the text as-is.
			out = append(out, lines[i])
			continue
		}

		block, err := b.ex.Process(bc, Block{
			Text:    strings.Join(body, "\n"),
			Classes: []string{ClassCypher},
			Attrs:   map[string]string{},
		})
		if err != nil {
			return "", 0, err
		}
		out = append(out, publishHTML(block))
		count++
		i = j
	}

	doc := strings.Join(out, "\n")
	if count > 0 {
		doc = assetTags() + "\n" + doc
	}
	return doc, count, nil
}

// BuildDir walks an entire source tree, building markdown files in parallel
// and copying everything else verbatim into outDir. Registered assets land in
// outDir exactly once via FileRegistrar, regardless of how many documents or
// blocks the pass touches.
func (b *Builder) BuildDir(ctx context.Context, bc *BuildContext, srcDir, outDir string) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(buildParallelism)

	counts := make(chan int, buildParallelism)
	done := make(chan int)
	go func() {
		total := 0
		for c := range counts {
			total += c
		}
		done <- total
	}()

	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(outDir, rel)

		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if isMarkdown(path) {
				n, err := b.BuildFile(bc, path, dst)
				if err != nil {
					return err
				}
				b.logger.Info("document built", "source", rel, "blocks", n)
				counts <- n
				return nil
			}
			return copyFile(path, dst)
		})
		return nil
	})
	if err != nil {
		_ = g.Wait()
		close(counts)
		<-done
		return 0, fmt.Errorf("document: walk %s: %w", srcDir, err)
	}

	err = g.Wait()
	close(counts)
	total := <-done
	if err != nil {
		return 0, err
	}
	return total, nil
}

// FileRegistrar implements AssetRegistrar by writing assets under a site
// output directory, at the locations the published pages reference.
type FileRegistrar struct {
	Dir string
}

func (r FileRegistrar) RegisterScript(name string, content []byte) error {
	return r.write(name, content)
}

func (r FileRegistrar) RegisterStylesheet(name string, content []byte) error {
	return r.write(name, content)
}

func (r FileRegistrar) write(name string, content []byte) error {
	dir := filepath.Join(r.Dir, "cypherdoc")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, name), content, 0o644)
}

// publishHTML renders a processed block as the HTML the page script consumes.
// Attributes are emitted in sorted order so output is deterministic.
func publishHTML(b Block) string {
	var sb strings.Builder
	sb.WriteString(`<pre class="`)
	sb.WriteString(strings.Join(b.Classes, " "))
	sb.WriteString(`"`)

	keys := make([]string, 0, len(b.Attrs))
	for k := range b.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(" ")
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(html.EscapeString(b.Attrs[k]))
		sb.WriteString(`"`)
	}

	sb.WriteString("><code>")
	sb.WriteString(html.EscapeString(b.Text))
	sb.WriteString("</code></pre>")
	return sb.String()
}

func assetTags() string {
	return `<script defer src="` + ScriptHref + `"></script>` + "\n" +
		`<link rel="stylesheet" href="` + StylesheetHref + `">`
}

// openFence reports the backtick run length and info string if the line opens
// a fenced code region, or 0 if it does not.
func openFence(line string) (int, string) {
	trimmed := strings.TrimLeft(line, " \t")
	n := 0
	for n < len(trimmed) && trimmed[n] == '`' {
		n++
	}
	if n < 3 {
		return 0, ""
	}
	return n, strings.TrimSpace(trimmed[n:])
}

// closesFence reports whether the line is a closing fence of at least the
// opening run length.
func closesFence(line string, fenceLen int) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < fenceLen {
		return false
	}
	return strings.Count(trimmed, "`") == len(trimmed)
}

// isCypherInfo matches the fence info strings that tag a cypher block:
// `cypher`, `{cypher}`, and `{.cypher}` (attribute-list style).
func isCypherInfo(info string) bool {
	info = strings.Trim(info, "{}")
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return false
	}
	return strings.TrimPrefix(fields[0], ".") == ClassCypher
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".qmd":
		return true
	}
	return false
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
