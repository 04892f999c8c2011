// Package markdown turns markdown views into native .html view source.
package markdown

import (
	"bytes"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"

	"github.com/3-lines-studio/storeview/internal/core"
)

var ErrUnknownPreset = errors.New("unknown transform preset")

const (
	PresetGFM         = "gfm"
	PresetHighlight   = "highlight"
	PresetTypographer = "typographer"
	PresetFootnote    = "footnote"
	PresetDefinitions = "definitions"
)

type Transformer struct {
	md goldmark.Markdown
}

func New(cfg core.TransformConfig) (*Transformer, error) {
	exts := []goldmark.Extender{meta.Meta}

	for _, preset := range cfg.Presets {
		switch preset {
		case PresetGFM:
			exts = append(exts, extension.GFM)
		case PresetHighlight:
			opts := []highlighting.Option{
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			}
			if cfg.Style != "" {
				opts = append(opts, highlighting.WithStyle(cfg.Style))
			}
			exts = append(exts, highlighting.NewHighlighting(opts...))
		case PresetTypographer:
			exts = append(exts, extension.Typographer)
		case PresetFootnote:
			exts = append(exts, extension.Footnote)
		case PresetDefinitions:
			exts = append(exts, extension.DefinitionList)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
		}
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Transformer{md: md}, nil
}

// Transform renders src to HTML. Front matter is carried over unchanged in
// meaning so the .html loader still sees the store, fragments and imports.
func (t *Transformer) Transform(filename string, src []byte) ([]byte, error) {
	pc := parser.NewContext()

	var body bytes.Buffer
	if err := t.md.Convert(src, &body, parser.WithContext(pc)); err != nil {
		return nil, fmt.Errorf("convert %s: %w", filename, err)
	}

	fm, err := meta.TryGet(pc)
	if err != nil {
		return nil, fmt.Errorf("front matter %s: %w", filename, err)
	}

	var out bytes.Buffer
	if len(fm) > 0 {
		y, err := yaml.Marshal(fm)
		if err != nil {
			return nil, fmt.Errorf("front matter %s: %w", filename, err)
		}
		out.WriteString("---\n")
		out.Write(y)
		out.WriteString("---\n")
	}
	out.Write(body.Bytes())
	return out.Bytes(), nil
}
