// Package usx loads USX (Unified Scripture XML) books into the document model.
//
// Chapter and verse milestones become number runs, <char> elements become
// runs in their own style and notes are dropped. Parsing uses xmlquery,
// which reads through encoding/xml and never fetches external entities.
package usx

import (
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	segerrors "github.com/sillsdev/FieldWorks-sub105/core/errors"
	"github.com/sillsdev/FieldWorks-sub105/core/ir"
	"github.com/sillsdev/FieldWorks-sub105/core/model"
	"github.com/sillsdev/FieldWorks-sub105/core/styled"
)

var (
	bookExpr = xpath.MustCompile("/usx/book[@code]")
	bodyExpr = xpath.MustCompile("/usx/*")
)

// Load parses a USX document. A nil style map uses styled.DefaultStyles.
func Load(r io.Reader, styles *styled.StyleMap) (*model.Book, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &segerrors.ParseError{Format: "usx", Message: "parsing XML", Err: fmt.Errorf("%w: %v", segerrors.ErrInvalidInput, err)}
	}

	bookNode := xmlquery.QuerySelector(doc, bookExpr)
	if bookNode == nil {
		return nil, segerrors.NewParse("usx", "", "missing <book code> element")
	}
	code := strings.TrimSpace(bookNode.SelectAttr("code"))
	number, ok := ir.BookNumber(code)
	if !ok {
		return nil, segerrors.NewParse("usx", "", fmt.Sprintf("unknown book code %q", code))
	}

	b := model.NewBookBuilder(number, styles)
	for _, n := range xmlquery.QuerySelectorAll(doc, bodyExpr) {
		switch n.Data {
		case "book":
		case "chapter":
			if num := n.SelectAttr("number"); num != "" {
				b.Chapter(num)
			}
		case "para":
			style := n.SelectAttr("style")
			b.StartParagraph(style)
			walk(b, n, style, "")
		case "verse":
			// USX 1 sometimes places verses outside paragraphs.
			if num := n.SelectAttr("number"); num != "" {
				b.Verse(num)
			}
		}
	}
	return b.Book(), nil
}

// walk feeds the inline content of a paragraph in paraStyle to the builder.
func walk(b *model.BookBuilder, n *xmlquery.Node, paraStyle, style string) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			b.Text(c.Data, style)
		case xmlquery.ElementNode:
			switch c.Data {
			case "verse":
				if num := c.SelectAttr("number"); num != "" {
					b.Verse(num)
				}
			case "chapter":
				// A chapter inside a paragraph splits it; the number run
				// opens the second half.
				if num := c.SelectAttr("number"); num != "" {
					b.Chapter(num)
					b.StartParagraph(paraStyle)
				}
			case "char":
				walk(b, c, paraStyle, c.SelectAttr("style"))
			case "note", "figure", "ms", "optbreak", "sidebar":
			default:
				walk(b, c, paraStyle, style)
			}
		}
	}
}
