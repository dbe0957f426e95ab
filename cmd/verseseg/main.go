// Command verseseg splits the paragraphs of USX and USFM books into verse
// segments, prints them, and exports them to SQLite for lookup by reference.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/alecthomas/kong"

	"github.com/sillsdev/FieldWorks-sub105/core/ir"
	"github.com/sillsdev/FieldWorks-sub105/core/model"
	"github.com/sillsdev/FieldWorks-sub105/core/segment"
	"github.com/sillsdev/FieldWorks-sub105/core/sqlite"
	"github.com/sillsdev/FieldWorks-sub105/core/store"
	"github.com/sillsdev/FieldWorks-sub105/core/styled"
	"github.com/sillsdev/FieldWorks-sub105/internal/input"
	"github.com/sillsdev/FieldWorks-sub105/internal/logging"
)

const version = "0.1.0"

// stdout is where commands write their results.
var stdout io.Writer = os.Stdout

// Globals holds flags shared by every command.
type Globals struct {
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"warn" env:"VERSESEG_LOG_LEVEL" enum:"debug,info,warn,error"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" default:"text" env:"VERSESEG_LOG_FORMAT" enum:"text,json"`
	Styles    string `name:"styles" help:"YAML file mapping style names to roles" type:"existingfile" env:"VERSESEG_STYLES"`
}

// CLI defines the command-line interface for verseseg.
var CLI struct {
	Globals

	Segment SegmentCmd `cmd:"" help:"Print the verse segments of a book"`
	Export  ExportCmd  `cmd:"" help:"Write the verse segments of a book to a SQLite database"`
	Lookup  LookupCmd  `cmd:"" help:"Show exported segments for a reference"`
	Roles   RolesCmd   `cmd:"" help:"Print the style-to-role mapping in effect"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// StyleMap returns the configured style map: the built-in defaults, with the
// --styles file merged over them when given.
func (g *Globals) StyleMap() (*styled.StyleMap, error) {
	if g.Styles == "" {
		return styled.DefaultStyles(), nil
	}
	f, err := os.Open(g.Styles)
	if err != nil {
		return nil, fmt.Errorf("open styles: %w", err)
	}
	defer f.Close()
	return styled.LoadStyles(f)
}

// BookSource names a book file and its back translations.
type BookSource struct {
	Path string            `arg:"" help:"USX or USFM file (.xz and .gz are decompressed)" type:"existingfile"`
	BT   map[string]string `name:"bt" help:"Back translation file for a writing system (ws=path)"`
}

// Load loads the book and attaches its back translations.
func (s *BookSource) Load(styles *styled.StyleMap) (*model.Book, error) {
	book, err := input.LoadBook(s.Path, styles)
	if err != nil {
		return nil, err
	}
	for _, ws := range sortedKeys(s.BT) {
		bt, err := input.LoadBook(s.BT[ws], styles)
		if err != nil {
			return nil, err
		}
		if bt.Number != book.Number {
			return nil, fmt.Errorf("back translation %s is %s, not %s", ws, bt.Code(), book.Code())
		}
		n := book.AttachTranslation(bt, ws)
		logging.Info("back translation attached", "ws", ws, "paragraphs", n)
	}
	return book, nil
}

// WritingSystems returns the back translation writing systems in order.
func (s *BookSource) WritingSystems() []string {
	return sortedKeys(s.BT)
}

// SegmentCmd prints the segments of every paragraph.
type SegmentCmd struct {
	BookSource

	WS     string `name:"ws" help:"Segment the back translation in this writing system instead of the vernacular"`
	Ref    string `name:"ref" help:"Only show segments overlapping a reference such as 'GEN 1:3-5'"`
	Output string `short:"o" help:"Output format (text, json, yaml)" default:"text" enum:"text,json,yaml"`
}

func (c *SegmentCmd) Run(g *Globals) error {
	var filter *ir.RefRange
	if c.Ref != "" {
		rr, err := ir.ParseRef(c.Ref)
		if err != nil {
			return err
		}
		filter = &rr
	}

	styles, err := g.StyleMap()
	if err != nil {
		return err
	}
	book, err := c.Load(styles)
	if err != nil {
		return err
	}

	ctx := logging.WithScanID(context.Background(), logging.NewScanID())

	var views []SegmentView
	for _, p := range book.Paragraphs {
		l, err := segmentParagraph(ctx, styles, p, c.WS)
		if err != nil {
			return err
		}
		for _, seg := range l.All() {
			if filter != nil && !seg.Range().Overlaps(*filter) {
				continue
			}
			views = append(views, newSegmentView(seg, c.WS))
		}
	}
	return writeSegments(stdout, c.Output, views)
}

// ExportCmd writes the segments of a book to SQLite.
type ExportCmd struct {
	BookSource

	DB string `name:"db" help:"SQLite database to write" required:"" type:"path"`
}

func (c *ExportCmd) Run(g *Globals) error {
	start := time.Now()
	styles, err := g.StyleMap()
	if err != nil {
		return err
	}
	book, err := c.Load(styles)
	if err != nil {
		return err
	}

	ctx := logging.WithScanID(context.Background(), logging.NewScanID())
	db, err := store.Open(ctx, c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	writingSystems := append([]string{""}, c.WritingSystems()...)

	total := 0
	for _, p := range book.Paragraphs {
		for _, ws := range writingSystems {
			l, err := segmentParagraph(ctx, styles, p, ws)
			if err != nil {
				return err
			}
			n, err := db.Save(ctx, ws, l)
			if err != nil {
				return fmt.Errorf("save paragraph %s: %w", p.ID(), err)
			}
			total += n
		}
	}

	logging.ExportFinished(ctx, c.DB, len(book.Paragraphs), total, time.Since(start))
	fmt.Fprintf(stdout, "Exported %d segments from %d paragraphs of %s to %s\n",
		total, len(book.Paragraphs), book.Code(), c.DB)
	return nil
}

// LookupCmd prints exported segments for a reference.
type LookupCmd struct {
	DB     string `name:"db" help:"SQLite database written by export" required:"" type:"existingfile"`
	Ref    string `arg:"" help:"Reference such as 'GEN 1:3' or 'GEN 1'"`
	Output string `short:"o" help:"Output format (text, json, yaml)" default:"text" enum:"text,json,yaml"`
}

func (c *LookupCmd) Run(g *Globals) error {
	rr, err := ir.ParseRef(c.Ref)
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := store.OpenReadOnly(ctx, c.DB)
	if err != nil {
		return err
	}
	defer db.Close()

	recs, err := db.ByRange(ctx, rr)
	if err != nil {
		return err
	}
	logging.InfoContext(ctx, "lookup", "ref", rr.String(), "segments", len(recs))
	views := make([]SegmentView, 0, len(recs))
	for _, r := range recs {
		views = append(views, recordView(r))
	}
	return writeSegments(stdout, c.Output, views)
}

// RolesCmd prints the style-to-role mapping.
type RolesCmd struct {
	Output string `short:"o" help:"Output format (json, yaml)" default:"yaml" enum:"json,yaml"`
}

func (c *RolesCmd) Run(g *Globals) error {
	styles, err := g.StyleMap()
	if err != nil {
		return err
	}
	roles := map[string][]string{}
	for _, role := range []styled.Role{styled.RoleVerseNumber, styled.RoleChapterNumber, styled.RoleStanzaBreak, styled.RolePlain} {
		if names := styles.Names(role); len(names) > 0 {
			roles[role.String()] = names
		}
	}
	return writeStructured(stdout, c.Output, map[string]any{"roles": roles})
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := sqlite.GetInfo()
	fmt.Fprintf(stdout, "verseseg version %s (sqlite %s, %s)\n", version, info.DriverType, info.Package)
	return nil
}

func segmentParagraph(ctx context.Context, styles *styled.StyleMap, p *model.Paragraph, ws string) (segment.List, error) {
	var (
		l   segment.List
		err error
	)
	if ws == "" {
		l, err = segment.CollectParagraph(p, segment.WithStyles(styles))
	} else {
		l, err = segment.CollectBackTranslation(p, ws, segment.WithStyles(styles))
	}
	if err != nil {
		logging.ScanFailed(ctx, p.ID().String(), err, "ws", ws)
		return segment.List{}, err
	}
	logging.ParagraphScanned(ctx, p.ID().String(), ws, l.Len(), "style", p.StyleName(), "start", p.StartRef().String())
	return l, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("verseseg"),
		kong.Description("Verse segmentation for styled scripture paragraphs"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), logging.ParseFormat(CLI.LogFormat))

	err := ctx.Run(&CLI.Globals)
	ctx.FatalIfErrorf(err)
}
