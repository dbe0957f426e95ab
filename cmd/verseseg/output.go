package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sillsdev/FieldWorks-sub105/core/segment"
	"github.com/sillsdev/FieldWorks-sub105/core/store"
)

// SegmentView is the printed form of a segment.
type SegmentView struct {
	Ref           string   `json:"ref" yaml:"ref"`
	ParagraphID   string   `json:"paragraph_id" yaml:"paragraph_id"`
	WritingSystem string   `json:"ws,omitempty" yaml:"ws,omitempty"`
	VerseStart    int      `json:"verse_start" yaml:"verse_start"`
	TextStart     int      `json:"text_start" yaml:"text_start"`
	EndIndex      int      `json:"end_index" yaml:"end_index"`
	Text          string   `json:"text" yaml:"text"`
	Flags         []string `json:"flags,omitempty" yaml:"flags,omitempty,flow"`
}

func newSegmentView(seg segment.VerseSegment, ws string) SegmentView {
	return SegmentView{
		Ref:           seg.Range().String(),
		ParagraphID:   seg.ParagraphID.String(),
		WritingSystem: ws,
		VerseStart:    seg.VerseStart,
		TextStart:     seg.TextStart,
		EndIndex:      seg.EndIndex,
		Text:          seg.Text.String(),
		Flags:         flagNames(seg.IsChapterNumberRun, seg.IsVerseNumberRun, seg.IsCompleteParagraph, seg.IsStanzaBreak),
	}
}

func recordView(r store.Record) SegmentView {
	return SegmentView{
		Ref:           r.Range().String(),
		ParagraphID:   r.ParagraphID.String(),
		WritingSystem: r.WritingSystem,
		VerseStart:    r.VerseStart,
		TextStart:     r.TextStart,
		EndIndex:      r.EndIndex,
		Text:          r.Text,
		Flags:         flagNames(r.IsChapterNumberRun, r.IsVerseNumberRun, r.IsCompleteParagraph, r.IsStanzaBreak),
	}
}

func flagNames(chapter, verse, complete, stanza bool) []string {
	var names []string
	if chapter {
		names = append(names, "chapter")
	}
	if verse {
		names = append(names, "verse")
	}
	if complete {
		names = append(names, "complete")
	}
	if stanza {
		names = append(names, "stanza")
	}
	return names
}

// writeSegments prints segments as a tab-separated table or as structured data.
func writeSegments(w io.Writer, format string, views []SegmentView) error {
	if format != "text" {
		return writeStructured(w, format, map[string]any{"segments": views})
	}
	for _, v := range views {
		ref := v.Ref
		if v.WritingSystem != "" {
			ref += " (" + v.WritingSystem + ")"
		}
		if _, err := fmt.Fprintf(w, "%s\t[%d,%d)\t%s\t%q\n",
			ref, v.VerseStart, v.EndIndex, strings.Join(v.Flags, ","), v.Text); err != nil {
			return err
		}
	}
	return nil
}

// writeStructured writes data as JSON or YAML.
func writeStructured(w io.Writer, format string, data any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
