// Package store persists verse segments in a SQLite database so they can be
// looked up by scripture reference.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	segerrors "github.com/sillsdev/FieldWorks-sub105/core/errors"
	"github.com/sillsdev/FieldWorks-sub105/core/ir"
	"github.com/sillsdev/FieldWorks-sub105/core/segment"
	"github.com/sillsdev/FieldWorks-sub105/core/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS segments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		paragraph_id TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		ws TEXT NOT NULL DEFAULT '',
		seq INTEGER NOT NULL,
		start_ref INTEGER NOT NULL,
		end_ref INTEGER NOT NULL,
		verse_start INTEGER NOT NULL,
		text_start INTEGER NOT NULL,
		end_index INTEGER NOT NULL,
		text TEXT NOT NULL,
		flags INTEGER NOT NULL DEFAULT 0,
		UNIQUE (paragraph_id, ws, seq)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_segments_ref ON segments(start_ref, end_ref)`,
}

// Segment flag bits stored in the flags column.
const (
	flagChapterNumber = 1 << iota
	flagVerseNumber
	flagCompleteParagraph
	flagStanzaBreak
)

// Record is one stored segment.
type Record struct {
	ID            int64     `json:"id" yaml:"id"`
	ParagraphID   uuid.UUID `json:"paragraph_id" yaml:"paragraph_id"`
	OwnerID       uuid.UUID `json:"owner_id" yaml:"owner_id"`
	WritingSystem string    `json:"ws,omitempty" yaml:"ws,omitempty"`
	Seq           int       `json:"seq" yaml:"seq"`
	Start         ir.Ref    `json:"start" yaml:"start"`
	End           ir.Ref    `json:"end" yaml:"end"`
	VerseStart    int       `json:"verse_start" yaml:"verse_start"`
	TextStart     int       `json:"text_start" yaml:"text_start"`
	EndIndex      int       `json:"end_index" yaml:"end_index"`
	Text          string    `json:"text" yaml:"text"`

	IsChapterNumberRun  bool `json:"is_chapter_number_run,omitempty" yaml:"is_chapter_number_run,omitempty"`
	IsVerseNumberRun    bool `json:"is_verse_number_run,omitempty" yaml:"is_verse_number_run,omitempty"`
	IsCompleteParagraph bool `json:"is_complete_paragraph,omitempty" yaml:"is_complete_paragraph,omitempty"`
	IsStanzaBreak       bool `json:"is_stanza_break,omitempty" yaml:"is_stanza_break,omitempty"`
}

// Range returns the reference range of the record.
func (r Record) Range() ir.RefRange {
	return ir.RefRange{Start: r.Start, End: r.End}
}

// Store is a segment database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlite.OpenContext(ctx, path)
	if err != nil {
		return nil, segerrors.NewIO("open database", path, err)
	}
	s, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenReadOnly opens an existing segment database for queries. Save fails on
// a read-only store.
func OpenReadOnly(ctx context.Context, path string) (*Store, error) {
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, segerrors.NewIO("open database", path, err)
	}
	s := &Store{db: db}
	if _, err := s.Count(ctx); err != nil {
		db.Close()
		return nil, segerrors.NewIO("open database", path, err)
	}
	return s, nil
}

// New wraps an open database and ensures the schema exists.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores the segmentation of one paragraph in writing system ws ("" for
// vernacular), replacing whatever was stored for it before. It returns the
// number of segments written.
func (s *Store) Save(ctx context.Context, ws string, l segment.List) (n int, err error) {
	if l.Len() == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	paragraph := l.At(0).ParagraphID.String()
	if _, err = tx.ExecContext(ctx, `DELETE FROM segments WHERE paragraph_id = ? AND ws = ?`, paragraph, ws); err != nil {
		return 0, fmt.Errorf("delete old segments: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO segments
		(paragraph_id, owner_id, ws, seq, start_ref, end_ref, verse_start, text_start, end_index, text, flags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, seg := range l.All() {
		_, err = stmt.ExecContext(ctx,
			seg.ParagraphID.String(), seg.OwnerID.String(), ws, i,
			seg.Start.BBCCCVVV(), seg.End.BBCCCVVV(),
			seg.VerseStart, seg.TextStart, seg.EndIndex,
			seg.Text.String(), flags(seg))
		if err != nil {
			return 0, fmt.Errorf("insert segment %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return l.Len(), nil
}

// ByRef returns the stored segments whose range contains ref, ordered by
// writing system, reference, paragraph and position.
func (s *Store) ByRef(ctx context.Context, ref ir.Ref) ([]Record, error) {
	return s.ByRange(ctx, ir.RefRange{Start: ref, End: ref})
}

// ByRange returns the stored segments overlapping rr.
func (s *Store) ByRange(ctx context.Context, rr ir.RefRange) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		id, paragraph_id, owner_id, ws, seq, start_ref, end_ref,
		verse_start, text_start, end_index, text, flags
		FROM segments WHERE start_ref <= ? AND end_ref >= ?
		ORDER BY ws, start_ref, paragraph_id, seq`, rr.End.BBCCCVVV(), rr.Start.BBCCCVVV())
	if err != nil {
		return nil, fmt.Errorf("query segments: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r                Record
			paragraph, owner string
			startRef, endRef int
			flagBits         int
		)
		if err := rows.Scan(&r.ID, &paragraph, &owner, &r.WritingSystem, &r.Seq, &startRef, &endRef,
			&r.VerseStart, &r.TextStart, &r.EndIndex, &r.Text, &flagBits); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		if r.ParagraphID, err = uuid.Parse(paragraph); err != nil {
			return nil, fmt.Errorf("segment %d: paragraph id: %w", r.ID, err)
		}
		if r.OwnerID, err = uuid.Parse(owner); err != nil {
			return nil, fmt.Errorf("segment %d: owner id: %w", r.ID, err)
		}
		r.Start = ir.RefFromBBCCCVVV(startRef)
		r.End = ir.RefFromBBCCCVVV(endRef)
		r.IsChapterNumberRun = flagBits&flagChapterNumber != 0
		r.IsVerseNumberRun = flagBits&flagVerseNumber != 0
		r.IsCompleteParagraph = flagBits&flagCompleteParagraph != 0
		r.IsStanzaBreak = flagBits&flagStanzaBreak != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of stored segments.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM segments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count segments: %w", err)
	}
	return n, nil
}

func flags(seg segment.VerseSegment) int {
	var f int
	if seg.IsChapterNumberRun {
		f |= flagChapterNumber
	}
	if seg.IsVerseNumberRun {
		f |= flagVerseNumber
	}
	if seg.IsCompleteParagraph {
		f |= flagCompleteParagraph
	}
	if seg.IsStanzaBreak {
		f |= flagStanzaBreak
	}
	return f
}
