package styled

import (
	"errors"
	"strings"
	"testing"

	segerrors "github.com/sillsdev/FieldWorks-sub105/core/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		runs    []Run
		wantErr bool
	}{
		{
			name: "single run",
			text: "abc",
			runs: []Run{{Begin: 0, End: 3}},
		},
		{
			name: "two runs",
			text: "1In",
			runs: []Run{{Begin: 0, End: 1, Style: "c", Role: RoleChapterNumber}, {Begin: 1, End: 3}},
		},
		{
			name: "empty",
			text: "",
		},
		{
			name:    "gap",
			text:    "abcd",
			runs:    []Run{{Begin: 0, End: 1}, {Begin: 2, End: 4}},
			wantErr: true,
		},
		{
			name:    "overlap",
			text:    "abcd",
			runs:    []Run{{Begin: 0, End: 3}, {Begin: 2, End: 4}},
			wantErr: true,
		},
		{
			name:    "empty run",
			text:    "ab",
			runs:    []Run{{Begin: 0, End: 0}, {Begin: 0, End: 2}},
			wantErr: true,
		},
		{
			name:    "short coverage",
			text:    "abcd",
			runs:    []Run{{Begin: 0, End: 3}},
			wantErr: true,
		},
		{
			name:    "past end",
			text:    "ab",
			runs:    []Run{{Begin: 0, End: 3}},
			wantErr: true,
		},
		{
			name:    "text without runs",
			text:    "ab",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.text, tt.runs)
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() expected error")
				}
				if !errors.Is(err, segerrors.ErrInvalidInput) {
					t.Errorf("error %v should wrap ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}
			if got.String() != tt.text || got.RunCount() != len(tt.runs) {
				t.Errorf("New() = %q with %d runs", got.String(), got.RunCount())
			}
		})
	}
}

func TestNewCopiesRuns(t *testing.T) {
	runs := []Run{{Begin: 0, End: 2, Style: "v", Role: RoleVerseNumber}}
	txt := MustNew("12", runs)
	runs[0].Style = "mutated"
	if txt.Run(0).Style != "v" {
		t.Error("New must copy the run slice")
	}

	out := txt.Runs()
	out[0].Style = "mutated"
	if txt.Run(0).Style != "v" {
		t.Error("Runs must return a copy")
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew should panic on invalid runs")
		}
	}()
	MustNew("abc", nil)
}

func TestBuilder(t *testing.T) {
	txt := NewBuilder(nil).
		Append("1", "c").
		Append("In the beginning ", "").
		Append("", "wj").
		Append("2", "v").
		Append("God ", "").
		Append("created", "").
		Text()

	if got := txt.String(); got != "1In the beginning 2God created" {
		t.Errorf("String() = %q", got)
	}
	if txt.RunCount() != 4 {
		t.Fatalf("RunCount() = %d, want 4 (adjacent plain appends merge)", txt.RunCount())
	}

	wantRoles := []Role{RoleChapterNumber, RolePlain, RoleVerseNumber, RolePlain}
	for i, want := range wantRoles {
		if got := txt.Run(i).Role; got != want {
			t.Errorf("Run(%d).Role = %v, want %v", i, got, want)
		}
	}
	if got := txt.RunText(3); got != "God created" {
		t.Errorf("RunText(3) = %q", got)
	}
}

func TestBuilderKeepsNumberRunsApart(t *testing.T) {
	txt := NewBuilder(nil).
		Append("1", "c").
		Append("1", "v").
		Append("2", "v").
		Append("In the ", "").
		Append("beginning", "").
		Text()

	want := []Run{
		{Begin: 0, End: 1, Style: "c", Role: RoleChapterNumber},
		{Begin: 1, End: 2, Style: "v", Role: RoleVerseNumber},
		{Begin: 2, End: 3, Style: "v", Role: RoleVerseNumber},
		{Begin: 3, End: 19, Role: RolePlain},
	}
	if txt.RunCount() != len(want) {
		t.Fatalf("RunCount() = %d, want %d: %+v", txt.RunCount(), len(want), txt.Runs())
	}
	for i := range want {
		if got := txt.Run(i); got != want[i] {
			t.Errorf("Run(%d) = %+v, want %+v", i, got, want[i])
		}
	}
}

func TestBuilderUnknownStyleIsOther(t *testing.T) {
	txt := NewBuilder(DefaultStyles()).Append("Jesus said", "wj").Text()
	if got := txt.Run(0).Role; got != RoleOther {
		t.Errorf("Role = %v, want other", got)
	}
}

func TestRunIndexAt(t *testing.T) {
	txt := NewBuilder(nil).Append("12", "v").Append("abc", "").Append("3", "v").Text()

	tests := []struct {
		pos  int
		want int
	}{
		{-1, 0},
		{0, 0},
		{1, 0},
		{2, 1},
		{4, 1},
		{5, 2},
		{6, 3},
		{100, 3},
	}
	for _, tt := range tests {
		if got := txt.RunIndexAt(tt.pos); got != tt.want {
			t.Errorf("RunIndexAt(%d) = %d, want %d", tt.pos, got, tt.want)
		}
	}
}

func TestSlice(t *testing.T) {
	txt := NewBuilder(nil).Append("5", "v").Append("Text A", "").Append("6", "v").Append("Text B", "").Text()

	got := txt.Slice(3, 9)
	if got.String() != "xt A6T" {
		t.Fatalf("Slice(3, 9) = %q", got.String())
	}
	want := []Run{
		{Begin: 0, End: 4, Role: RolePlain},
		{Begin: 4, End: 5, Style: "v", Role: RoleVerseNumber},
		{Begin: 5, End: 6, Role: RolePlain},
	}
	if got.RunCount() != len(want) {
		t.Fatalf("RunCount() = %d, want %d", got.RunCount(), len(want))
	}
	for i := range want {
		if got.Run(i) != want[i] {
			t.Errorf("Run(%d) = %+v, want %+v", i, got.Run(i), want[i])
		}
	}

	if !txt.Slice(0, txt.Len()).Equal(txt) {
		t.Error("full slice should equal the original")
	}
	if txt.Slice(4, 4).Len() != 0 || txt.Slice(8, 2).Len() != 0 {
		t.Error("empty or inverted slice should be empty")
	}
	if txt.Slice(-5, 1).String() != "5" {
		t.Error("slice should clamp negative begin")
	}
}

func TestPlain(t *testing.T) {
	if Plain("").RunCount() != 0 {
		t.Error("Plain(\"\") should have no runs")
	}
	p := Plain("hello")
	if p.RunCount() != 1 || p.Run(0).Role != RolePlain || p.Len() != 5 {
		t.Errorf("Plain(hello) = %+v", p.Runs())
	}
}

func TestFingerprint(t *testing.T) {
	a := NewBuilder(nil).Append("1", "v").Append("text", "").Text()
	b := NewBuilder(nil).Append("1", "v").Append("text", "").Text()
	c := NewBuilder(nil).Append("1text", "").Text()
	d := NewBuilder(nil).Append("1", "v").Append("texT", "").Text()

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical texts should share a fingerprint")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("same string with different runs should differ")
	}
	if a.Fingerprint() == d.Fingerprint() {
		t.Error("different strings should differ")
	}
	if a.Equal(c) {
		t.Error("Equal should compare runs")
	}
}

func TestRoles(t *testing.T) {
	m := DefaultStyles()
	tests := []struct {
		style string
		want  Role
	}{
		{"", RolePlain},
		{"v", RoleVerseNumber},
		{"Verse Number", RoleVerseNumber},
		{"c", RoleChapterNumber},
		{"Chapter Number", RoleChapterNumber},
		{"b", RoleStanzaBreak},
		{"Stanza Break", RoleStanzaBreak},
		{"q1", RoleOther},
	}
	for _, tt := range tests {
		if got := m.Role(tt.style); got != tt.want {
			t.Errorf("Role(%q) = %v, want %v", tt.style, got, tt.want)
		}
	}

	var nilMap *StyleMap
	if nilMap.Role("v") != RoleVerseNumber {
		t.Error("nil StyleMap should fall back to defaults")
	}
	if !RoleChapterNumber.IsNumber() || RoleStanzaBreak.IsNumber() {
		t.Error("IsNumber wrong")
	}
	if Role(42).String() != "Role(42)" {
		t.Errorf("String() = %q", Role(42).String())
	}
}

func TestLoadStyles(t *testing.T) {
	cfg := `
roles:
  verse_number: ["Verse Number Alt"]
  plain: ["v"]
  stanza_break: ["Poetry Break"]
`
	m, err := LoadStyles(strings.NewReader(cfg))
	if err != nil {
		t.Fatalf("LoadStyles() error: %v", err)
	}
	if m.Role("Verse Number Alt") != RoleVerseNumber {
		t.Error("custom verse style not loaded")
	}
	if m.Role("v") != RolePlain {
		t.Error("config should override defaults")
	}
	if m.Role("c") != RoleChapterNumber {
		t.Error("defaults should survive")
	}
	if got := m.Names(RoleStanzaBreak); len(got) != 3 || got[0] != "Poetry Break" {
		t.Errorf("Names(stanza_break) = %v", got)
	}

	empty, err := LoadStyles(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadStyles(empty) error: %v", err)
	}
	if empty.Role("v") != RoleVerseNumber {
		t.Error("empty config should yield defaults")
	}
}

func TestLoadStylesErrors(t *testing.T) {
	tests := []string{
		"roles:\n  footnote: [\"f\"]\n",
		"unknown_key: 1\n",
		"roles: [",
	}
	for _, cfg := range tests {
		if _, err := LoadStyles(strings.NewReader(cfg)); err == nil {
			t.Errorf("LoadStyles(%q) expected error", cfg)
		} else if !errors.Is(err, segerrors.ErrInvalidInput) {
			t.Errorf("LoadStyles(%q) error %v should wrap ErrInvalidInput", cfg, err)
		}
	}
}
