package ir

import (
	"encoding/json"
	"errors"
	"sort"
	"testing"

	segerrors "github.com/sillsdev/FieldWorks-sub105/core/errors"
)

func TestRefJSON(t *testing.T) {
	ref := NewRef(MustBookNumber("GEN"), 1, 3)

	data, err := json.Marshal(ref)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(data) != `{"book":1,"chapter":1,"verse":3}` {
		t.Errorf("json = %s", data)
	}
}

func TestRefBBCCCVVV(t *testing.T) {
	tests := []struct {
		ref  Ref
		want int
	}{
		{NewRef(1, 1, 1), 1001001},
		{NewRef(40, 5, 3), 40005003},
		{NewRef(66, 22, 21), 66022021},
		{NewRef(19, 119, 176), 19119176},
	}

	for _, tt := range tests {
		if got := tt.ref.BBCCCVVV(); got != tt.want {
			t.Errorf("%v.BBCCCVVV() = %d, want %d", tt.ref, got, tt.want)
		}
		if got := RefFromBBCCCVVV(tt.want); got != tt.ref {
			t.Errorf("RefFromBBCCCVVV(%d) = %v, want %v", tt.want, got, tt.ref)
		}
	}
}

func TestRefCompare(t *testing.T) {
	refs := []Ref{
		NewRef(2, 1, 1),
		NewRef(1, 2, 1),
		NewRef(1, 1, 10),
		NewRef(1, 1, 2),
		NewRef(1, 10, 1),
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })

	want := []Ref{
		NewRef(1, 1, 2),
		NewRef(1, 1, 10),
		NewRef(1, 2, 1),
		NewRef(1, 10, 1),
		NewRef(2, 1, 1),
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("sorted[%d] = %v, want %v", i, refs[i], want[i])
		}
	}

	if NewRef(1, 1, 1).Compare(NewRef(1, 1, 1)) != 0 {
		t.Error("equal refs should compare 0")
	}
}

func TestRefWithChapter(t *testing.T) {
	ref := NewRef(1, 3, 24)
	got := ref.WithChapter(4)
	if got != NewRef(1, 4, 1) {
		t.Errorf("WithChapter(4) = %v, want GEN 4:1", got)
	}
	if ref != NewRef(1, 3, 24) {
		t.Error("WithChapter must not modify the receiver")
	}
	if got := ref.WithVerse(25); got.Verse != 25 || got.Chapter != 3 {
		t.Errorf("WithVerse(25) = %v", got)
	}
}

func TestRefIsValid(t *testing.T) {
	tests := []struct {
		ref  Ref
		want bool
	}{
		{NewRef(1, 1, 1), true},
		{NewRef(66, 22, 21), true},
		{NewRef(1, 0, 0), true},
		{NewRef(0, 1, 1), false},
		{NewRef(67, 1, 1), false},
		{NewRef(1, 1000, 1), false},
		{NewRef(1, 1, -1), false},
	}
	for _, tt := range tests {
		if got := tt.ref.IsValid(); got != tt.want {
			t.Errorf("%v.IsValid() = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestRefString(t *testing.T) {
	if got := NewRef(43, 3, 16).String(); got != "JHN 3:16" {
		t.Errorf("String() = %q, want %q", got, "JHN 3:16")
	}
	if got := NewRef(99, 1, 1).String(); got != "99 1:1" {
		t.Errorf("String() = %q, want %q", got, "99 1:1")
	}
}

func TestRefRange(t *testing.T) {
	bridge := RefRange{Start: NewRef(1, 1, 3), End: NewRef(1, 1, 4)}
	if !bridge.IsBridge() {
		t.Error("3-4 should be a bridge")
	}
	if got := bridge.String(); got != "GEN 1:3-4" {
		t.Errorf("String() = %q, want %q", got, "GEN 1:3-4")
	}
	if !bridge.Contains(NewRef(1, 1, 4)) || bridge.Contains(NewRef(1, 1, 5)) {
		t.Error("Contains() wrong for bridge 3-4")
	}

	single := RefRange{Start: NewRef(1, 1, 5), End: NewRef(1, 1, 5)}
	if single.IsBridge() {
		t.Error("single verse should not be a bridge")
	}
	if got := single.String(); got != "GEN 1:5" {
		t.Errorf("String() = %q", got)
	}
	if bridge.Overlaps(single) {
		t.Error("3-4 should not overlap 5")
	}
	if !bridge.Overlaps(RefRange{Start: NewRef(1, 1, 4), End: NewRef(1, 1, 9)}) {
		t.Error("3-4 should overlap 4-9")
	}

	crossChapter := RefRange{Start: NewRef(1, 1, 31), End: NewRef(1, 2, 3)}
	if got := crossChapter.String(); got != "GEN 1:31-GEN 2:3" {
		t.Errorf("String() = %q", got)
	}
}

func TestParseVerseNumber(t *testing.T) {
	tests := []struct {
		input     string
		wantStart int
		wantEnd   int
		wantErr   bool
	}{
		{input: "1", wantStart: 1, wantEnd: 1},
		{input: "12", wantStart: 12, wantEnd: 12},
		{input: " 7 ", wantStart: 7, wantEnd: 7},
		{input: "3-4", wantStart: 3, wantEnd: 4},
		{input: "3 - 4", wantStart: 3, wantEnd: 4},
		{input: "12–13", wantStart: 12, wantEnd: 13},
		{input: "3a", wantStart: 3, wantEnd: 3},
		{input: "3b-4", wantStart: 3, wantEnd: 4},
		{input: "5-5", wantStart: 5, wantEnd: 5},
		{input: "5.", wantStart: 5, wantEnd: 5},
		{input: "5\u00a0", wantStart: 5, wantEnd: 5},
		{input: "\u200f5", wantStart: 5, wantEnd: 5},
		{input: "(5)", wantStart: 5, wantEnd: 5},
		{input: "\u200f12\u200e-\u200f14", wantStart: 12, wantEnd: 14},
		{input: "7\u2014 8", wantStart: 7, wantEnd: 8},
		{input: "x3", wantStart: 3, wantEnd: 3},
		{input: "3-", wantStart: 3, wantEnd: 3},
		{input: "3,4", wantStart: 3, wantEnd: 3},
		{input: "4-3", wantStart: 4, wantEnd: 4},
		{input: "", wantErr: true},
		{input: "   ", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "-", wantErr: true},
		{input: "\u00a0.", wantErr: true},
		{input: "1000", wantErr: true},
		{input: "2-1000", wantErr: true},
		{input: "99999999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			start, end, err := ParseVerseNumber(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseVerseNumber(%q) expected error, got %d-%d", tt.input, start, end)
				}
				if !errors.Is(err, segerrors.ErrInvalidVerseNumber) {
					t.Errorf("error %v should wrap ErrInvalidVerseNumber", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVerseNumber(%q) unexpected error: %v", tt.input, err)
			}
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("ParseVerseNumber(%q) = %d-%d, want %d-%d", tt.input, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParseChapterNumber(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "1", want: 1},
		{input: "150", want: 150},
		{input: " 2 ", want: 2},
		{input: "3.", want: 3},
		{input: "\u200f4\u00a0", want: 4},
		{input: "abc", wantErr: true},
		{input: "", wantErr: true},
		{input: "1-2", wantErr: true},
		{input: "1a", wantErr: true},
		{input: "1 2", wantErr: true},
		{input: "1000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChapterNumber(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseChapterNumber(%q) expected error, got %d", tt.input, got)
				}
				if !errors.Is(err, segerrors.ErrInvalidChapterNumber) {
					t.Errorf("error %v should wrap ErrInvalidChapterNumber", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseChapterNumber(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseChapterNumber(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		input   string
		want    RefRange
		wantErr bool
	}{
		{
			input: "GEN 1:1",
			want:  RefRange{Start: NewRef(1, 1, 1), End: NewRef(1, 1, 1)},
		},
		{
			input: "mat 5:3-12",
			want:  RefRange{Start: NewRef(40, 5, 3), End: NewRef(40, 5, 12)},
		},
		{
			input: "1JN 3:16",
			want:  RefRange{Start: NewRef(62, 3, 16), End: NewRef(62, 3, 16)},
		},
		{
			input: "PSA 23",
			want:  RefRange{Start: NewRef(19, 23, 0), End: NewRef(19, 23, MaxNumber)},
		},
		{input: "", wantErr: true},
		{input: "XYZ 1:1", wantErr: true},
		{input: "GEN", wantErr: true},
		{input: "GEN 1:5-2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRef(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRef(%q) expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, segerrors.ErrInvalidInput) {
					t.Errorf("error %v should wrap ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRef(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRef(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBooks(t *testing.T) {
	if n, ok := BookNumber("gen"); !ok || n != 1 {
		t.Errorf("BookNumber(gen) = %d, %v", n, ok)
	}
	if n, ok := BookNumber("REV"); !ok || n != 66 {
		t.Errorf("BookNumber(REV) = %d, %v", n, ok)
	}
	if _, ok := BookNumber("TOB"); ok {
		t.Error("BookNumber(TOB) should not be canonical")
	}
	if BookCode(40) != "MAT" || BookCode(0) != "" || BookCode(67) != "" {
		t.Error("BookCode boundaries wrong")
	}
	if BookName(19) != "Psalms" {
		t.Errorf("BookName(19) = %q", BookName(19))
	}

	defer func() {
		if recover() == nil {
			t.Error("MustBookNumber should panic on unknown code")
		}
	}()
	MustBookNumber("???")
}
