package canon

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	cerrors "github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
)

// refFields is a comparable view of a Ref without the book pointer.
type refFields struct {
	Book         string
	ChapterStart int
	ChapterEnd   int
	VerseStart   int
	VerseEnd     int
	WholeBook    bool
}

func fieldsOf(r *Ref) refFields {
	return refFields{r.Book.Name, r.ChapterStart, r.ChapterEnd, r.VerseStart, r.VerseEnd, r.WholeBook}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		input   string
		want    refFields
		display string
	}{
		{"Mateo", refFields{"Mateo", 1, 28, 0, 0, true}, "Mateo"},
		{"Salmos 23", refFields{"Salmos", 23, 23, 0, 0, false}, "Salmos 23"},
		{"Gn 1-3", refFields{"Génesis", 1, 3, 0, 0, false}, "Génesis 1-3"},
		{"Juan 3:16", refFields{"Juan", 3, 3, 16, 16, false}, "Juan 3:16"},
		{"1 Juan 3:16-18", refFields{"1 Juan", 3, 3, 16, 18, false}, "1 Juan 3:16-18"},
		{"1Jn 4:8", refFields{"1 Juan", 4, 4, 8, 8, false}, "1 Juan 4:8"},
		{"Cantares 2:1-3:4", refFields{"Cantares", 2, 3, 1, 4, false}, "Cantares 2:1-3:4"},
		{"filipenses 4:13", refFields{"Filipenses", 4, 4, 13, 13, false}, "Filipenses 4:13"},
		{"Génesis 0", refFields{"Génesis", 0, 0, 0, 0, false}, "Génesis 0"},
		{"  Ap 22  ", refFields{"Apocalipsis", 22, 22, 0, 0, false}, "Apocalipsis 22"},
		{"Mateo 1–4", refFields{"Mateo", 1, 4, 0, 0, false}, "Mateo 1-4"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := ParseRef(tt.input)
			if err != nil {
				t.Fatalf("ParseRef(%q) error = %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, fieldsOf(ref)); diff != "" {
				t.Errorf("ParseRef(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
			if got := ref.String(); got != tt.display {
				t.Errorf("String() = %q, want %q", got, tt.display)
			}
		})
	}
}

func TestParseRefErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantErr error
	}{
		{"", cerrors.ErrInvalidInput},
		{"3:16", cerrors.ErrInvalidInput},
		{"Juan 3:", cerrors.ErrInvalidInput},
		{"Nephi 1", cerrors.ErrNotFound},
		{"Judas 2", cerrors.ErrInvalidInput},
		{"Gn 3-1", cerrors.ErrInvalidInput},
		{"Juan 3:18-16", cerrors.ErrInvalidInput},
		{"Juan 0:1", cerrors.ErrInvalidInput},
		{"Gn 1-2:3", cerrors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseRef(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseRef(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestRefChapters(t *testing.T) {
	ref, err := ParseRef("Gn 1-3")
	if err != nil {
		t.Fatalf("ParseRef error = %v", err)
	}
	chapters := ref.Chapters()
	if len(chapters) != 3 {
		t.Fatalf("len(Chapters()) = %d, want 3", len(chapters))
	}
	for i, p := range chapters {
		if p.Book != First() || p.Chapter != i+1 {
			t.Errorf("Chapters()[%d] = %s, want Génesis %d", i, p, i+1)
		}
		if !ref.Contains(p) {
			t.Errorf("Contains(%s) = false, want true", p)
		}
	}
	if ref.Contains(Position{Book: First(), Chapter: 4}) {
		t.Error("Contains(Génesis 4) = true, want false")
	}
	if !ref.IsRange() {
		t.Error("IsRange() = false, want true")
	}
	if ref.Start().Chapter != 1 {
		t.Errorf("Start() = %s, want Génesis 1", ref.Start())
	}

	whole, _ := ParseRef("Judas")
	if got := len(whole.Chapters()); got != 1 {
		t.Errorf("len(Judas.Chapters()) = %d, want 1", got)
	}
}

func TestRefJSON(t *testing.T) {
	ref, err := ParseRef("Jn 3:16")
	if err != nil {
		t.Fatalf("ParseRef error = %v", err)
	}
	data, err := json.Marshal(ref)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}
	if decoded["display"] != "Juan 3:16" {
		t.Errorf("display = %v, want Juan 3:16", decoded["display"])
	}
	if decoded["testament"] != "NEW" {
		t.Errorf("testament = %v, want NEW", decoded["testament"])
	}
}
