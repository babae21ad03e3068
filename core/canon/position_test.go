package canon

import (
	"encoding/json"
	"errors"
	"testing"

	cerrors "github.com/FocuswithJustin/MiAlmaBiblia/core/errors"
)

func mustPosition(t *testing.T, book string, chapter int) Position {
	t.Helper()
	p, err := NewPosition(book, chapter)
	if err != nil {
		t.Fatalf("NewPosition(%q, %d) error = %v", book, chapter, err)
	}
	return p
}

func TestNewPositionBounds(t *testing.T) {
	tests := []struct {
		book    string
		chapter int
		wantErr error
	}{
		{"Génesis", 0, nil},
		{"Génesis", 50, nil},
		{"Génesis", 51, cerrors.ErrInvalidInput},
		{"Génesis", -1, cerrors.ErrInvalidInput},
		{"Abdías", 1, nil},
		{"Abdías", 2, cerrors.ErrInvalidInput},
		{"Sirácida", 1, cerrors.ErrNotFound},
	}

	for _, tt := range tests {
		_, err := NewPosition(tt.book, tt.chapter)
		if tt.wantErr == nil && err != nil {
			t.Errorf("NewPosition(%q, %d) error = %v, want nil", tt.book, tt.chapter, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("NewPosition(%q, %d) error = %v, want %v", tt.book, tt.chapter, err, tt.wantErr)
		}
	}
}

func TestStep(t *testing.T) {
	tests := []struct {
		name     string
		book     string
		chapter  int
		dir      Direction
		wantBook string
		wantChap int
	}{
		{"forward within book", "Mateo", 0, Forward, "Mateo", 1},
		{"forward mid book", "Mateo", 5, Forward, "Mateo", 6},
		{"forward across book", "Génesis", 50, Forward, "Éxodo", 0},
		{"forward across testament", "Malaquías", 4, Forward, "Mateo", 0},
		{"forward single chapter book", "Abdías", 1, Forward, "Jonás", 0},
		{"forward terminal", "Apocalipsis", 22, Forward, "Apocalipsis", 22},
		{"backward to introduction", "Génesis", 1, Backward, "Génesis", 0},
		{"backward mid book", "Juan", 3, Backward, "Juan", 2},
		{"backward across book", "Éxodo", 0, Backward, "Génesis", 50},
		{"backward across testament", "Mateo", 0, Backward, "Malaquías", 4},
		{"backward terminal", "Génesis", 0, Backward, "Génesis", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Step(mustPosition(t, tt.book, tt.chapter), tt.dir)
			if got.Book.Name != tt.wantBook || got.Chapter != tt.wantChap {
				t.Errorf("Step(%s %d, %s) = %s, want %s %d", tt.book, tt.chapter, tt.dir, got, tt.wantBook, tt.wantChap)
			}
		})
	}
}

func TestStepIsDeterministic(t *testing.T) {
	p := mustPosition(t, "Hechos", 28)
	first := Step(p, Forward)
	for i := 0; i < 5; i++ {
		if got := Step(p, Forward); got != first {
			t.Fatalf("Step call %d = %s, want %s", i, got, first)
		}
	}
	if p.Book.Name != "Hechos" || p.Chapter != 28 {
		t.Errorf("Step mutated its input: %s", p)
	}
}

func TestStepInvalidPositionUnchanged(t *testing.T) {
	foreign := &BookEntry{Name: "Génesis", ChapterCount: 50, Testament: OldTestament}
	tests := []Position{
		{},
		{Book: foreign, Chapter: 3},
		{Book: First(), Chapter: 99},
	}
	for _, p := range tests {
		if got := Step(p, Forward); got != p {
			t.Errorf("Step(%v, Forward) = %v, want unchanged", p, got)
		}
	}
}

func TestForwardThroughWholeBookCrossesOneBoundary(t *testing.T) {
	for _, b := range Books()[:len(books)-1] {
		p := Start(b)
		crossings := 0
		for i := 0; i < b.ChapterCount+1; i++ {
			next := Step(p, Forward)
			if next.Book != p.Book {
				crossings++
			}
			p = next
		}
		want, _ := NextBook(b.Name)
		if crossings != 1 {
			t.Errorf("%s: crossed %d book boundaries, want 1", b.Name, crossings)
		}
		if p.Book != want || p.Chapter != Introduction {
			t.Errorf("%s: landed on %s, want %s 0", b.Name, p, want.Name)
		}
	}
}

func TestWalkEntireCanon(t *testing.T) {
	total := 0
	for _, b := range Books() {
		total += b.ChapterCount + 1
	}

	end, moved := Walk(Start(First()), Forward, total+10)
	if moved != total-1 {
		t.Errorf("Walk moved %d steps, want %d", moved, total-1)
	}
	if end.Book != Last() || end.Chapter != Last().ChapterCount {
		t.Errorf("Walk ended at %s, want Apocalipsis 22", end)
	}

	back, moved := Walk(end, Backward, total+10)
	if moved != total-1 {
		t.Errorf("Walk back moved %d steps, want %d", moved, total-1)
	}
	if back.Book != First() || back.Chapter != Introduction {
		t.Errorf("Walk back ended at %s, want Génesis 0", back)
	}
}

func TestWalkZeroSteps(t *testing.T) {
	p := mustPosition(t, "Rut", 2)
	got, moved := Walk(p, Forward, 0)
	if got != p || moved != 0 {
		t.Errorf("Walk(p, Forward, 0) = %s, %d; want %s, 0", got, moved, p)
	}
}

func TestStepFrom(t *testing.T) {
	got, err := StepFrom("mt", 0, Forward)
	if err != nil {
		t.Fatalf("StepFrom error = %v", err)
	}
	if got.Book.Name != "Mateo" || got.Chapter != 1 {
		t.Errorf("StepFrom(mt, 0, Forward) = %s, want Mateo 1", got)
	}

	if _, err := StepFrom("Mormón", 1, Forward); !errors.Is(err, cerrors.ErrNotFound) {
		t.Errorf("StepFrom(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestParseDirection(t *testing.T) {
	tests := map[string]Direction{
		"forward":  Forward,
		"Next":     Forward,
		"backward": Backward,
		"prev":     Backward,
		"-1":       Backward,
	}
	for in, want := range tests {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Errorf("ParseDirection(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseDirection("sideways"); !errors.Is(err, cerrors.ErrInvalidInput) {
		t.Errorf("ParseDirection(sideways) error = %v, want ErrInvalidInput", err)
	}
}

func TestKeyRoundTrip(t *testing.T) {
	p := mustPosition(t, "1 Juan", 3)
	key := p.Key(16)
	if key != "1 Juan-3-16" {
		t.Fatalf("Key(16) = %q, want %q", key, "1 Juan-3-16")
	}

	got, verse, err := ParseKey(key)
	if err != nil {
		t.Fatalf("ParseKey(%q) error = %v", key, err)
	}
	if got != p || verse != 16 {
		t.Errorf("ParseKey(%q) = %s, %d; want %s, 16", key, got, verse, p)
	}
}

func TestParseKeyErrors(t *testing.T) {
	for _, key := range []string{"", "Juan", "Juan-3", "Juan-x-1", "Juan-3-0", "Juan-99-1", "Nada-1-1"} {
		if _, _, err := ParseKey(key); err == nil {
			t.Errorf("ParseKey(%q) expected error", key)
		}
	}
}

func TestPositionJSON(t *testing.T) {
	data, err := json.Marshal(mustPosition(t, "Éxodo", 20))
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if got, want := string(data), `{"book":"Éxodo","chapter":20}`; got != want {
		t.Errorf("json = %s, want %s", got, want)
	}
}
