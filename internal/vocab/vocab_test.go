package vocab_test

import (
	"testing"

	"github.com/MrWong99/orthograph/internal/vocab"
)

func TestNewList_DedupAndLowercase(t *testing.T) {
	t.Parallel()

	l := vocab.NewList([]string{"School", "school", "  ", "Enough", "SCHOOL"})

	if got, want := l.Len(), 2; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	words := l.Words()
	if len(words) != 2 || words[0] != "school" || words[1] != "enough" {
		t.Errorf("Words() = %v, want [school enough]", words)
	}
}

func TestList_Learn(t *testing.T) {
	t.Parallel()

	l := vocab.NewList(nil)

	if !l.Learn("Because") {
		t.Error("Learn(Because) = false, want true on first add")
	}
	if l.Learn("because") {
		t.Error("Learn(because) = true, want false on duplicate")
	}
	if l.Learn("  ") {
		t.Error("Learn of blank word = true, want false")
	}
	if got, want := l.Len(), 1; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
}

func TestList_ContainsIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	l := vocab.NewList([]string{"hungry"})

	for _, w := range []string{"hungry", "Hungry", "HUNGRY"} {
		if !l.Contains(w) {
			t.Errorf("Contains(%q) = false, want true", w)
		}
	}
	if l.Contains("hungrey") {
		t.Error("Contains(hungrey) = true, want false")
	}
}

func TestList_WordsReturnsCopy(t *testing.T) {
	t.Parallel()

	l := vocab.NewList([]string{"food", "fed"})

	words := l.Words()
	words[0] = "mutated"

	if got := l.Words()[0]; got != "food" {
		t.Errorf("Words()[0] after caller mutation = %q, want food", got)
	}
}

func TestAlwaysValid(t *testing.T) {
	t.Parallel()

	av := vocab.NewAlwaysValid([]string{"I", "the", "  ", "don't"})

	if got, want := av.Len(), 3; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
	for _, w := range []string{"i", "The", "DON'T"} {
		if !av.Contains(w) {
			t.Errorf("Contains(%q) = false, want true", w)
		}
	}
	if av.Contains("school") {
		t.Error("Contains(school) = true, want false")
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	list := vocab.DefaultList()
	if list.Len() == 0 {
		t.Error("DefaultList() is empty")
	}
	if !list.Contains("school") {
		t.Error("DefaultList() does not contain school")
	}

	av := vocab.DefaultAlwaysValid()
	if av.Len() == 0 {
		t.Error("DefaultAlwaysValid() is empty")
	}
	for _, w := range []string{"i", "the", "i'm"} {
		if !av.Contains(w) {
			t.Errorf("DefaultAlwaysValid() missing %q", w)
		}
	}
}
