package docs

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeSearcher struct {
	results  map[string][]DocRef
	failTerm string
	contents map[string]string
	reads    []string
}

func (f *fakeSearcher) SearchDocuments(_ context.Context, term string) ([]DocRef, error) {
	if term == f.failTerm {
		return nil, errors.New("drive unavailable")
	}
	return f.results[term], nil
}

func (f *fakeSearcher) ReadDocument(_ context.Context, id string) (string, error) {
	f.reads = append(f.reads, id)
	c, ok := f.contents[id]
	if !ok {
		return "", fmt.Errorf("document %s not readable", id)
	}
	return c, nil
}

func TestSearchTerms(t *testing.T) {
	got := SearchTerms("ABC")
	want := []string{"ABC meeting", "ABC summary", "ABC notes", "meeting notes", "meeting summary"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("term[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindRelatedNotes(t *testing.T) {
	s := &fakeSearcher{
		results: map[string][]DocRef{
			"ABC meeting":   {{ID: "1", Name: "ABC meeting 03/01"}, {ID: "2", Name: "ABC meeting 03/08"}},
			"ABC summary":   {{ID: "2", Name: "ABC meeting 03/08"}},
			"meeting notes": {{ID: "3", Name: "Weekly meeting notes"}, {ID: "4", Name: "Other team"}, {ID: "5", Name: "Locked"}},
		},
		failTerm: "ABC notes",
		contents: map[string]string{
			"1": "Kickoff for abc, owners assigned.",
			"2": "ABC: launch slipped a week.",
			"3": "Discussed ABC and XYZ.",
			"4": "Nothing relevant here.",
		},
	}

	notes, err := NewFinder(s, nil).FindRelatedNotes(context.Background(), "ABC")
	if err != nil {
		t.Fatalf("FindRelatedNotes: %v", err)
	}
	var ids []string
	for _, n := range notes {
		ids = append(ids, n.ID)
	}
	want := []string{"1", "2", "3"}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Errorf("note ids = %v, want %v", ids, want)
	}
	if len(s.reads) != 5 {
		t.Errorf("reads = %v, want each unique doc read once", s.reads)
	}
	if notes[0].Name != "ABC meeting 03/01" {
		t.Errorf("name = %q", notes[0].Name)
	}
}

func TestFindRelatedNotes_LimitsReads(t *testing.T) {
	var refs []DocRef
	contents := map[string]string{}
	for i := range 30 {
		id := fmt.Sprintf("d%02d", i)
		refs = append(refs, DocRef{ID: id})
		contents[id] = "ABC"
	}
	s := &fakeSearcher{results: map[string][]DocRef{"meeting notes": refs}, contents: contents}

	notes, err := NewFinder(s, nil).FindRelatedNotes(context.Background(), "ABC")
	if err != nil {
		t.Fatal(err)
	}
	if len(s.reads) != MaxDocuments || len(notes) != MaxDocuments {
		t.Errorf("reads = %d notes = %d, want %d", len(s.reads), len(notes), MaxDocuments)
	}
}

func TestSearchQuery(t *testing.T) {
	got := SearchQuery("O'Brien notes")
	want := `name contains 'O\'Brien notes' and mimeType='application/vnd.google-apps.document'`
	if got != want {
		t.Errorf("SearchQuery = %q, want %q", got, want)
	}
}
