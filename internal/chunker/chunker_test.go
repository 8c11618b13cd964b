package chunker

import (
	"strings"
	"testing"
)

func TestSplit_EmptyInput(t *testing.T) {
	if got := Split("  \n\n ", DefaultOptions()); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestSplit_ShortContent(t *testing.T) {
	text := "Standup: shipped login."
	got := Split(text, DefaultOptions())
	if len(got) != 1 || got[0].Text != text {
		t.Fatalf("expected single chunk %q, got %v", text, got)
	}
}

func TestSplit_PacksParagraphs(t *testing.T) {
	para := strings.Repeat("word ", 30) // 150 bytes
	text := strings.Join([]string{para, para, para, para}, "\n\n")

	got := Split(text, Options{TargetSize: 320, MaxSize: 400})
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(got))
	}
	if got[0].FirstParagraph != 0 || got[0].LastParagraph != 1 {
		t.Errorf("unexpected first range %d-%d", got[0].FirstParagraph, got[0].LastParagraph)
	}
	if got[1].FirstParagraph != 2 || got[1].LastParagraph != 3 {
		t.Errorf("unexpected second range %d-%d", got[1].FirstParagraph, got[1].LastParagraph)
	}
}

func TestSplit_SplitsOnHeadings(t *testing.T) {
	text := "# Agenda\nitem\n# Decisions\nship it"
	got := Split(text, Options{TargetSize: 10, MaxSize: 50})
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(got), got)
	}
	if !strings.HasPrefix(got[1].Text, "# Decisions") {
		t.Errorf("second chunk should start at heading, got %q", got[1].Text)
	}
}

func TestSplit_RespectsMaxSize(t *testing.T) {
	long := strings.Repeat("verylongword ", 100)
	for _, c := range Split(long, Options{TargetSize: 100, MaxSize: 120}) {
		if len(c.Text) > 120 {
			t.Errorf("chunk exceeds max size: %d", len(c.Text))
		}
		if strings.HasPrefix(c.Text, "ylongword") {
			t.Errorf("chunk split mid-word: %q", c.Text)
		}
	}
}

func TestSplit_NoWhitespaceKeepsRunes(t *testing.T) {
	text := strings.Repeat("é", 100) // 200 bytes, no spaces
	for _, c := range Split(text, Options{MaxSize: 51}) {
		if !strings.HasPrefix(c.Text, "é") || len(c.Text) > 51 {
			t.Errorf("bad chunk %q", c.Text)
		}
	}
}

func TestExcerpt(t *testing.T) {
	short := "Decided to move launch to Q3."
	got, cut := Excerpt(short, 500)
	if got != short || cut {
		t.Errorf("short text should pass through, got %q cut=%v", got, cut)
	}

	long := strings.Repeat("Discussed ABC rollout risks. ", 40)
	got, cut = Excerpt(long, 500)
	if !cut {
		t.Error("expected long text to be cut")
	}
	if len(got) > 500 || len(got) == 0 {
		t.Errorf("excerpt length %d out of range", len(got))
	}
	if !strings.HasPrefix(long, got) {
		t.Error("excerpt should be a prefix of the source")
	}
}
