// Package chunker splits document text into paragraph-aligned pieces. It
// is used to cut meeting notes down to excerpts without breaking words.
package chunker

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultTargetSize = 400
	DefaultMaxSize    = 500
)

// Options configures chunking behavior. Sizes are in bytes.
type Options struct {
	TargetSize int
	MaxSize    int
}

// DefaultOptions returns default chunking options.
func DefaultOptions() Options {
	return Options{
		TargetSize: DefaultTargetSize,
		MaxSize:    DefaultMaxSize,
	}
}

// Chunk is a piece of text and the paragraph range it came from.
type Chunk struct {
	Text           string
	FirstParagraph int
	LastParagraph  int
}

// Split breaks text into chunks no longer than opts.MaxSize. Paragraphs are
// packed together while the result stays within TargetSize; a paragraph
// longer than MaxSize is cut on word boundaries.
func Split(text string, opts Options) []Chunk {
	if opts.MaxSize <= 0 {
		opts = DefaultOptions()
	}
	if opts.TargetSize <= 0 || opts.TargetSize > opts.MaxSize {
		opts.TargetSize = opts.MaxSize
	}

	paras := paragraphs(text)
	if len(paras) == 0 {
		return nil
	}

	var chunks []Chunk
	var cur []string
	first := 0
	size := 0

	flush := func(last int) {
		if len(cur) == 0 {
			return
		}
		chunks = append(chunks, Chunk{Text: strings.Join(cur, "\n\n"), FirstParagraph: first, LastParagraph: last})
		cur = nil
		size = 0
	}

	for i, p := range paras {
		if len(p) > opts.MaxSize {
			flush(i - 1)
			for _, piece := range splitWords(p, opts.MaxSize) {
				chunks = append(chunks, Chunk{Text: piece, FirstParagraph: i, LastParagraph: i})
			}
			first = i + 1
			continue
		}
		added := len(p)
		if len(cur) > 0 {
			added += 2
		}
		if len(cur) > 0 && size+added > opts.TargetSize {
			flush(i - 1)
			added = len(p)
		}
		if len(cur) == 0 {
			first = i
		}
		cur = append(cur, p)
		size += added
	}
	flush(len(paras) - 1)

	return chunks
}

// Excerpt returns the first chunk of text within maxSize bytes and whether
// anything was cut off. Text that already fits is returned trimmed.
func Excerpt(text string, maxSize int) (string, bool) {
	text = strings.TrimSpace(text)
	if len(text) <= maxSize {
		return text, false
	}
	chunks := Split(text, Options{TargetSize: maxSize, MaxSize: maxSize})
	if len(chunks) == 0 {
		return "", false
	}
	return chunks[0].Text, true
}

// paragraphs splits on blank lines and heading lines, dropping empty ones.
// Single newlines inside a paragraph are kept.
func paragraphs(text string) []string {
	var out []string
	var cur []string
	flush := func() {
		if p := strings.TrimSpace(strings.Join(cur, "\n")); p != "" {
			out = append(out, p)
		}
		cur = nil
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			flush()
		}
		cur = append(cur, line)
	}
	flush()
	return out
}

// splitWords cuts s into pieces of at most max bytes, preferring whitespace
// boundaries and never splitting a UTF-8 sequence.
func splitWords(s string, max int) []string {
	var out []string
	for len(s) > max {
		cut := strings.LastIndexAny(s[:max+1], " \t\n")
		if cut <= 0 {
			cut = max
			for cut > 0 && !utf8.RuneStart(s[cut]) {
				cut--
			}
			if cut == 0 {
				cut = max
			}
		}
		if piece := strings.TrimSpace(s[:cut]); piece != "" {
			out = append(out, piece)
		}
		s = strings.TrimSpace(s[cut:])
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
