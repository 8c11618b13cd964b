// Package docs finds meeting notes related to a project in Google Drive.
package docs

import (
	"context"
	"strings"

	"github.com/rcliao/helios/internal/logging"
	"github.com/rcliao/helios/internal/model"
)

// MaxDocuments bounds how many candidate documents are read per lookup.
const MaxDocuments = 20

// DocRef identifies a document returned by a search.
type DocRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mime_type,omitempty"`
	CreatedTime  string `json:"created_time,omitempty"`
	ModifiedTime string `json:"modified_time,omitempty"`
}

// Searcher lists and reads documents.
type Searcher interface {
	SearchDocuments(ctx context.Context, term string) ([]DocRef, error)
	ReadDocument(ctx context.Context, id string) (string, error)
}

// Finder looks up meeting notes mentioning a project.
type Finder struct {
	searcher Searcher
	log      *logging.Logger
}

// NewFinder wraps a Searcher. A nil logger discards output.
func NewFinder(s Searcher, log *logging.Logger) *Finder {
	if log == nil {
		log = logging.Discard()
	}
	return &Finder{searcher: s, log: log}
}

// SearchTerms returns the queries issued for projectKey, in order.
func SearchTerms(projectKey string) []string {
	return []string{
		projectKey + " meeting",
		projectKey + " summary",
		projectKey + " notes",
		"meeting notes",
		"meeting summary",
	}
}

// FindRelatedNotes returns documents whose content mentions projectKey.
// Failing searches and unreadable documents are skipped.
func (f *Finder) FindRelatedNotes(ctx context.Context, projectKey string) ([]model.MeetingNote, error) {
	var refs []DocRef
	seen := make(map[string]bool)
	for _, term := range SearchTerms(projectKey) {
		found, err := f.searcher.SearchDocuments(ctx, term)
		if err != nil {
			f.log.Debug("document search failed", "term", term, "err", err)
			continue
		}
		for _, d := range found {
			if d.ID == "" || seen[d.ID] {
				continue
			}
			seen[d.ID] = true
			refs = append(refs, d)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(refs) > MaxDocuments {
		refs = refs[:MaxDocuments]
	}

	needle := strings.ToLower(projectKey)
	var notes []model.MeetingNote
	for _, d := range refs {
		content, err := f.searcher.ReadDocument(ctx, d.ID)
		if err != nil {
			f.log.Debug("document read failed", "id", d.ID, "err", err)
			continue
		}
		if !strings.Contains(strings.ToLower(content), needle) {
			continue
		}
		notes = append(notes, model.MeetingNote{
			ID:           d.ID,
			Name:         d.Name,
			Content:      content,
			ModifiedTime: d.ModifiedTime,
		})
	}
	return notes, nil
}
