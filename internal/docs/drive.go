package docs

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	gdocs "google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DocumentMimeType is the Drive MIME type of native Google Docs.
const DocumentMimeType = "application/vnd.google-apps.document"

const searchFields = "files(id, name, mimeType, createdTime, modifiedTime)"

// DriveReader implements Searcher on the Drive and Docs APIs.
type DriveReader struct {
	drive *drive.Service
	docs  *gdocs.Service
}

// NewDriveReader builds both services on an authorized HTTP client.
// Extra options (such as option.WithEndpoint) apply to both services.
func NewDriveReader(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*DriveReader, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	docsSvc, err := gdocs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create docs service: %w", err)
	}
	return &DriveReader{drive: driveSvc, docs: docsSvc}, nil
}

// SearchQuery builds the Drive query for documents whose name contains term.
func SearchQuery(term string) string {
	escaped := strings.ReplaceAll(term, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return fmt.Sprintf("name contains '%s' and mimeType='%s'", escaped, DocumentMimeType)
}

func (r *DriveReader) SearchDocuments(ctx context.Context, term string) ([]DocRef, error) {
	list, err := r.drive.Files.List().
		Q(SearchQuery(term)).
		PageSize(50).
		Fields(searchFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search documents %q: %w", term, err)
	}
	refs := make([]DocRef, 0, len(list.Files))
	for _, f := range list.Files {
		refs = append(refs, DocRef{
			ID:           f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			CreatedTime:  f.CreatedTime,
			ModifiedTime: f.ModifiedTime,
		})
	}
	return refs, nil
}

func (r *DriveReader) ReadDocument(ctx context.Context, id string) (string, error) {
	doc, err := r.docs.Documents.Get(id).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read document %s: %w", id, err)
	}
	return DocumentText(doc), nil
}

// DocumentText concatenates the text runs of a document, descending into
// table cells.
func DocumentText(doc *gdocs.Document) string {
	if doc == nil || doc.Body == nil {
		return ""
	}
	var sb strings.Builder
	writeElements(&sb, doc.Body.Content)
	return sb.String()
}

func writeElements(sb *strings.Builder, elems []*gdocs.StructuralElement) {
	for _, el := range elems {
		switch {
		case el.Paragraph != nil:
			for _, pe := range el.Paragraph.Elements {
				if pe.TextRun != nil {
					sb.WriteString(pe.TextRun.Content)
				}
			}
		case el.Table != nil:
			for _, row := range el.Table.TableRows {
				for _, cell := range row.TableCells {
					writeElements(sb, cell.Content)
				}
			}
		}
	}
}
