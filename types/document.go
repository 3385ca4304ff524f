package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DocumentKind is the extraction path an upload takes
type DocumentKind string

const (
	DocumentKindImage DocumentKind = "image"
	DocumentKindPDF   DocumentKind = "pdf"
	DocumentKindDOCX  DocumentKind = "docx"
)

// AllowedExtensions maps accepted upload extensions to their extraction path.
var AllowedExtensions = map[string]DocumentKind{
	"png":  DocumentKindImage,
	"jpg":  DocumentKindImage,
	"jpeg": DocumentKindImage,
	"gif":  DocumentKindImage,
	"pdf":  DocumentKindPDF,
	"docx": DocumentKindDOCX,
}

// KindFromFilename infers the document kind from the file extension.
// The boolean is false when the extension is not accepted.
func KindFromFilename(filename string) (DocumentKind, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	kind, ok := AllowedExtensions[ext]
	return kind, ok
}

// UploadedDocument is a request-scoped copy of an uploaded file.
// It is removed from disk right after extraction.
type UploadedDocument struct {
	Path     string       // Location of the stored copy
	Filename string       // Name declared by the client
	Kind     DocumentKind // Extraction path
}

// PageText is the OCR output of a single page
type PageText struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// ExtractedText holds either labelled pages (PDF, DOCX) or a single
// unlabelled blob (image).
type ExtractedText struct {
	Pages []PageText `json:"pages,omitempty"`
	Text  string     `json:"text,omitempty"`
}

// IsEmpty reports whether nothing was extracted
func (e ExtractedText) IsEmpty() bool {
	return len(e.Pages) == 0 && e.Text == ""
}

// PageNumbers returns the page markers in output order.
func (e ExtractedText) PageNumbers() []int {
	numbers := make([]int, 0, len(e.Pages))
	for _, p := range e.Pages {
		numbers = append(numbers, p.Number)
	}
	return numbers
}

// Flatten renders the extracted text the way it is fed to the prompt.
func (e ExtractedText) Flatten() string {
	if len(e.Pages) == 0 {
		return e.Text
	}
	var sb strings.Builder
	for _, p := range e.Pages {
		fmt.Fprintf(&sb, "--- Page %d ---\n%s\n", p.Number, p.Text)
	}
	return sb.String()
}

// CombineInputs joins the user's text and the OCR text with a single space,
// skipping whichever part is empty.
func CombineInputs(userInput, ocrText string) string {
	parts := make([]string, 0, 2)
	if userInput != "" {
		parts = append(parts, userInput)
	}
	if ocrText != "" {
		parts = append(parts, ocrText)
	}
	return strings.Join(parts, " ")
}

// OCRConfig contains configuration options for text extraction
type OCRConfig struct {
	DPI      int    // Rasterization resolution for PDF pages
	Language string // Tesseract language pack(s), e.g. "eng" or "eng+vie"
	TempDir  string // Parent directory for rasterized pages and converted documents
}
