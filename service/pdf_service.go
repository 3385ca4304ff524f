package service

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var pagesPattern = regexp.MustCompile(`Pages:\s+(\d+)`)

// Rasterizer turns PDF pages into images.
type Rasterizer interface {
	PageCount(ctx context.Context, pdfPath string) (int, error)
	// RasterizePage renders one 1-based page into dir and returns the image path.
	RasterizePage(ctx context.Context, pdfPath string, page, dpi int, dir string) (string, error)
}

// PDFService rasterizes PDFs with the poppler utilities (pdfinfo, pdftoppm)
type PDFService struct {
	pdfinfoBin  string
	pdftoppmBin string
}

func NewPDFService() *PDFService {
	return &PDFService{
		pdfinfoBin:  "pdfinfo",
		pdftoppmBin: "pdftoppm",
	}
}

// PageCount uses pdfinfo to get the total number of pages in a PDF file
// Parameters:
//   - pdfPath: Path to the PDF file
//
// Returns:
//   - int: Number of pages
//   - error: Error if page count cannot be determined
func (s *PDFService) PageCount(ctx context.Context, pdfPath string) (int, error) {
	cmd := exec.CommandContext(ctx, s.pdfinfoBin, pdfPath)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("error running pdfinfo: %w", err)
	}
	return parsePageCount(&out)
}

func parsePageCount(out *bytes.Buffer) (int, error) {
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		if matches := pagesPattern.FindStringSubmatch(scanner.Text()); len(matches) == 2 {
			return strconv.Atoi(matches[1])
		}
	}
	return 0, fmt.Errorf("unable to determine page count from pdfinfo")
}

// RasterizePage renders a single page to PNG with pdftoppm.
func (s *PDFService) RasterizePage(ctx context.Context, pdfPath string, page, dpi int, dir string) (string, error) {
	prefix := filepath.Join(dir, fmt.Sprintf("page-%d", page))
	convertCmd := exec.CommandContext(ctx, s.pdftoppmBin,
		"-r", strconv.Itoa(dpi),
		"-f", strconv.Itoa(page),
		"-l", strconv.Itoa(page),
		"-png", "-singlefile",
		pdfPath, prefix)
	var stderr bytes.Buffer
	convertCmd.Stderr = &stderr
	if err := convertCmd.Run(); err != nil {
		return "", fmt.Errorf("error converting page %d to image: %w: %s", page, err, strings.TrimSpace(stderr.String()))
	}
	return prefix + ".png", nil
}

// cleanText strips control characters OCR engines tend to emit
func cleanText(text string) string {
	// null, replacement char, escape, carriage return, form feed
	replacements := []struct{ old, new string }{
		{"\u0000", ""},
		{"\ufffd", ""},
		{"\u001b", ""},
		{"\r", ""},
		{"\f", "\n"},
	}
	cleaned := text
	for _, r := range replacements {
		cleaned = strings.ReplaceAll(cleaned, r.old, r.new)
	}
	return strings.TrimSpace(cleaned)
}
