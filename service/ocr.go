package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// TextRecognizer runs OCR over an image file.
type TextRecognizer interface {
	RecognizeText(ctx context.Context, imagePath string) (string, error)
}

// DocxConverter renders a DOCX document to PDF.
type DocxConverter interface {
	// ConvertToPDF writes the PDF into outDir and returns its path.
	ConvertToPDF(ctx context.Context, docxPath, outDir string) (string, error)
}

// TesseractService wraps the tesseract CLI
type TesseractService struct {
	bin      string
	language string
}

func NewTesseractService(language string) *TesseractService {
	if language == "" {
		language = "eng"
	}
	return &TesseractService{bin: "tesseract", language: language}
}

func (s *TesseractService) RecognizeText(ctx context.Context, imagePath string) (string, error) {
	ocrCmd := exec.CommandContext(ctx, s.bin,
		imagePath,
		"stdout",
		"-l", s.language,
		"--oem", "3", // LSTM engine
		"--psm", "3", // Auto page segmentation
	)
	var ocrOut, stderr bytes.Buffer
	ocrCmd.Stdout = &ocrOut
	ocrCmd.Stderr = &stderr
	if err := ocrCmd.Run(); err != nil {
		return "", fmt.Errorf("failed to run tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return cleanText(ocrOut.String()), nil
}

// LibreOfficeConverter converts DOCX to PDF with a headless soffice.
type LibreOfficeConverter struct {
	bin string
}

func NewLibreOfficeConverter() *LibreOfficeConverter {
	return &LibreOfficeConverter{bin: "soffice"}
}

func (c *LibreOfficeConverter) ConvertToPDF(ctx context.Context, docxPath, outDir string) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", outDir,
		docxPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error during DOCX conversion: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	base := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	pdfPath := filepath.Join(outDir, base+".pdf")
	if _, err := os.Stat(pdfPath); err != nil {
		return "", fmt.Errorf("converted PDF not found: %w", err)
	}
	return pdfPath, nil
}
