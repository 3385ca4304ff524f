package service

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"go.uber.org/zap"

	"github.com/tieubaoca/doc2cal/types"
)

// Extractor turns an uploaded document into text. It never fails: any error is
// logged and yields empty text so the user's own text still reaches the model.
type Extractor struct {
	rasterizer Rasterizer
	recognizer TextRecognizer
	converter  DocxConverter
	cfg        types.OCRConfig
	logger     *zap.Logger
}

func NewExtractor(rasterizer Rasterizer, recognizer TextRecognizer, converter DocxConverter, cfg types.OCRConfig, logger *zap.Logger) *Extractor {
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		rasterizer: rasterizer,
		recognizer: recognizer,
		converter:  converter,
		cfg:        cfg,
		logger:     logger.With(zap.String("module", "extractor")),
	}
}

func (e *Extractor) Extract(ctx context.Context, doc *types.UploadedDocument, pages types.PageSelection) types.ExtractedText {
	if doc == nil {
		return types.ExtractedText{}
	}
	var (
		text types.ExtractedText
		err  error
	)
	switch doc.Kind {
	case types.DocumentKindImage:
		text, err = e.extractImage(ctx, doc.Path)
	case types.DocumentKindPDF:
		text, err = e.extractPDF(ctx, doc.Path, pages)
	case types.DocumentKindDOCX:
		text, err = e.extractDOCX(ctx, doc.Path, pages)
	default:
		err = fmt.Errorf("unsupported document kind %q", doc.Kind)
	}
	if err != nil {
		e.logger.Warn("Error during OCR", zap.String("file", doc.Filename), zap.Error(err))
		return types.ExtractedText{}
	}
	return text
}

func (e *Extractor) extractImage(ctx context.Context, path string) (types.ExtractedText, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.ExtractedText{}, err
	}
	_, format, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return types.ExtractedText{}, fmt.Errorf("decode image: %w", err)
	}
	e.logger.Debug("Recognizing image", zap.String("format", format))

	text, err := e.recognizer.RecognizeText(ctx, path)
	if err != nil {
		return types.ExtractedText{}, err
	}
	return types.ExtractedText{Text: text}, nil
}

func (e *Extractor) extractPDF(ctx context.Context, pdfPath string, selection types.PageSelection) (types.ExtractedText, error) {
	totalPages, err := e.rasterizer.PageCount(ctx, pdfPath)
	if err != nil {
		return types.ExtractedText{}, err
	}
	pages := selection.Filter(totalPages)
	e.logger.Info("Processing PDF", zap.Int("total_pages", totalPages), zap.Ints("pages", pages))

	workDir, err := e.tempDir("pages-*")
	if err != nil {
		return types.ExtractedText{}, err
	}
	defer os.RemoveAll(workDir)

	result := types.ExtractedText{Pages: make([]types.PageText, 0, len(pages))}
	for _, page := range pages {
		imagePath, err := e.rasterizer.RasterizePage(ctx, pdfPath, page, e.cfg.DPI, workDir)
		if err != nil {
			e.logger.Warn("Failed to rasterize page", zap.Int("page", page), zap.Error(err))
			continue
		}
		pageText, err := e.recognizer.RecognizeText(ctx, imagePath)
		os.Remove(imagePath)
		if err != nil {
			e.logger.Warn("Failed to recognize page", zap.Int("page", page), zap.Error(err))
			continue
		}
		result.Pages = append(result.Pages, types.PageText{Number: page, Text: pageText})
	}
	return result, nil
}

func (e *Extractor) extractDOCX(ctx context.Context, docxPath string, selection types.PageSelection) (types.ExtractedText, error) {
	outDir, err := e.tempDir("docx-*")
	if err != nil {
		return types.ExtractedText{}, err
	}
	// The intermediate PDF lives in outDir and goes away with it.
	defer os.RemoveAll(outDir)

	pdfPath, err := e.converter.ConvertToPDF(ctx, docxPath, outDir)
	if err != nil {
		return types.ExtractedText{}, err
	}
	return e.extractPDF(ctx, pdfPath, selection)
}

func (e *Extractor) tempDir(pattern string) (string, error) {
	if e.cfg.TempDir != "" {
		if err := os.MkdirAll(e.cfg.TempDir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create temp directory: %w", err)
		}
	}
	dir, err := os.MkdirTemp(e.cfg.TempDir, pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	return dir, nil
}
