package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/tieubaoca/doc2cal/types"
)

type TextExtractor interface {
	Extract(ctx context.Context, doc *types.UploadedDocument, pages types.PageSelection) types.ExtractedText
}

type ScriptRunner interface {
	Run(ctx context.Context, script string) types.ExecutionResult
}

// PipelineService runs one document-to-calendar request end to end.
type PipelineService struct {
	extractor TextExtractor
	prompts   *PromptBuilder
	gateway   *LLMGateway
	executor  ScriptRunner
	files     *FileService
	codeLang  string
	logger    *zap.Logger
}

func NewPipelineService(
	extractor TextExtractor,
	prompts *PromptBuilder,
	gateway *LLMGateway,
	executor ScriptRunner,
	files *FileService,
	codeLang string,
	logger *zap.Logger,
) *PipelineService {
	if codeLang == "" {
		codeLang = "python"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PipelineService{
		extractor: extractor,
		prompts:   prompts,
		gateway:   gateway,
		executor:  executor,
		files:     files,
		codeLang:  codeLang,
		logger:    logger.With(zap.String("module", "pipeline")),
	}
}

// Process never fails: each stage degrades to empty output and the result
// always carries all three fields. The uploaded document is removed before
// returning.
func (p *PipelineService) Process(ctx context.Context, conv *Conversation, req types.ProcessRequest) types.ProcessResult {
	var ocr types.ExtractedText
	if req.Document != nil {
		ocr = p.extract(ctx, req.Document, req.Pages)
	}

	result := types.ProcessResult{
		CombinedInput: types.CombineInputs(req.Text, ocr.Flatten()),
	}
	p.logger.Info("Combined input", zap.Int("length", len(result.CombinedInput)))

	response, ok := p.gateway.Ask(ctx, conv, p.prompts.Build(result.CombinedInput), req.Persist)
	if !ok {
		return result
	}
	result.GeneratedCode = ExtractCode(response, p.codeLang)
	if result.GeneratedCode == "" {
		p.logger.Warn("No code block in response")
		return result
	}
	result.Execution = p.executor.Run(ctx, result.GeneratedCode)
	return result
}

func (p *PipelineService) extract(ctx context.Context, doc *types.UploadedDocument, pages types.PageSelection) types.ExtractedText {
	if p.files != nil {
		defer p.files.Remove(doc)
	}
	return p.extractor.Extract(ctx, doc, pages)
}
