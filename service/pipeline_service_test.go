package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tieubaoca/doc2cal/types"
)

type fakeExtractor struct {
	text  types.ExtractedText
	calls int
	pages types.PageSelection
}

func (f *fakeExtractor) Extract(_ context.Context, _ *types.UploadedDocument, pages types.PageSelection) types.ExtractedText {
	f.calls++
	f.pages = pages
	return f.text
}

type fakeRunner struct {
	scripts []string
	result  types.ExecutionResult
}

func (f *fakeRunner) Run(_ context.Context, script string) types.ExecutionResult {
	f.scripts = append(f.scripts, script)
	return f.result
}

func newTestPipeline(t *testing.T, extractor TextExtractor, runner ScriptRunner, files *FileService) *PipelineService {
	t.Helper()
	return NewPipelineService(extractor, NewPromptBuilder(nil), NewLLMGateway(nil), runner, files, "python", nil)
}

func TestPipelineTextOnly(t *testing.T) {
	ai := &fakeAI{replies: []string{"Sure:\n```python\nprint('Created 1 event')\n```"}}
	stores, _ := newTestStores(t)
	runner := &fakeRunner{result: types.ExecutionResult{Output: "Created 1 event\n"}}
	extractor := &fakeExtractor{}
	p := newTestPipeline(t, extractor, runner, nil)

	result := p.Process(context.Background(), NewConversation(ai, stores, nil), types.ProcessRequest{
		Text: "Lunch with Sam next Tuesday at noon",
	})

	assert.Equal(t, "Lunch with Sam next Tuesday at noon", result.CombinedInput)
	assert.Equal(t, "print('Created 1 event')", result.GeneratedCode)
	assert.Equal(t, "Created 1 event\n", result.Execution.Display())
	assert.Zero(t, extractor.calls)
	require.Len(t, ai.histories, 1)
	prompt := ai.histories[0][1].Content
	assert.Contains(t, prompt, "Lunch with Sam next Tuesday at noon")
}

func TestPipelineWithDocumentRemovesUpload(t *testing.T) {
	files, err := NewFileService(t.TempDir(), 10, nil)
	require.NoError(t, err)
	path := filepath.Join(files.uploadDir, "syllabus.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o644))

	extractor := &fakeExtractor{text: types.ExtractedText{Pages: []types.PageText{
		{Number: 1, Text: "Midterm Oct 3"},
		{Number: 3, Text: "Final Dec 12"},
	}}}
	ai := &fakeAI{replies: []string{"```python\nprint(2)\n```"}}
	stores, _ := newTestStores(t)
	p := newTestPipeline(t, extractor, &fakeRunner{}, files)

	result := p.Process(context.Background(), NewConversation(ai, stores, nil), types.ProcessRequest{
		Text:     "Add my exams",
		Pages:    types.PageSelection{3, 1},
		Document: &types.UploadedDocument{Path: path, Kind: types.DocumentKindPDF},
	})

	assert.Equal(t, "Add my exams --- Page 1 ---\nMidterm Oct 3\n--- Page 3 ---\nFinal Dec 12\n", result.CombinedInput)
	assert.Equal(t, types.PageSelection{3, 1}, extractor.pages)
	assert.NoFileExists(t, path)
}

func TestPipelineNoCodeSkipsExecution(t *testing.T) {
	ai := &fakeAI{replies: []string{"I could not find any events."}}
	stores, _ := newTestStores(t)
	runner := &fakeRunner{}
	p := newTestPipeline(t, &fakeExtractor{}, runner, nil)

	result := p.Process(context.Background(), NewConversation(ai, stores, nil), types.ProcessRequest{Text: "hi"})
	assert.Equal(t, "hi", result.CombinedInput)
	assert.Equal(t, "", result.GeneratedCode)
	assert.Equal(t, "", result.Execution.Display())
	assert.Empty(t, runner.scripts)
}

func TestPipelineLLMFailureDegrades(t *testing.T) {
	ai := &fakeAI{err: context.DeadlineExceeded}
	stores, _ := newTestStores(t)
	runner := &fakeRunner{}
	p := newTestPipeline(t, &fakeExtractor{}, runner, nil)

	result := p.Process(context.Background(), NewConversation(ai, stores, nil), types.ProcessRequest{Text: "hi"})
	assert.Equal(t, "hi", result.CombinedInput)
	assert.Empty(t, result.GeneratedCode)
	assert.Empty(t, runner.scripts)
}

func TestPipelineExecutionFaultIsVisible(t *testing.T) {
	ai := &fakeAI{replies: []string{"```python\nraise ValueError('bad')\n```"}}
	stores, _ := newTestStores(t)
	runner := &fakeRunner{result: types.ExecutionResult{Fault: "ValueError: bad"}}
	p := newTestPipeline(t, &fakeExtractor{}, runner, nil)

	result := p.Process(context.Background(), NewConversation(ai, stores, nil), types.ProcessRequest{Text: "x"})
	assert.True(t, strings.HasPrefix(result.Execution.Display(), "Execution Error: "))
	assert.Contains(t, result.Execution.Display(), "ValueError: bad")
}

func TestPipelineEmptyInput(t *testing.T) {
	ai := &fakeAI{replies: []string{"Nothing to add."}}
	stores, _ := newTestStores(t)
	p := newTestPipeline(t, &fakeExtractor{}, &fakeRunner{}, nil)

	result := p.Process(context.Background(), NewConversation(ai, stores, nil), types.ProcessRequest{})
	assert.Equal(t, types.ProcessResult{}, result)
	require.Len(t, ai.histories, 1, "the model is still asked")
}
