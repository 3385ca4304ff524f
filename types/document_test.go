package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     DocumentKind
		ok       bool
	}{
		{"scan.PNG", DocumentKindImage, true},
		{"photo.jpeg", DocumentKindImage, true},
		{"anim.gif", DocumentKindImage, true},
		{"syllabus.pdf", DocumentKindPDF, true},
		{"agenda.docx", DocumentKindDOCX, true},
		{"agenda.doc", "", false},
		{"notes.txt", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			kind, ok := KindFromFilename(tt.filename)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestExtractedTextFlatten(t *testing.T) {
	text := ExtractedText{Pages: []PageText{
		{Number: 1, Text: "Meeting Monday 9am"},
		{Number: 3, Text: "Exam Friday"},
	}}
	assert.Equal(t, "--- Page 1 ---\nMeeting Monday 9am\n--- Page 3 ---\nExam Friday\n", text.Flatten())
	assert.Equal(t, []int{1, 3}, text.PageNumbers())
	assert.False(t, text.IsEmpty())

	image := ExtractedText{Text: "Dentist 3pm"}
	assert.Equal(t, "Dentist 3pm", image.Flatten())

	assert.True(t, ExtractedText{}.IsEmpty())
	assert.Equal(t, "", ExtractedText{}.Flatten())
}

func TestCombineInputs(t *testing.T) {
	assert.Equal(t, "", CombineInputs("", ""))
	assert.Equal(t, "Lunch with Sam", CombineInputs("Lunch with Sam", ""))
	assert.Equal(t, "--- Page 1 ---\nx\n", CombineInputs("", "--- Page 1 ---\nx\n"))
	assert.Equal(t, "Lunch with Sam Dentist 3pm", CombineInputs("Lunch with Sam", "Dentist 3pm"))
}
