package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ExecutionResult is what running a generated script produced.
// Output keeps whatever was printed before a fault.
type ExecutionResult struct {
	Output string `json:"output"`
	Fault  string `json:"fault,omitempty"`
}

// Failed reports whether the script raised a fault
func (r ExecutionResult) Failed() bool {
	return r.Fault != ""
}

// Display is the text shown to the user for this execution.
func (r ExecutionResult) Display() string {
	if r.Failed() {
		return "Execution Error: " + r.Fault
	}
	return r.Output
}

// ProcessRequest is one run of the document-to-calendar pipeline.
type ProcessRequest struct {
	Text     string
	Pages    PageSelection
	Document *UploadedDocument // nil when nothing was uploaded
	Persist  bool
}

// ProcessResult is always fully populated, even when every field is empty.
type ProcessResult struct {
	CombinedInput string          `json:"combined_input"`
	GeneratedCode string          `json:"generated_code"`
	Execution     ExecutionResult `json:"execution"`
}

type CalendarStatusResponse struct {
	Authenticated bool          `json:"authenticated"`
	Calendar      *CalendarInfo `json:"calendar,omitempty"`
}
