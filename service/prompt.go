package service

import (
	"strings"
	"text/template"
)

// PromptVersion changes whenever the instruction text below changes.
const PromptVersion = "2"

var DefaultAllowedDependencies = []string{
	"Flask>=2.0.0",
	"gunicorn",
	"google-auth-oauthlib>=0.4.6",
	"google-api-python-client>=2.70.0",
	"google-auth>=2.3.3",
	"Pillow>=9.0.0",
	"pytesseract>=0.3.10",
	"openai",
	"pvrecorder",
	"playsound==1.2.2",
	"IPython",
	"pytz",
	"tzlocal",
	"pdf2image",
	"docx2pdf",
	"python-dotenv",
	"requests>=2.25.0",
	"httplib2>=0.20.0",
	"uritemplate>=3.0.1",
	"oauthlib>=3.1.0",
	"six>=1.15.0",
	"Jinja2>=3.0.0",
	"MarkupSafe>=2.0.0",
	"itsdangerous>=2.0.0",
	"click>=8.0.0",
}

var promptTemplate = template.Must(template.New("prompt").Parse(`
Generate a Python script to add all the calendar event(s) (that you identify in this user input text)
to Google Calendar: {{.Input}}.
Carefully meet all the criteria and follow all the directions below:
Authentication has already been completed. Load the OAuth2 authorized user credentials with
google.oauth2.credentials.Credentials.from_authorized_user_file, reading the file path from the
GOOGLE_OAUTH_TOKEN_FILE environment variable (fall back to "token.json").
Do not start a new OAuth flow and do not use service account credentials.
Use the Google Calendar API and include proper timezone handling by
    1. Setting the Time in Local Timezone: set start_time in the local timezone (local_tz) instead of UTC, for example start_time = datetime.combine(event_date, datetime.min.time(), tzinfo=local_tz)
    2. Avoiding Unnecessary UTC Conversion: by setting the time directly in the local timezone there is no conversion from UTC to local time later.
    3. Sending the local time and timezone to Google Calendar:
    'dateTime': start_local.isoformat(),
    'timeZone': str(local_tz)

Ensure the year and month are correct. If not provided, extract from:
    from datetime import datetime, timezone
    now = datetime.now(timezone.utc).isoformat()
and convert to local time.
Ensure that event titles are human yet professional--short, concise, and descriptive.
Unless otherwise specified, include reminders at 10 minutes, 1 hour, and 1 day before as notifications.
If a Google Meet link is explicitly required and certain, include conferenceData with a createRequest (using a unique requestId and conferenceSolutionKey set as 'hangoutsMeet'), and when calling events.insert or events.update include conferenceDataVersion=1.
After event creation, use Python's webbrowser module to open the event link in the default browser.
At the end, print a summary of how many events were created along with additional details.

IMPORTANT: Only use the following external dependencies when generating the code. Do not include any libraries or modules outside this list (aside from Python's standard library):

{{range .Dependencies}}{{.}}
{{end}}
SYSTEM DEPENDENCIES:
- Tesseract OCR (for pytesseract)
- Poppler (for pdf2image)
- LibreOffice (for docx2pdf, if Microsoft Word is not available)

Do not include code that requires dependencies outside of these.
Return the script in a single fenced python code block.
`))

type promptData struct {
	Input        string
	Dependencies []string
}

// PromptBuilder renders the instruction prompt around the combined input.
type PromptBuilder struct {
	dependencies []string
}

func NewPromptBuilder(dependencies []string) *PromptBuilder {
	if len(dependencies) == 0 {
		dependencies = DefaultAllowedDependencies
	}
	return &PromptBuilder{dependencies: dependencies}
}

func (b *PromptBuilder) Build(combined string) string {
	var sb strings.Builder
	// The template is fixed and its data is plain strings, so Execute cannot fail.
	_ = promptTemplate.Execute(&sb, promptData{Input: combined, Dependencies: b.dependencies})
	return sb.String()
}

// BuildPrompt renders the prompt with the default dependency list.
func BuildPrompt(combined string) string {
	return NewPromptBuilder(nil).Build(combined)
}
