package model

// AttachmentVariant selects which fields of an Attachment are meaningful.
type AttachmentVariant string

const (
	AttachmentLink AttachmentVariant = "link" // title, url, note, imageUrl
	AttachmentRich AttachmentVariant = "rich" // title, explanation, exampleCode, expectedOutput, imageUrl
)

// Attachment is an admin-managed resource hung off a project, activity or
// track module. Attachments live in scopes such as "project_1" or
// "track_cyber_module_3".
type Attachment struct {
	ID             int               `json:"id"`
	Variant        AttachmentVariant `json:"variant"`
	Title          string            `json:"title"`
	URL            string            `json:"url,omitempty"`
	Note           string            `json:"note,omitempty"`
	Explanation    string            `json:"explanation,omitempty"`
	ExampleCode    string            `json:"exampleCode,omitempty"`
	ExpectedOutput string            `json:"expectedOutput,omitempty"`
	ImageURL       string            `json:"imageUrl,omitempty"`
}

func (a Attachment) EntityID() int { return a.ID }
func (a Attachment) WithID(id int) Attachment {
	a.ID = id
	return a
}

type AttachmentPatch struct {
	Title          *string `json:"title"`
	URL            *string `json:"url"`
	Note           *string `json:"note"`
	Explanation    *string `json:"explanation"`
	ExampleCode    *string `json:"exampleCode"`
	ExpectedOutput *string `json:"expectedOutput"`
	ImageURL       *string `json:"imageUrl"`
}

// Apply updates the fields; the variant is fixed at creation.
func (p AttachmentPatch) Apply(a Attachment) Attachment {
	set(&a.Title, p.Title)
	set(&a.URL, p.URL)
	set(&a.Note, p.Note)
	set(&a.Explanation, p.Explanation)
	set(&a.ExampleCode, p.ExampleCode)
	set(&a.ExpectedOutput, p.ExpectedOutput)
	set(&a.ImageURL, p.ImageURL)
	return a
}
