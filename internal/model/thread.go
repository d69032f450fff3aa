package model

// Authored is a thread item that carries a denormalized copy of its
// author. The copy is taken at post time and never refreshed.
type Authored[T any] interface {
	ItemID() string
	AuthorEmail() string
	Stamp(id, author, email string, ts int64) T
}

// Submission is a learner's write-up posted to a board.
type Submission struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes"`
	Work      string     `json:"work"`
	Result    string     `json:"result"`
	Author    string     `json:"author"`
	Email     string     `json:"email"`
	TS        int64      `json:"ts"` // unix millis at creation
	Responses []Response `json:"responses"`
}

func (s Submission) ItemID() string      { return s.ID }
func (s Submission) AuthorEmail() string { return s.Email }

func (s Submission) Stamp(id, author, email string, ts int64) Submission {
	s.ID, s.Author, s.Email, s.TS = id, author, email, ts
	return s
}

type SubmissionPatch struct {
	Title  *string `json:"title"`
	Notes  *string `json:"notes"`
	Work   *string `json:"work"`
	Result *string `json:"result"`
}

func (p SubmissionPatch) Apply(s Submission) Submission {
	set(&s.Title, p.Title)
	set(&s.Notes, p.Notes)
	set(&s.Work, p.Work)
	set(&s.Result, p.Result)
	return s
}

// Response is a reply nested under a submission.
type Response struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Email  string `json:"email"`
	TS     int64  `json:"ts"`
}

func (r Response) ItemID() string      { return r.ID }
func (r Response) AuthorEmail() string { return r.Email }

func (r Response) Stamp(id, author, email string, ts int64) Response {
	r.ID, r.Author, r.Email, r.TS = id, author, email, ts
	return r
}

// Message is a chat entry in a resource's Q&A thread. Same shape and
// rules as Response.
type Message struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Email  string `json:"email"`
	TS     int64  `json:"ts"`
}

func (m Message) ItemID() string      { return m.ID }
func (m Message) AuthorEmail() string { return m.Email }

func (m Message) Stamp(id, author, email string, ts int64) Message {
	m.ID, m.Author, m.Email, m.TS = id, author, email, ts
	return m
}

type ResponsePatch struct {
	Text *string `json:"text"`
}

func (p ResponsePatch) Apply(r Response) Response {
	set(&r.Text, p.Text)
	return r
}

type MessagePatch struct {
	Text *string `json:"text"`
}

func (p MessagePatch) Apply(m Message) Message {
	set(&m.Text, p.Text)
	return m
}
