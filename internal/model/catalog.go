package model

// Track is a curriculum track (Java, Frontend, Cybersecurity).
type Track struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"` // Java | Frontend | Cybersecurity
	Path        string `json:"path"` // page path, e.g. /tracks/java
}

func (t Track) EntityID() int { return t.ID }
func (t Track) WithID(id int) Track {
	t.ID = id
	return t
}

type TrackPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Path        *string `json:"path"`
}

func (p TrackPatch) Apply(t Track) Track {
	set(&t.Title, p.Title)
	set(&t.Description, p.Description)
	set(&t.Type, p.Type)
	set(&t.Path, p.Path)
	return t
}

// Module is one lesson inside a track.
type Module struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level"` // Beginner | Intermediate | Advanced
	Completed   bool   `json:"completed"`
}

func (m Module) EntityID() int { return m.ID }
func (m Module) WithID(id int) Module {
	m.ID = id
	return m
}

type ModulePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Level       *string `json:"level"`
	Completed   *bool   `json:"completed"`
}

func (p ModulePatch) Apply(m Module) Module {
	set(&m.Title, p.Title)
	set(&m.Description, p.Description)
	set(&m.Level, p.Level)
	set(&m.Completed, p.Completed)
	return m
}

// Resource is a learning resource, usually a video link.
type Resource struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Track       string `json:"track"`
	Provider    string `json:"provider"`
	URL         string `json:"url"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

func (r Resource) EntityID() int { return r.ID }
func (r Resource) WithID(id int) Resource {
	r.ID = id
	return r
}

type ResourcePatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Track       *string `json:"track"`
	Provider    *string `json:"provider"`
	URL         *string `json:"url"`
	ImageURL    *string `json:"imageUrl"`
}

func (p ResourcePatch) Apply(r Resource) Resource {
	set(&r.Title, p.Title)
	set(&r.Description, p.Description)
	set(&r.Track, p.Track)
	set(&r.Provider, p.Provider)
	set(&r.URL, p.URL)
	set(&r.ImageURL, p.ImageURL)
	return r
}

// Project is a hands-on project brief.
type Project struct {
	ID                 int    `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Track              string `json:"track"`
	Difficulty         string `json:"difficulty"` // Beginner | Intermediate | Advanced
	Duration           string `json:"duration"`
	Objectives         string `json:"objectives,omitempty"`
	Instructions       string `json:"instructions,omitempty"`
	Deliverables       string `json:"deliverables,omitempty"`
	EvaluationCriteria string `json:"evaluationCriteria,omitempty"`
}

func (p Project) EntityID() int { return p.ID }
func (p Project) WithID(id int) Project {
	p.ID = id
	return p
}

type ProjectPatch struct {
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	Track              *string `json:"track"`
	Difficulty         *string `json:"difficulty"`
	Duration           *string `json:"duration"`
	Objectives         *string `json:"objectives"`
	Instructions       *string `json:"instructions"`
	Deliverables       *string `json:"deliverables"`
	EvaluationCriteria *string `json:"evaluationCriteria"`
}

func (p ProjectPatch) Apply(pr Project) Project {
	set(&pr.Title, p.Title)
	set(&pr.Description, p.Description)
	set(&pr.Track, p.Track)
	set(&pr.Difficulty, p.Difficulty)
	set(&pr.Duration, p.Duration)
	set(&pr.Objectives, p.Objectives)
	set(&pr.Instructions, p.Instructions)
	set(&pr.Deliverables, p.Deliverables)
	set(&pr.EvaluationCriteria, p.EvaluationCriteria)
	return pr
}

// Activity is a hackathon, certification or community event.
type Activity struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"` // free text, e.g. "Join anytime"
	Type        string `json:"type"` // Hackathon | Certification | Community
}

func (a Activity) EntityID() int { return a.ID }
func (a Activity) WithID(id int) Activity {
	a.ID = id
	return a
}

type ActivityPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Type        *string `json:"type"`
}

func (p ActivityPatch) Apply(a Activity) Activity {
	set(&a.Title, p.Title)
	set(&a.Description, p.Description)
	set(&a.Date, p.Date)
	set(&a.Type, p.Type)
	return a
}
