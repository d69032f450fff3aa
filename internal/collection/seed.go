package collection

import (
	"strconv"
	"sync"

	"github.com/iliyamo/studentdev-hub/internal/model"
)

// SeedTracks returns the built-in curriculum tracks.
func SeedTracks() []model.Track {
	return []model.Track{
		{ID: 1, Title: "Java Development", Description: "Backend development with Spring Boot", Type: "Java", Path: "/tracks/java"},
		{ID: 2, Title: "Frontend Development", Description: "Web development with React", Type: "Frontend", Path: "/tracks/frontend"},
		{ID: 3, Title: "Cybersecurity", Description: "Ethical hacking and security", Type: "Cybersecurity", Path: "/tracks/cybersecurity"},
	}
}

// CyberTrackID is the seeded track that ships with modules.
const CyberTrackID = 3

// SeedCyberModules returns the modules of the Cybersecurity track.
func SeedCyberModules() []model.Module {
	titles := []struct {
		title, level string
	}{
		{"Security Fundamentals", "Beginner"},
		{"Network Security", "Beginner"},
		{"Operating System Security", "Beginner"},
		{"Cryptography Basics", "Beginner"},
		{"Ethical Hacking Principles", "Intermediate"},
		{"Penetration Testing", "Intermediate"},
		{"Vulnerability Assessment", "Intermediate"},
		{"Web Application Security", "Intermediate"},
		{"Malware Analysis", "Advanced"},
		{"Digital Forensics", "Advanced"},
	}
	out := make([]model.Module, len(titles))
	for i, t := range titles {
		out[i] = model.Module{ID: i + 1, Title: t.title, Level: t.level}
	}
	return out
}

// SeedResources returns the built-in video resources.
func SeedResources() []model.Resource {
	return []model.Resource{
		{ID: 1, Title: "Java Programming Full Course", Description: "Complete Java tutorial from basics to advanced concepts", Track: "Java", Provider: "Programming with Mosh", URL: "https://www.youtube.com/watch?v=eIrMbAQSU34"},
		{ID: 2, Title: "React Course - Beginner's Tutorial", Description: "Learn React from scratch with practical projects", Track: "Frontend", Provider: "freeCodeCamp", URL: "https://www.youtube.com/watch?v=bMknfKXIFA8"},
		{ID: 3, Title: "Ethical Hacking Full Course", Description: "Complete cybersecurity and ethical hacking course", Track: "Cybersecurity", Provider: "edureka!", URL: "https://www.youtube.com/watch?v=fNzpcB7ODxQ"},
		{ID: 4, Title: "Spring Boot Tutorial", Description: "Build REST APIs with Spring Boot and Java", Track: "Java", Provider: "Java Brains", URL: "https://www.youtube.com/watch?v=vtPkZShrvXQ"},
		{ID: 5, Title: "JavaScript Full Course", Description: "Master JavaScript fundamentals for web development", Track: "Frontend", Provider: "freeCodeCamp", URL: "https://www.youtube.com/watch?v=PkZNo7MFNFg"},
		{ID: 6, Title: "HTML & CSS Full Course", Description: "Complete HTML and CSS tutorial for beginners", Track: "Frontend", Provider: "freeCodeCamp", URL: "https://www.youtube.com/watch?v=mU6anWqZJcc"},
		{ID: 7, Title: "Kali Linux Tutorial", Description: "Learn penetration testing with Kali Linux", Track: "Cybersecurity", Provider: "NetworkChuck", URL: "https://www.youtube.com/watch?v=fKuqYQdqRIs"},
		{ID: 8, Title: "TypeScript Course", Description: "Learn TypeScript for better JavaScript development", Track: "Frontend", Provider: "Traversy Media", URL: "https://www.youtube.com/watch?v=BCg4U1FzODs"},
		{ID: 9, Title: "Java Spring Framework", Description: "Complete Spring Framework tutorial with examples", Track: "Java", Provider: "Telusko", URL: "https://www.youtube.com/watch?v=If1Lw4pLLEo"},
		{ID: 10, Title: "Network Security Basics", Description: "Understanding network security fundamentals", Track: "Cybersecurity", Provider: "Professor Messer", URL: "https://www.youtube.com/watch?v=qiQR5rTSshw"},
	}
}

// SeedProjects returns the built-in project briefs.
func SeedProjects() []model.Project {
	return []model.Project{
		{ID: 1, Title: "E-commerce API", Description: "Build a REST API with Spring Boot", Track: "Java", Difficulty: "Intermediate", Duration: "2-3 weeks"},
		{ID: 2, Title: "Task Manager", Description: "Create a React task management app", Track: "Frontend", Difficulty: "Beginner", Duration: "1-2 weeks"},
		{ID: 3, Title: "Security Scanner", Description: "Network vulnerability scanner", Track: "Cybersecurity", Difficulty: "Advanced", Duration: "3-4 weeks"},
		{ID: 4, Title: "Portfolio Website", Description: "Professional portfolio with HTML/CSS", Track: "Frontend", Difficulty: "Beginner", Duration: "1 week"},
	}
}

// SeedActivities returns the built-in activities.
func SeedActivities() []model.Activity {
	return []model.Activity{
		{ID: 1, Title: "StudentDev Hackathon", Description: "48-hour hackathon for student developers", Date: "Join anytime", Type: "Hackathon"},
		{ID: 2, Title: "AWS Certified Developer", Description: "Professional certification for cloud development", Date: "Available year-round", Type: "Certification"},
		{ID: 3, Title: "StudentDev Community", Description: "Open source projects and collaboration", Date: "Join anytime", Type: "Community"},
	}
}

// ProjectScope is the attachment and board scope of a project.
func ProjectScope(id int) string { return "project_" + strconv.Itoa(id) }

// ActivityScope is the attachment and board scope of an activity.
func ActivityScope(id int) string { return "activity_" + strconv.Itoa(id) }

// ModuleScope is the attachment and board scope of a module in track.
// Cybersecurity modules keep their historical "track_cyber_module_<id>" key.
func ModuleScope(track string, id int) string {
	if track == strconv.Itoa(CyberTrackID) {
		return "track_cyber_module_" + strconv.Itoa(id)
	}
	return "track_" + track + "_module_" + strconv.Itoa(id)
}

// Catalog bundles every collection the service exposes.
type Catalog struct {
	Tracks      *Manager[model.Track, model.TrackPatch]
	Resources   *Manager[model.Resource, model.ResourcePatch]
	Projects    *Manager[model.Project, model.ProjectPatch]
	Activities  *Manager[model.Activity, model.ActivityPatch]
	Modules     *Registry[model.Module, model.ModulePatch]         // keyed by track id
	Attachments *Registry[model.Attachment, model.AttachmentPatch] // keyed by scope, e.g. project_1

	mu      sync.Mutex
	dropped []func(scope string) // run after a scope's owner is deleted
}

// NewCatalog returns a catalog loaded with the seed data. Deleting a
// project, activity or module drops the attachments of its scope and
// notifies OnScopeDropped listeners. Deleting a track does the same for
// every module it held, then drops the modules.
func NewCatalog() *Catalog {
	c := &Catalog{
		Tracks:     New[model.Track, model.TrackPatch](SeedTracks()...),
		Resources:  New[model.Resource, model.ResourcePatch](SeedResources()...),
		Projects:   New[model.Project, model.ProjectPatch](SeedProjects()...),
		Activities: New[model.Activity, model.ActivityPatch](SeedActivities()...),
		Modules: NewRegistry[model.Module, model.ModulePatch](map[string][]model.Module{
			strconv.Itoa(CyberTrackID): SeedCyberModules(),
		}),
		Attachments: NewRegistry[model.Attachment, model.AttachmentPatch](nil),
	}
	c.Tracks.OnChange(func(ch Change[model.Track]) {
		if ch.Op != OpDelete {
			return
		}
		track := strconv.Itoa(ch.ID)
		for _, m := range c.Modules.List(track) { // modules leave with their track
			c.dropScope(ModuleScope(track, m.ID))
		}
		c.Modules.Drop(track)
	})
	c.Projects.OnChange(func(ch Change[model.Project]) {
		if ch.Op == OpDelete {
			c.dropScope(ProjectScope(ch.ID))
		}
	})
	c.Activities.OnChange(func(ch Change[model.Activity]) {
		if ch.Op == OpDelete {
			c.dropScope(ActivityScope(ch.ID))
		}
	})
	c.Modules.OnChange(func(track string, ch Change[model.Module]) {
		if ch.Op == OpDelete {
			c.dropScope(ModuleScope(track, ch.ID))
		}
	})
	return c
}

// OnScopeDropped registers fn to run with the scope key of every deleted
// project, activity or module, after its attachments are gone. Anything
// else keyed by scope belongs here, since a recreated item gets the same id.
func (c *Catalog) OnScopeDropped(fn func(scope string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropped = append(c.dropped, fn)
}

func (c *Catalog) dropScope(scope string) {
	c.Attachments.Drop(scope)
	c.mu.Lock()
	fns := c.dropped
	c.mu.Unlock()
	for _, fn := range fns {
		fn(scope)
	}
}
