package projects

import "context"

// Project is one portfolio entry shown on the public site.
type Project struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	GitHub       string   `json:"github,omitempty"`
	Link         string   `json:"link,omitempty"`
	Technologies []string `json:"technologies"`
}

// Catalog is the read-only source of projects.
type Catalog interface {
	List(ctx context.Context) ([]Project, error)
}

// StaticCatalog serves a fixed, in-code list.
type StaticCatalog struct {
	items []Project
}

func NewStaticCatalog(items []Project) *StaticCatalog {
	return &StaticCatalog{items: items}
}

// DefaultCatalog returns the projects currently featured on the site.
func DefaultCatalog() *StaticCatalog {
	return NewStaticCatalog([]Project{
		{
			ID:           1,
			Title:        "VoyageAI Client",
			Description:  "A modern travel planning application that helps users discover and organize their dream vacations with AI-powered recommendations.",
			Image:        "/assets/voyageai-screenshot.png",
			GitHub:       "https://github.com/RinkiBai/voyageai-client",
			Link:         "https://voyageai-client-4e1k.vercel.app/",
			Technologies: []string{"React", "Node.js", "Express", "MongoDB", "TailwindCSS"},
		},
		{
			ID:           2,
			Title:        "MERN Portfolio",
			Description:  "A full-stack developer portfolio built with the MERN stack, featuring project showcases, skills display, and contact form with backend functionality.",
			Image:        "/assets/portfolio-screenshot.png",
			GitHub:       "https://github.com/RinkiBai/portfolio-mern",
			Link:         "https://portfolio-mern-gct8.vercel.app/projects/",
			Technologies: []string{"React", "Node.js", "Express", "MongoDB", "Material-UI"},
		},
	})
}

// List returns a copy so callers cannot mutate the catalog.
func (s *StaticCatalog) List(_ context.Context) ([]Project, error) {
	out := make([]Project, len(s.items))
	for i, p := range s.items {
		p.Technologies = append([]string(nil), p.Technologies...)
		out[i] = p
	}
	return out, nil
}
