// Package activity contains the stage activity model and the built-in
// activity catalog used to propose activities for a lesson stage.
package activity

import (
	"context"
	"strings"

	"github.com/pedagogy-hub/reasoner/internal/domain/student"
)

// Type categorizes an activity.
type Type string

const (
	TypeDiscussion  Type = "discussion"
	TypeVideo       Type = "video"
	TypeHandsOn     Type = "hands_on"
	TypeSimulation  Type = "simulation"
	TypeLecture     Type = "lecture"
	TypeReading     Type = "reading"
	TypeProject     Type = "project"
	TypeApplication Type = "application"
	TypeAssessment  Type = "assessment"
	TypeReflection  Type = "reflection"
)

// Activity is a concrete classroom activity proposed for a lesson stage.
type Activity struct {
	Type        Type     `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Materials   []string `json:"materials"`
	Adaptations []string `json:"adaptations"`
}

// Clone returns a deep copy so catalog entries stay immutable when
// proposals are customized per student.
func (a Activity) Clone() Activity {
	a.Materials = append([]string(nil), a.Materials...)
	a.Adaptations = append([]string(nil), a.Adaptations...)
	return a
}

// Customize appends learning-style specific materials.
func (a *Activity) Customize(style student.LearningStyle) {
	switch style {
	case student.StyleVisual:
		a.Materials = append(a.Materials, "Visual aids")
	case student.StyleKinesthetic:
		a.Materials = append(a.Materials, "Hands-on materials")
	}
}

// Source yields the candidate activities for a lesson stage. The
// in-code Catalog serves the mock datastore; the PostgreSQL repository
// serves database mode from the seeded activities table.
type Source interface {
	// ForStage returns the activities for a stage, customized for the
	// given learning style. Unknown stages yield the generic activity
	// rather than an error so new template stages keep working.
	ForStage(ctx context.Context, stage string, style student.LearningStyle) ([]Activity, error)
}

// Catalog is the built-in activity source.
type Catalog struct{}

// NewCatalog returns the built-in catalog.
func NewCatalog() *Catalog { return &Catalog{} }

// ForStage implements Source from the in-code catalog.
func (c *Catalog) ForStage(_ context.Context, stage string, style student.LearningStyle) ([]Activity, error) {
	base := stageActivities(stage)

	out := make([]Activity, 0, len(base))
	for _, a := range base {
		clone := a.Clone()
		clone.Customize(style)
		out = append(out, clone)
	}
	return out, nil
}

// Generic builds the fallback activity for a stage without catalog
// entries.
func Generic(stage string) Activity {
	return Activity{
		Type:        TypeDiscussion,
		Title:       stage + " Stage Activity",
		Description: "Customized activity for the " + stage + " stage",
		Duration:    "20-25 minutes",
		Materials:   []string{"Activity materials", "Instructions"},
		Adaptations: []string{"Individual work", "Group work", "Whole class"},
	}
}

func stageActivities(stage string) []Activity {
	switch strings.ToLower(strings.TrimSpace(stage)) {
	case "engage":
		return []Activity{
			{
				Type:        TypeDiscussion,
				Title:       "Hook Discussion",
				Description: "Start with an intriguing question or real-world scenario",
				Duration:    "10-15 minutes",
				Materials:   []string{"Discussion prompts", "Visual aids"},
				Adaptations: []string{"Group discussion", "Individual reflection", "Interactive polling"},
			},
			{
				Type:        TypeVideo,
				Title:       "Inspirational Video",
				Description: "Show a short video related to the topic",
				Duration:    "5-8 minutes",
				Materials:   []string{"Video content", "Discussion questions"},
				Adaptations: []string{"Pause for discussion", "Note-taking", "Predictions"},
			},
		}
	case "explore":
		return []Activity{
			{
				Type:        TypeHandsOn,
				Title:       "Guided Investigation",
				Description: "Students explore concepts through hands-on activities",
				Duration:    "20-30 minutes",
				Materials:   []string{"Lab materials", "Safety equipment", "Worksheets"},
				Adaptations: []string{"Partner work", "Individual exploration", "Station rotation"},
			},
			{
				Type:        TypeSimulation,
				Title:       "Digital Simulation",
				Description: "Use computer simulations to explore concepts",
				Duration:    "15-25 minutes",
				Materials:   []string{"Computer/tablet", "Simulation software"},
				Adaptations: []string{"Individual work", "Small groups", "Whole class demonstration"},
			},
		}
	case "explain":
		return []Activity{
			{
				Type:        TypeLecture,
				Title:       "Concept Explanation",
				Description: "Teacher explains key concepts with examples",
				Duration:    "15-20 minutes",
				Materials:   []string{"Presentation slides", "Examples", "Visual aids"},
				Adaptations: []string{"Interactive lecture", "Student questions", "Real-time examples"},
			},
			{
				Type:        TypeReading,
				Title:       "Text Analysis",
				Description: "Students read and analyze relevant text",
				Duration:    "20-25 minutes",
				Materials:   []string{"Reading materials", "Highlighters", "Note-taking tools"},
				Adaptations: []string{"Individual reading", "Partner reading", "Group discussion"},
			},
		}
	case "elaborate":
		return []Activity{
			{
				Type:        TypeProject,
				Title:       "Extended Project",
				Description: "Students apply concepts in a longer project",
				Duration:    "45-60 minutes",
				Materials:   []string{"Project materials", "Guidelines", "Assessment rubrics"},
				Adaptations: []string{"Individual projects", "Group projects", "Choice of project type"},
			},
			{
				Type:        TypeApplication,
				Title:       "Real-world Application",
				Description: "Apply concepts to real-world scenarios",
				Duration:    "30-40 minutes",
				Materials:   []string{"Case studies", "Problem scenarios", "Research tools"},
				Adaptations: []string{"Individual work", "Partner collaboration", "Class presentation"},
			},
		}
	case "evaluate":
		return []Activity{
			{
				Type:        TypeAssessment,
				Title:       "Formative Assessment",
				Description: "Check student understanding through various methods",
				Duration:    "20-30 minutes",
				Materials:   []string{"Assessment tools", "Feedback forms", "Rubrics"},
				Adaptations: []string{"Individual assessment", "Peer assessment", "Self-assessment"},
			},
			{
				Type:        TypeReflection,
				Title:       "Learning Reflection",
				Description: "Students reflect on their learning journey",
				Duration:    "15-20 minutes",
				Materials:   []string{"Reflection prompts", "Journal entries", "Discussion questions"},
				Adaptations: []string{"Written reflection", "Oral reflection", "Creative reflection"},
			},
		}
	default:
		return []Activity{Generic(stage)}
	}
}
