package template

import (
	"math"

	"github.com/pedagogy-hub/reasoner/internal/domain/student"
)

// Scoring weights. A template's confidence is the sum of the bonuses it
// earns, capped at 1.0.
const (
	gradeBonus      = 0.3
	subjectBonus    = 0.4
	complexityBonus = 0.2

	// sloComplexityThreshold splits "simple" from "complex" objective
	// sets: more than this many SLOs favors the extended models.
	sloComplexityThreshold = 3
)

// RecommendationContext carries the student context a recommendation is
// scored against.
type RecommendationContext struct {
	Grade   student.Grade
	Subject string
	SLOs    []string
	PreSLOs []string
}

// Recommendation is the scored outcome.
type Recommendation struct {
	// Template is the winning key.
	Template Key

	// Confidence is the winning score, rounded to two decimals.
	Confidence float64

	// Scores holds the per-template confidence for every candidate.
	Scores map[Key]float64
}

// Recommender scores templates against a student context.
type Recommender struct {
	templates []*Template
}

// NewRecommender builds a recommender over the given catalog. Candidates
// are evaluated in catalog order; ties go to the earliest.
func NewRecommender(templates []*Template) *Recommender {
	return &Recommender{templates: templates}
}

// Recommend scores every template and returns the best one.
//
// Scoring:
//   - grade compatibility: 8th grade favors the extended models (7E, PBL),
//     7th grade the structured ones (5E, Dynamic), +0.3
//   - subject in the template's best-for list, +0.4
//   - objective complexity: more than three SLOs favors 7E/PBL, three or
//     fewer favors 5E/Dynamic, +0.2
func (r *Recommender) Recommend(ctx RecommendationContext) Recommendation {
	scores := make(map[Key]float64, len(r.templates))

	var best *Template
	var bestScore float64

	for _, t := range r.templates {
		score := r.score(t, ctx)
		scores[t.Key] = score

		if best == nil || score > bestScore {
			best = t
			bestScore = score
		}
	}

	rec := Recommendation{Scores: scores}
	if best != nil {
		rec.Template = best.Key
		rec.Confidence = math.Round(bestScore*100) / 100
	}
	return rec
}

func (r *Recommender) score(t *Template, ctx RecommendationContext) float64 {
	var score float64

	switch ctx.Grade.Number() {
	case 8:
		if t.Key == Key7E || t.Key == KeyPBL {
			score += gradeBonus
		}
	case 7:
		if t.Key == Key5E || t.Key == KeyDynamic {
			score += gradeBonus
		}
	}

	if ctx.Subject != "" && t.SuitsSubject(ctx.Subject) {
		score += subjectBonus
	}

	if len(ctx.SLOs) > sloComplexityThreshold {
		if t.Key == Key7E || t.Key == KeyPBL {
			score += complexityBonus
		}
	} else {
		if t.Key == Key5E || t.Key == KeyDynamic {
			score += complexityBonus
		}
	}

	return math.Min(score, 1.0)
}
