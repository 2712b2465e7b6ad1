package memory

import (
	"time"

	"github.com/pedagogy-hub/reasoner/internal/domain/student"
)

// SeedStudents returns the demo student profiles the mock datastore
// ships with.
func SeedStudents() []*student.Student {
	now := time.Now().UTC()
	return []*student.Student{
		{
			ID: "student_123",
			Info: student.Info{
				Name:          "Alex Johnson",
				Age:           13,
				LearningStyle: student.StyleVisual,
				Interests:     []string{"robotics", "space", "experiments"},
				Strengths:     []string{"problem_solving", "creativity"},
				Challenges:    []string{"reading_comprehension", "time_management"},
			},
			Grade:   "8th",
			Subject: "Science",
			SLOs: []string{
				"Understand the scientific method",
				"Analyze experimental data",
				"Apply scientific principles to real-world problems",
			},
			PreSLOs: []string{
				"Basic scientific observation",
				"Simple experimental procedures",
				"Data collection and recording",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID: "student_456",
			Info: student.Info{
				Name:          "Sam Rivera",
				Age:           12,
				LearningStyle: student.StyleKinesthetic,
				Interests:     []string{"sports", "music", "hands_on_projects"},
				Strengths:     []string{"practical_application", "teamwork"},
				Challenges:    []string{"theoretical_concepts", "independent_work"},
			},
			Grade:   "7th",
			Subject: "Mathematics",
			SLOs: []string{
				"Solve algebraic equations",
				"Apply geometric principles",
				"Use mathematical reasoning",
			},
			PreSLOs: []string{
				"Basic arithmetic operations",
				"Simple geometric shapes",
				"Pattern recognition",
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// SeedHistory returns the demo learning history keyed by student ID.
func SeedHistory() map[string][]student.HistoryEntry {
	return map[string][]student.HistoryEntry{
		"student_123": {
			{Topic: "Chemistry basics", Performance: student.PerformanceExcellent, Date: date(2024, 1, 15)},
			{Topic: "Physics fundamentals", Performance: student.PerformanceGood, Date: date(2024, 2, 1)},
		},
		"student_456": {
			{Topic: "Pre-algebra", Performance: student.PerformanceGood, Date: date(2024, 1, 20)},
			{Topic: "Geometry basics", Performance: student.PerformanceExcellent, Date: date(2024, 2, 10)},
		},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
