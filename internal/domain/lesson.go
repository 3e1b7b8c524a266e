package domain

import "sort"

// CurriculumLesson is one lesson of a course template.
type CurriculumLesson struct {
	ID         string
	CourseID   string
	OrderIndex int
	Title      string
}

// SortLessons orders lessons by OrderIndex, keeping input order for ties.
func SortLessons(lessons []CurriculumLesson) {
	sort.SliceStable(lessons, func(i, j int) bool {
		return lessons[i].OrderIndex < lessons[j].OrderIndex
	})
}
