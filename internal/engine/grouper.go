// Package engine implements the course status rules: grouping a student's
// sessions into enrollments, classifying each enrollment's lifecycle state,
// and splitting today's schedule into ongoing and finished occurrences.
// Everything here is pure; the current time is always an explicit parameter
// so recalculation batches stay reproducible.
package engine

import "github.com/mentorlink/course-api/internal/models"

// Group partitions session bundles into enrollment groups keyed by
// (mentor, skill). Cancelled and rejected sessions are excluded entirely.
// Two sessions sharing a mentor and skill always land in the same group.
func Group(bundles []models.SessionBundle) map[string]*models.EnrollmentGroup {
	groups := make(map[string]*models.EnrollmentGroup)
	for _, bundle := range bundles {
		session := bundle.Session
		if session.Status == models.SessionStatusCancelled || session.Status == models.SessionStatusRejected {
			continue
		}
		key := models.EnrollmentKey{
			StudentID: session.StudentID,
			MentorID:  session.MentorID,
			Skill:     session.Skill,
		}
		group, ok := groups[key.GroupKey()]
		if !ok {
			group = &models.EnrollmentGroup{Key: key}
			groups[key.GroupKey()] = group
		}
		group.Sessions = append(group.Sessions, bundle)
	}
	return groups
}
