package service

import (
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
)

// Authorization guard: pure predicates over an actor and a resource,
// checked in order: admin, then owner, then enrolled self. These
// replace the role checks the handlers used to inline; denial surfacing
// is the caller's job.

// CanMutateCourse reports whether the actor may change a course or
// anything owned through it (modules, materials, assignments).
func CanMutateCourse(claims *util.Claims, course *model.Course) bool {
	if claims == nil {
		return false
	}
	if claims.Role == model.Admin {
		return true
	}
	return course.CreatorID == claims.UserID
}

// CanViewCourse reports whether the actor may read course content.
// enrolled is supplied by the caller so the predicate stays pure.
func CanViewCourse(claims *util.Claims, course *model.Course, enrolled bool) bool {
	if course.IsPublic && course.Status == model.CoursePublished {
		return true
	}
	if claims == nil {
		return false
	}
	if claims.Role == model.Admin {
		return true
	}
	if course.CreatorID == claims.UserID {
		return true
	}
	return enrolled
}

// CanTouchEnrollment covers enrollment-scoped operations: progress,
// submissions, cancellation. The enrolled student, the course owner and
// admins qualify.
func CanTouchEnrollment(claims *util.Claims, enrollment *model.Enrollment, course *model.Course) bool {
	if claims == nil {
		return false
	}
	if claims.Role == model.Admin {
		return true
	}
	if course != nil && course.CreatorID == claims.UserID {
		return true
	}
	return enrollment.StudentID == claims.UserID
}
