package service

import (
	"context"
	"io"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"
)

// Persistence contracts the services depend on, satisfied by the gorm
// repositories and by mocks in tests.

type CourseRepo interface {
	Create(course *model.Course) error
	FindByID(id uint) (*model.Course, error)
	Update(course *model.Course) error
	List(f repository.CourseFilter) ([]model.Course, int64, error)
	DeleteCascade(courseID uint) error
}

type ModuleRepo interface {
	Create(module *model.CourseModule) error
	FindByID(id uint) (*model.CourseModule, error)
	Update(module *model.CourseModule) error
	Delete(id uint) error
	ListByCourse(courseID uint) ([]model.CourseModule, error)
}

type MaterialRepo interface {
	Create(material *model.Material) error
	FindByID(id uint) (*model.Material, error)
	Update(material *model.Material) error
	Delete(id uint) error
	ListByCourse(courseID uint) ([]model.Material, error)
	ListByModule(moduleID uint) ([]model.Material, error)
	IDsByCourse(courseID uint) ([]uint, error)
	CountByModule(moduleID uint) (int64, error)
	FileRefsByCourse(courseID uint) ([]string, error)
}

type AssignmentRepo interface {
	Create(assignment *model.Assignment) error
	FindByID(id uint) (*model.Assignment, error)
	Update(assignment *model.Assignment) error
	Delete(id uint) error
	ListByCourse(courseID uint) ([]model.Assignment, error)
	IDsByCourse(courseID uint) ([]uint, error)
}

type SubmissionRepo interface {
	Create(submission *model.AssignmentSubmission) error
	FindByID(id uint) (*model.AssignmentSubmission, error)
	FindByAssignmentAndStudent(assignmentID, studentID uint) (*model.AssignmentSubmission, error)
	Update(submission *model.AssignmentSubmission) error
	ListByAssignment(assignmentID uint) ([]model.AssignmentSubmission, error)
	CountByStudentIn(studentID uint, assignmentIDs []uint) (int64, error)
}

type EnrollmentRepo interface {
	Create(enrollment *model.Enrollment) error
	FindByID(id uint) (*model.Enrollment, error)
	FindByStudentAndCourse(studentID, courseID uint) (*model.Enrollment, error)
	Delete(id uint) error
	ListByStudent(studentID uint) ([]model.Enrollment, error)
	ListByCourse(courseID uint) ([]model.Enrollment, error)
	CountBlockingDeletion(courseID uint) (int64, error)
	UpdateProgress(id uint, percentage int) error
	MarkCompleted(id uint, percentage int) error
}

type ProgressRepo interface {
	FindByStudentAndMaterial(studentID, materialID uint) (*model.Progress, error)
	UpsertView(studentID, courseID, materialID uint) (*model.Progress, error)
	UpsertCompleted(studentID, courseID, materialID uint) (*model.Progress, error)
	CountCompletedIn(studentID uint, materialIDs []uint) (int64, error)
	ListByStudentAndCourse(studentID, courseID uint) ([]model.Progress, error)
}

type UserRepo interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	UpdatePassword(userID uint, hashed string) error
	UpdateLastLogin(userID uint) error
	SetDisabled(userID uint, disabled bool) error
	List(page, limit int) ([]model.User, int64, error)
}

// FileStore is the slice of StorageService the content paths consume;
// mocked in tests to count advisory deletes.
type FileStore interface {
	Store(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, ref string) bool
	URL(ref string) string
}
