package service

import (
	"context"
	"io"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// Testify mocks for the persistence contracts in repositories.go.

type MockCourseRepo struct {
	mock.Mock
}

func (m *MockCourseRepo) Create(course *model.Course) error {
	return m.Called(course).Error(0)
}

func (m *MockCourseRepo) FindByID(id uint) (*model.Course, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCourseRepo) Update(course *model.Course) error {
	return m.Called(course).Error(0)
}

func (m *MockCourseRepo) List(f repository.CourseFilter) ([]model.Course, int64, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Course), args.Get(1).(int64), args.Error(2)
}

func (m *MockCourseRepo) DeleteCascade(courseID uint) error {
	return m.Called(courseID).Error(0)
}

type MockModuleRepo struct {
	mock.Mock
}

func (m *MockModuleRepo) Create(module *model.CourseModule) error {
	return m.Called(module).Error(0)
}

func (m *MockModuleRepo) FindByID(id uint) (*model.CourseModule, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CourseModule), args.Error(1)
}

func (m *MockModuleRepo) Update(module *model.CourseModule) error {
	return m.Called(module).Error(0)
}

func (m *MockModuleRepo) Delete(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockModuleRepo) ListByCourse(courseID uint) ([]model.CourseModule, error) {
	args := m.Called(courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CourseModule), args.Error(1)
}

type MockMaterialRepo struct {
	mock.Mock
}

func (m *MockMaterialRepo) Create(material *model.Material) error {
	return m.Called(material).Error(0)
}

func (m *MockMaterialRepo) FindByID(id uint) (*model.Material, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Material), args.Error(1)
}

func (m *MockMaterialRepo) Update(material *model.Material) error {
	return m.Called(material).Error(0)
}

func (m *MockMaterialRepo) Delete(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockMaterialRepo) ListByCourse(courseID uint) ([]model.Material, error) {
	args := m.Called(courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Material), args.Error(1)
}

func (m *MockMaterialRepo) ListByModule(moduleID uint) ([]model.Material, error) {
	args := m.Called(moduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Material), args.Error(1)
}

func (m *MockMaterialRepo) IDsByCourse(courseID uint) ([]uint, error) {
	args := m.Called(courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockMaterialRepo) CountByModule(moduleID uint) (int64, error) {
	args := m.Called(moduleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaterialRepo) FileRefsByCourse(courseID uint) ([]string, error) {
	args := m.Called(courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockAssignmentRepo struct {
	mock.Mock
}

func (m *MockAssignmentRepo) Create(assignment *model.Assignment) error {
	return m.Called(assignment).Error(0)
}

func (m *MockAssignmentRepo) FindByID(id uint) (*model.Assignment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepo) Update(assignment *model.Assignment) error {
	return m.Called(assignment).Error(0)
}

func (m *MockAssignmentRepo) Delete(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockAssignmentRepo) ListByCourse(courseID uint) ([]model.Assignment, error) {
	args := m.Called(courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Assignment), args.Error(1)
}

func (m *MockAssignmentRepo) IDsByCourse(courseID uint) ([]uint, error) {
	args := m.Called(courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) Create(submission *model.AssignmentSubmission) error {
	return m.Called(submission).Error(0)
}

func (m *MockSubmissionRepo) FindByID(id uint) (*model.AssignmentSubmission, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AssignmentSubmission), args.Error(1)
}

func (m *MockSubmissionRepo) FindByAssignmentAndStudent(assignmentID, studentID uint) (*model.AssignmentSubmission, error) {
	args := m.Called(assignmentID, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AssignmentSubmission), args.Error(1)
}

func (m *MockSubmissionRepo) Update(submission *model.AssignmentSubmission) error {
	return m.Called(submission).Error(0)
}

func (m *MockSubmissionRepo) ListByAssignment(assignmentID uint) ([]model.AssignmentSubmission, error) {
	args := m.Called(assignmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AssignmentSubmission), args.Error(1)
}

func (m *MockSubmissionRepo) CountByStudentIn(studentID uint, assignmentIDs []uint) (int64, error) {
	args := m.Called(studentID, assignmentIDs)
	return args.Get(0).(int64), args.Error(1)
}

type MockEnrollmentRepo struct {
	mock.Mock
}

func (m *MockEnrollmentRepo) Create(enrollment *model.Enrollment) error {
	return m.Called(enrollment).Error(0)
}

func (m *MockEnrollmentRepo) FindByID(id uint) (*model.Enrollment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepo) FindByStudentAndCourse(studentID, courseID uint) (*model.Enrollment, error) {
	args := m.Called(studentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepo) Delete(id uint) error {
	return m.Called(id).Error(0)
}

func (m *MockEnrollmentRepo) ListByStudent(studentID uint) ([]model.Enrollment, error) {
	args := m.Called(studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepo) ListByCourse(courseID uint) ([]model.Enrollment, error) {
	args := m.Called(courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepo) CountBlockingDeletion(courseID uint) (int64, error) {
	args := m.Called(courseID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEnrollmentRepo) UpdateProgress(id uint, percentage int) error {
	return m.Called(id, percentage).Error(0)
}

func (m *MockEnrollmentRepo) MarkCompleted(id uint, percentage int) error {
	return m.Called(id, percentage).Error(0)
}

type MockProgressRepo struct {
	mock.Mock
}

func (m *MockProgressRepo) FindByStudentAndMaterial(studentID, materialID uint) (*model.Progress, error) {
	args := m.Called(studentID, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Progress), args.Error(1)
}

func (m *MockProgressRepo) UpsertView(studentID, courseID, materialID uint) (*model.Progress, error) {
	args := m.Called(studentID, courseID, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Progress), args.Error(1)
}

func (m *MockProgressRepo) UpsertCompleted(studentID, courseID, materialID uint) (*model.Progress, error) {
	args := m.Called(studentID, courseID, materialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Progress), args.Error(1)
}

func (m *MockProgressRepo) CountCompletedIn(studentID uint, materialIDs []uint) (int64, error) {
	args := m.Called(studentID, materialIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProgressRepo) ListByStudentAndCourse(studentID, courseID uint) ([]model.Progress, error) {
	args := m.Called(studentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Progress), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *model.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) FindByID(id uint) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *model.User) error {
	return m.Called(user).Error(0)
}

func (m *MockUserRepo) UpdatePassword(userID uint, hashed string) error {
	return m.Called(userID, hashed).Error(0)
}

func (m *MockUserRepo) UpdateLastLogin(userID uint) error {
	return m.Called(userID).Error(0)
}

func (m *MockUserRepo) SetDisabled(userID uint, disabled bool) error {
	return m.Called(userID, disabled).Error(0)
}

func (m *MockUserRepo) List(page, limit int) ([]model.User, int64, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Store(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, folder, filename, reader, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockFileStore) Delete(ctx context.Context, ref string) bool {
	return m.Called(ctx, ref).Bool(0)
}

func (m *MockFileStore) URL(ref string) string {
	return m.Called(ref).String(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}
