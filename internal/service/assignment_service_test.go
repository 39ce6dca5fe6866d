package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type assignmentFixture struct {
	assignments *MockAssignmentRepo
	submissions *MockSubmissionRepo
	courses     *MockCourseRepo
	enrollments *MockEnrollmentRepo
	materials   *MockMaterialRepo
	progress    *MockProgressRepo
	storage     *MockFileStore
	svc         *AssignmentService
}

func newAssignmentFixture() *assignmentFixture {
	f := &assignmentFixture{
		assignments: new(MockAssignmentRepo),
		submissions: new(MockSubmissionRepo),
		courses:     new(MockCourseRepo),
		enrollments: new(MockEnrollmentRepo),
		materials:   new(MockMaterialRepo),
		progress:    new(MockProgressRepo),
		storage:     new(MockFileStore),
	}
	progressSvc := NewProgressService(f.materials, f.assignments, f.progress, f.submissions, f.enrollments)
	enrollmentSvc := NewEnrollmentService(f.enrollments, f.courses, progressSvc)
	f.svc = NewAssignmentService(f.assignments, f.submissions, f.courses, f.enrollments, enrollmentSvc, f.storage)
	return f
}

// attachmentHeader builds a parsed multipart file header the way gin
// hands one to the upload handlers.
func attachmentHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	assert.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

// stubRecompute covers the RecalculateAndCommit that follows a
// successful submission.
func (f *assignmentFixture) stubRecompute(studentID, courseID uint) {
	enrollment := &model.Enrollment{StudentID: studentID, CourseID: courseID, Status: model.EnrollmentActive}
	enrollment.ID = 7
	f.enrollments.On("FindByStudentAndCourse", studentID, courseID).Return(enrollment, nil)
	f.materials.On("IDsByCourse", courseID).Return([]uint{}, nil)
	f.assignments.On("IDsByCourse", courseID).Return([]uint{30, 31}, nil)
	f.progress.On("CountCompletedIn", studentID, []uint{}).Return(int64(0), nil)
	f.submissions.On("CountByStudentIn", studentID, []uint{30, 31}).Return(int64(1), nil)
	f.enrollments.On("UpdateProgress", uint(7), 50).Return(nil)
}

func TestCreateAssignment_DefaultMaxScore(t *testing.T) {
	f := newAssignmentFixture()
	course := &model.Course{CreatorID: 2}
	course.ID = 1
	f.courses.On("FindByID", uint(1)).Return(course, nil)
	f.assignments.On("Create", mock.AnythingOfType("*model.Assignment")).Return(nil)

	assignment, err := f.svc.Create(&util.Claims{UserID: 2, Role: model.Tutor}, 1, AssignmentInput{Title: "Essay"})

	assert.NoError(t, err)
	assert.Equal(t, float64(100), assignment.MaxScore)
}

func TestSubmit_Success(t *testing.T) {
	f := newAssignmentFixture()
	assignment := &model.Assignment{CourseID: 1, DueDate: time.Now().Add(24 * time.Hour), MaxScore: 100}
	assignment.ID = 30
	f.assignments.On("FindByID", uint(30)).Return(assignment, nil)
	f.submissions.On("FindByAssignmentAndStudent", uint(30), uint(5)).Return(nil, gorm.ErrRecordNotFound)
	f.submissions.On("Create", mock.AnythingOfType("*model.AssignmentSubmission")).Return(nil)
	f.stubRecompute(5, 1)

	result, err := f.svc.Submit(&util.Claims{UserID: 5, Role: model.Student}, 30, "my answer", "")

	assert.NoError(t, err)
	assert.Equal(t, model.SubmissionSubmitted, result.Submission.Status)
	assert.Equal(t, 50, result.Progress.ProgressPercentage)
}

func TestSubmit_TwiceIsConflict(t *testing.T) {
	f := newAssignmentFixture()
	assignment := &model.Assignment{CourseID: 1, DueDate: time.Now().Add(24 * time.Hour)}
	assignment.ID = 30
	f.assignments.On("FindByID", uint(30)).Return(assignment, nil)
	f.enrollments.On("FindByStudentAndCourse", uint(5), uint(1)).
		Return(&model.Enrollment{StudentID: 5, CourseID: 1, Status: model.EnrollmentActive}, nil)
	f.submissions.On("FindByAssignmentAndStudent", uint(30), uint(5)).
		Return(&model.AssignmentSubmission{AssignmentID: 30, StudentID: 5}, nil)

	_, err := f.svc.Submit(&util.Claims{UserID: 5, Role: model.Student}, 30, "again", "")

	assert.True(t, errors.Is(err, util.ErrConflict))
	f.submissions.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSubmit_PastDueIsConflict(t *testing.T) {
	f := newAssignmentFixture()
	assignment := &model.Assignment{CourseID: 1, DueDate: time.Now().Add(-time.Hour)}
	assignment.ID = 30
	f.assignments.On("FindByID", uint(30)).Return(assignment, nil)
	f.enrollments.On("FindByStudentAndCourse", uint(5), uint(1)).
		Return(&model.Enrollment{StudentID: 5, CourseID: 1, Status: model.EnrollmentActive}, nil)
	f.submissions.On("FindByAssignmentAndStudent", uint(30), uint(5)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Submit(&util.Claims{UserID: 5, Role: model.Student}, 30, "late", "")

	assert.True(t, errors.Is(err, util.ErrConflict))
	f.submissions.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSubmit_NotEnrolledIsForbidden(t *testing.T) {
	f := newAssignmentFixture()
	assignment := &model.Assignment{CourseID: 1, DueDate: time.Now().Add(24 * time.Hour)}
	assignment.ID = 30
	f.assignments.On("FindByID", uint(30)).Return(assignment, nil)
	f.enrollments.On("FindByStudentAndCourse", uint(5), uint(1)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Submit(&util.Claims{UserID: 5, Role: model.Student}, 30, "answer", "")

	assert.True(t, errors.Is(err, util.ErrForbidden))
}

func TestGrade_ScoreOutOfRangeRejected(t *testing.T) {
	f := newAssignmentFixture()
	submission := &model.AssignmentSubmission{AssignmentID: 30, StudentID: 5}
	submission.ID = 40
	assignment := &model.Assignment{CourseID: 1, MaxScore: 100}
	assignment.ID = 30
	course := &model.Course{CreatorID: 2}
	course.ID = 1
	f.submissions.On("FindByID", uint(40)).Return(submission, nil)
	f.assignments.On("FindByID", uint(30)).Return(assignment, nil)
	f.courses.On("FindByID", uint(1)).Return(course, nil)

	_, err := f.svc.Grade(&util.Claims{UserID: 2, Role: model.Tutor}, 40, 150, "generous")

	assert.True(t, errors.Is(err, util.ErrValidation))
	f.submissions.AssertNotCalled(t, "Update", mock.Anything)
}

func TestGrade_SetsScoreAndStatus(t *testing.T) {
	f := newAssignmentFixture()
	submission := &model.AssignmentSubmission{AssignmentID: 30, StudentID: 5, Status: model.SubmissionSubmitted}
	submission.ID = 40
	assignment := &model.Assignment{CourseID: 1, MaxScore: 100}
	assignment.ID = 30
	course := &model.Course{CreatorID: 2}
	course.ID = 1
	f.submissions.On("FindByID", uint(40)).Return(submission, nil)
	f.assignments.On("FindByID", uint(30)).Return(assignment, nil)
	f.courses.On("FindByID", uint(1)).Return(course, nil)
	f.submissions.On("Update", mock.AnythingOfType("*model.AssignmentSubmission")).Return(nil)

	graded, err := f.svc.Grade(&util.Claims{UserID: 2, Role: model.Tutor}, 40, 87.5, "well done")

	assert.NoError(t, err)
	assert.Equal(t, model.SubmissionGraded, graded.Status)
	assert.Equal(t, 87.5, *graded.Score)
	assert.Equal(t, "well done", graded.Feedback)
}

func TestGrade_StudentForbidden(t *testing.T) {
	f := newAssignmentFixture()
	submission := &model.AssignmentSubmission{AssignmentID: 30, StudentID: 5}
	submission.ID = 40
	assignment := &model.Assignment{CourseID: 1, MaxScore: 100}
	assignment.ID = 30
	course := &model.Course{CreatorID: 2}
	course.ID = 1
	f.submissions.On("FindByID", uint(40)).Return(submission, nil)
	f.assignments.On("FindByID", uint(30)).Return(assignment, nil)
	f.courses.On("FindByID", uint(1)).Return(course, nil)

	_, err := f.svc.Grade(&util.Claims{UserID: 5, Role: model.Student}, 40, 100, "self service")

	assert.True(t, errors.Is(err, util.ErrForbidden))
}

func TestUploadSubmissionFile_StoredUnderAssignmentsFolder(t *testing.T) {
	f := newAssignmentFixture()
	assignment := &model.Assignment{CourseID: 1}
	assignment.ID = 30
	f.assignments.On("FindByID", uint(30)).Return(assignment, nil)
	f.enrollments.On("FindByStudentAndCourse", uint(5), uint(1)).
		Return(&model.Enrollment{StudentID: 5, CourseID: 1, Status: model.EnrollmentActive}, nil)
	f.storage.On("Store", mock.Anything, util.FolderAssignments, "essay.pdf", mock.Anything, mock.Anything, mock.Anything).
		Return("assignments/1-essay.pdf", nil)

	file := attachmentHeader(t, "essay.pdf", []byte("%PDF-1.4 essay body"))
	ref, err := f.svc.UploadSubmissionFile(context.Background(), &util.Claims{UserID: 5, Role: model.Student}, 30, file)

	assert.NoError(t, err)
	assert.Equal(t, "assignments/1-essay.pdf", ref)
	f.storage.AssertExpectations(t)
}

func TestUploadSubmissionFile_NotEnrolledIsForbidden(t *testing.T) {
	f := newAssignmentFixture()
	assignment := &model.Assignment{CourseID: 1}
	assignment.ID = 30
	f.assignments.On("FindByID", uint(30)).Return(assignment, nil)
	f.enrollments.On("FindByStudentAndCourse", uint(5), uint(1)).Return(nil, gorm.ErrRecordNotFound)

	file := attachmentHeader(t, "essay.pdf", []byte("%PDF-1.4 essay body"))
	_, err := f.svc.UploadSubmissionFile(context.Background(), &util.Claims{UserID: 5, Role: model.Student}, 30, file)

	assert.True(t, errors.Is(err, util.ErrForbidden))
	f.storage.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
