package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"

	"gorm.io/gorm"
)

type AssignmentService struct {
	AssignmentRepo AssignmentRepo
	SubmissionRepo SubmissionRepo
	CourseRepo     CourseRepo
	EnrollmentRepo EnrollmentRepo
	Enrollments    *EnrollmentService
	Storage        FileStore
}

func NewAssignmentService(assignmentRepo AssignmentRepo, submissionRepo SubmissionRepo, courseRepo CourseRepo, enrollmentRepo EnrollmentRepo, enrollments *EnrollmentService, storage FileStore) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		SubmissionRepo: submissionRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		Enrollments:    enrollments,
		Storage:        storage,
	}
}

type AssignmentInput struct {
	Title       string
	Description string
	DueDate     time.Time
	MaxScore    float64
}

func (s *AssignmentService) courseForMutation(claims *util.Claims, courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("course %d: %w", courseID, util.ErrNotFound)
		}
		return nil, err
	}
	if !CanMutateCourse(claims, course) {
		return nil, fmt.Errorf("not the course owner: %w", util.ErrForbidden)
	}
	return course, nil
}

func (s *AssignmentService) Create(claims *util.Claims, courseID uint, in AssignmentInput) (*model.Assignment, error) {
	if _, err := s.courseForMutation(claims, courseID); err != nil {
		return nil, err
	}

	maxScore := in.MaxScore
	if maxScore <= 0 {
		maxScore = 100
	}
	assignment := &model.Assignment{
		CourseID:    courseID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		MaxScore:    maxScore,
	}
	if err := s.AssignmentRepo.Create(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) Update(claims *util.Claims, id uint, in AssignmentInput) (*model.Assignment, error) {
	assignment, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.courseForMutation(claims, assignment.CourseID); err != nil {
		return nil, err
	}

	if in.Title != "" {
		assignment.Title = in.Title
	}
	if in.Description != "" {
		assignment.Description = in.Description
	}
	if !in.DueDate.IsZero() {
		assignment.DueDate = in.DueDate
	}
	if in.MaxScore > 0 {
		assignment.MaxScore = in.MaxScore
	}

	if err := s.AssignmentRepo.Update(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) Delete(claims *util.Claims, id uint) error {
	assignment, err := s.get(id)
	if err != nil {
		return err
	}
	if _, err := s.courseForMutation(claims, assignment.CourseID); err != nil {
		return err
	}
	return s.AssignmentRepo.Delete(id)
}

func (s *AssignmentService) ListByCourse(courseID uint) ([]model.Assignment, error) {
	return s.AssignmentRepo.ListByCourse(courseID)
}

func (s *AssignmentService) get(id uint) (*model.Assignment, error) {
	assignment, err := s.AssignmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assignment %d: %w", id, util.ErrNotFound)
		}
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) requireActiveEnrollment(studentID, courseID uint) error {
	enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("not enrolled in course %d: %w", courseID, util.ErrForbidden)
		}
		return err
	}
	if enrollment.Status == model.EnrollmentCancelled {
		return fmt.Errorf("enrollment cancelled: %w", util.ErrForbidden)
	}
	return nil
}

// UploadSubmissionFile stores a student's submission attachment and
// returns the storage reference to pass along with the submission.
// Only enrolled students of the assignment's course may upload.
func (s *AssignmentService) UploadSubmissionFile(ctx context.Context, claims *util.Claims, assignmentID uint, file *multipart.FileHeader) (string, error) {
	assignment, err := s.get(assignmentID)
	if err != nil {
		return "", err
	}
	if err := s.requireActiveEnrollment(claims.UserID, assignment.CourseID); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	allowed := []string{util.MimeImage, util.MimePDF, "text/plain", "application/msword", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip", util.MimeOctetStream}
	if _, err := util.ValidateMimeType(src, allowed); err != nil {
		return "", fmt.Errorf("%v: %w", err, util.ErrValidation)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	return s.Storage.Store(ctx, util.FolderAssignments, file.Filename, src, file.Size, file.Header.Get("Content-Type"))
}

// SubmissionResult pairs the created submission with the freshly
// committed completion statistics.
type SubmissionResult struct {
	Submission *model.AssignmentSubmission `json:"submission"`
	Progress   *model.CourseProgress       `json:"progress"`
}

// Submit creates the student's single submission for an assignment.
// A second submission and a past-due submission are conflicts; a
// student without an enrollment gets Forbidden. Success triggers the
// enrollment recompute.
func (s *AssignmentService) Submit(claims *util.Claims, assignmentID uint, content, fileURL string) (*SubmissionResult, error) {
	assignment, err := s.get(assignmentID)
	if err != nil {
		return nil, err
	}

	if err := s.requireActiveEnrollment(claims.UserID, assignment.CourseID); err != nil {
		return nil, err
	}

	if _, err := s.SubmissionRepo.FindByAssignmentAndStudent(assignmentID, claims.UserID); err == nil {
		return nil, fmt.Errorf("already submitted: %w", util.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if !assignment.DueDate.IsZero() && time.Now().After(assignment.DueDate) {
		return nil, fmt.Errorf("assignment past due: %w", util.ErrConflict)
	}

	submission := &model.AssignmentSubmission{
		AssignmentID: assignmentID,
		StudentID:    claims.UserID,
		Content:      content,
		FileURL:      fileURL,
		Status:       model.SubmissionSubmitted,
	}
	if err := s.SubmissionRepo.Create(submission); err != nil {
		return nil, err
	}

	progress, err := s.Enrollments.RecalculateAndCommit(claims.UserID, assignment.CourseID)
	if err != nil {
		return nil, err
	}

	return &SubmissionResult{Submission: submission, Progress: progress}, nil
}

// Grade scores a submission; owner or admin only. The submission itself
// stays append-only apart from status/score/feedback.
func (s *AssignmentService) Grade(claims *util.Claims, submissionID uint, score float64, feedback string) (*model.AssignmentSubmission, error) {
	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission %d: %w", submissionID, util.ErrNotFound)
		}
		return nil, err
	}

	assignment, err := s.get(submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.courseForMutation(claims, assignment.CourseID); err != nil {
		return nil, err
	}

	if score < 0 || score > assignment.MaxScore {
		return nil, fmt.Errorf("score must be within [0, %.0f]: %w", assignment.MaxScore, util.ErrValidation)
	}

	submission.Score = &score
	submission.Feedback = feedback
	submission.Status = model.SubmissionGraded

	if err := s.SubmissionRepo.Update(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *AssignmentService) ListSubmissions(claims *util.Claims, assignmentID uint) ([]model.AssignmentSubmission, error) {
	assignment, err := s.get(assignmentID)
	if err != nil {
		return nil, err
	}
	if _, err := s.courseForMutation(claims, assignment.CourseID); err != nil {
		return nil, err
	}
	return s.SubmissionRepo.ListByAssignment(assignmentID)
}

func (s *AssignmentService) GetMySubmission(claims *util.Claims, assignmentID uint) (*model.AssignmentSubmission, error) {
	submission, err := s.SubmissionRepo.FindByAssignmentAndStudent(assignmentID, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no submission yet: %w", util.ErrNotFound)
		}
		return nil, err
	}
	return submission, nil
}
