package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/campuskit/feedback-api/internal/deptmatch"
	"github.com/campuskit/feedback-api/internal/dto"
	"github.com/campuskit/feedback-api/internal/models"
	"github.com/campuskit/feedback-api/internal/repository"
)

// ReportService aggregates submitted feedback into per-department and
// per-faculty summaries. Feedback whose survey or department has since been
// deleted is excluded from the numbers and counted separately, so deleting a
// survey never skews the averages with unreachable records.
type ReportService interface {
	DepartmentReports(ctx context.Context) ([]dto.DepartmentReport, error)
	ForDepartment(ctx context.Context, department string) (dto.DepartmentReport, error)
}

type reportService struct {
	feedbacks   repository.FeedbackRepository
	surveys     repository.SurveyRepository
	departments repository.DepartmentRepository
	logger      zerolog.Logger
}

// NewReportService constructs the report service.
func NewReportService(feedbacks repository.FeedbackRepository, surveys repository.SurveyRepository, departments repository.DepartmentRepository, logger zerolog.Logger) ReportService {
	return &reportService{
		feedbacks:   feedbacks,
		surveys:     surveys,
		departments: departments,
		logger:      logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) DepartmentReports(ctx context.Context) ([]dto.DepartmentReport, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]dto.DepartmentReport, 0, len(departments))
	for _, department := range departments {
		report, err := s.buildReport(ctx, department)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *reportService) ForDepartment(ctx context.Context, department string) (dto.DepartmentReport, error) {
	departments, err := s.departments.List(ctx)
	if err != nil {
		return dto.DepartmentReport{}, err
	}

	for _, candidate := range departments {
		if deptmatch.Match(department, candidate.Name) {
			return s.buildReport(ctx, candidate)
		}
	}
	return dto.DepartmentReport{}, ErrDepartmentNotFound
}

// facultyAccumulator collects one teacher's numbers across submissions before
// the averages are computed.
type facultyAccumulator struct {
	teacherID   string
	teacherName string
	subject     string
	submissions int
	total       int
	count       int
	byQuestion  map[string]*questionAccumulator
	questionIDs []string
}

type questionAccumulator struct {
	text  string
	total int
	count int
}

func (s *reportService) buildReport(ctx context.Context, department models.Department) (dto.DepartmentReport, error) {
	feedbacks, err := s.feedbacks.List(ctx)
	if err != nil {
		return dto.DepartmentReport{}, err
	}

	surveys, err := s.surveys.List(ctx)
	if err != nil {
		return dto.DepartmentReport{}, err
	}
	liveSurveys := make(map[string]struct{}, len(surveys))
	for _, survey := range surveys {
		liveSurveys[survey.ID] = struct{}{}
	}

	faculties := make(map[string]*facultyAccumulator, len(department.Faculties))
	order := make([]string, 0, len(department.Faculties))
	for _, faculty := range department.Faculties {
		faculties[faculty.ID] = &facultyAccumulator{
			teacherID:   faculty.ID,
			teacherName: faculty.Name,
			subject:     faculty.Subject,
			byQuestion:  make(map[string]*questionAccumulator),
		}
		order = append(order, faculty.ID)
	}

	report := dto.DepartmentReport{Department: department.Name}
	for _, feedback := range feedbacks {
		if !deptmatch.Match(feedback.SurveyDepartment, department.Name) {
			continue
		}
		if _, ok := liveSurveys[feedback.SurveyID]; !ok {
			report.ExcludedOrphans++
			continue
		}

		counted := false
		for _, rating := range feedback.TeacherRatings {
			acc, ok := faculties[rating.TeacherID]
			if !ok {
				// Teacher removed from the department after submission.
				continue
			}
			counted = true
			acc.submissions++
			acc.total += rating.TotalRating
			acc.count += len(rating.Ratings)
			for _, detail := range rating.Ratings {
				question, ok := acc.byQuestion[detail.QuestionID]
				if !ok {
					question = &questionAccumulator{text: detail.QuestionText}
					acc.byQuestion[detail.QuestionID] = question
					acc.questionIDs = append(acc.questionIDs, detail.QuestionID)
				}
				question.total += detail.Rating
				question.count++
			}
		}
		if counted {
			report.Submissions++
		} else {
			report.ExcludedOrphans++
		}
	}

	report.Faculty = make([]dto.FacultyReport, 0, len(order))
	for _, id := range order {
		acc := faculties[id]
		faculty := dto.FacultyReport{
			TeacherID:      acc.teacherID,
			TeacherName:    acc.teacherName,
			TeacherSubject: acc.subject,
			Department:     department.Name,
			Submissions:    acc.submissions,
		}
		if acc.count > 0 {
			faculty.AverageRating = round2(float64(acc.total) / float64(acc.count))
		}

		faculty.QuestionAverages = make([]dto.QuestionAverage, 0, len(acc.questionIDs))
		for _, questionID := range acc.questionIDs {
			question := acc.byQuestion[questionID]
			faculty.QuestionAverages = append(faculty.QuestionAverages, dto.QuestionAverage{
				QuestionID:   questionID,
				QuestionText: question.text,
				Average:      round2(float64(question.total) / float64(question.count)),
				Responses:    question.count,
			})
		}
		report.Faculty = append(report.Faculty, faculty)
	}

	sort.SliceStable(report.Faculty, func(i, j int) bool {
		return report.Faculty[i].AverageRating > report.Faculty[j].AverageRating
	})

	s.logger.Debug().
		Str("department", department.Name).
		Int("submissions", report.Submissions).
		Int("excluded_orphans", report.ExcludedOrphans).
		Msg("report built")
	return report, nil
}
