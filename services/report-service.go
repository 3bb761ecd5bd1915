package services

import (
	"context"
	"encoding/base64"
	"math"
	"time"

	"github.com/PatrikF1/backend-ProjectPartner/logging"
	"github.com/PatrikF1/backend-ProjectPartner/models"
	"github.com/PatrikF1/backend-ProjectPartner/repositories"
)

// ReportRenderer turns a computed report into a document.
type ReportRenderer func(report *models.ProjectReport) ([]byte, error)

type ReportResult struct {
	models.ProjectReport
	Report string `json:"report"`
}

type ReportService struct {
	projects *ProjectService
	tasks    TaskStore
	render   ReportRenderer
}

func NewReportService(s Stores, projects *ProjectService, render ReportRenderer) *ReportService {
	return &ReportService{projects: projects, tasks: s.Tasks, render: render}
}

// GenerateReport renders the closure report and leaves the project in place.
func (s *ReportService) GenerateReport(ctx context.Context, rawProjectID string) (*ReportResult, error) {
	project, err := s.projects.load(ctx, rawProjectID)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, project)
}

// EndProject renders the closure report and then deletes the project with
// everything attached to it. Nothing is deleted when rendering fails.
func (s *ReportService) EndProject(ctx context.Context, rawProjectID string) (*ReportResult, error) {
	project, err := s.projects.load(ctx, rawProjectID)
	if err != nil {
		return nil, err
	}
	result, err := s.generate(ctx, project)
	if err != nil {
		return nil, err
	}
	if err := s.projects.destroy(ctx, project); err != nil {
		return nil, err
	}
	logging.Logger.Infof("Event ID: PROJECT_ENDED, Description: Project %s ended", project.ID.Hex())
	return result, nil
}

func (s *ReportService) generate(ctx context.Context, project *models.Project) (*ReportResult, error) {
	report, err := s.BuildReport(ctx, project)
	if err != nil {
		return nil, err
	}
	doc, err := s.render(report)
	if err != nil {
		logging.Logger.Errorf("Event ID: REPORT_RENDER_FAILED, Description: Failed to render report for project %s: %v", project.ID.Hex(), err)
		return nil, internal("failed to generate report", err)
	}
	return &ReportResult{
		ProjectReport: *report,
		Report:        "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(doc),
	}, nil
}

// BuildReport computes task statistics and per-member contributions. Tasks
// are attributed to the member who created them.
func (s *ReportService) BuildReport(ctx context.Context, project *models.Project) (*models.ProjectReport, error) {
	view, err := s.projects.resolve.project(ctx, project)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx, repositories.TaskFilter{ProjectID: &project.ID})
	if err != nil {
		return nil, internal("failed to load tasks", err)
	}

	report := &models.ProjectReport{
		Project:     *view,
		GeneratedAt: time.Now().UTC(),
		Tasks:       tasks,
		Members:     make([]models.MemberContribution, 0, len(view.Members)),
	}
	if view.CreatedBy != nil {
		report.CreatorName = view.CreatedBy.DisplayName()
	}

	for _, t := range tasks {
		report.Stats.Total++
		switch t.Status {
		case models.StatusCompleted:
			report.Stats.Completed++
		case models.StatusInProgress:
			report.Stats.InProgress++
		default:
			report.Stats.NotStarted++
		}
	}
	if report.Stats.Total > 0 {
		rate := float64(report.Stats.Completed) / float64(report.Stats.Total) * 100
		report.Stats.CompletionRate = math.Round(rate*10) / 10
	}

	for _, m := range view.Members {
		c := models.MemberContribution{Name: m.DisplayName(), Email: m.Email}
		for _, t := range tasks {
			if t.CreatedBy != m.ID {
				continue
			}
			c.Tasks++
			if t.Status == models.StatusCompleted {
				c.Completed++
			}
		}
		report.Members = append(report.Members, c)
	}
	return report, nil
}
