package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"portal-backend/internal/domain"
	"portal-backend/internal/report"
	"portal-backend/internal/repository"
)

// ReportRenderer is satisfied by *report.Renderer.
type ReportRenderer interface {
	Render(kind report.Kind, data report.Data) ([]byte, error)
	Markup(kind report.Kind, data report.Data) ([]byte, error)
}

// Document is a generated report ready to be served.
type Document struct {
	Kind     report.Kind
	Filename string
	Content  []byte
}

// ReportService loads report data and hands it to the renderer.
type ReportService interface {
	Generate(ctx context.Context, kind report.Kind) (*Document, error)
	Preview(ctx context.Context, kind report.Kind) ([]byte, error)
}

type reportService struct {
	users    repository.UserRepository
	items    repository.ItemRepository
	renderer ReportRenderer
	logger   *logrus.Logger
}

func NewReportService(users repository.UserRepository, items repository.ItemRepository, renderer ReportRenderer, logger *logrus.Logger) ReportService {
	if logger == nil {
		logger = logrus.New()
	}
	return &reportService{
		users:    users,
		items:    items,
		renderer: renderer,
		logger:   logger,
	}
}

func (s *reportService) Generate(ctx context.Context, kind report.Kind) (*Document, error) {
	logger := s.logger.WithField("report", kind)
	logger.Info("generating report")

	data, err := s.load(ctx, kind)
	if err != nil {
		return nil, err
	}

	content, err := s.renderer.Render(kind, data)
	if err != nil {
		logger.WithError(err).Error("report generation failed")
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"users": len(data.Users),
		"items": len(data.Items),
		"bytes": len(content),
	}).Info("report generated")
	return &Document{
		Kind:     kind,
		Filename: kind.Filename(),
		Content:  content,
	}, nil
}

func (s *reportService) Preview(ctx context.Context, kind report.Kind) ([]byte, error) {
	data, err := s.load(ctx, kind)
	if err != nil {
		return nil, err
	}
	return s.renderer.Markup(kind, data)
}

// load fetches the collections kind needs and rejects reports with nothing to show.
func (s *reportService) load(ctx context.Context, kind report.Kind) (report.Data, error) {
	var (
		data report.Data
		err  error
	)
	if kind == report.KindUsers || kind == report.KindComprehensive {
		if data.Users, err = s.users.ListAll(ctx); err != nil {
			return report.Data{}, err
		}
	}
	if kind == report.KindItems || kind == report.KindComprehensive {
		if data.Items, err = s.items.ListAll(ctx); err != nil {
			return report.Data{}, err
		}
	}

	switch kind {
	case report.KindUsers:
		if len(data.Users) == 0 {
			return report.Data{}, fmt.Errorf("no users found in the database: %w", domain.ErrNotFound)
		}
	case report.KindItems:
		if len(data.Items) == 0 {
			return report.Data{}, fmt.Errorf("no items found in the database: %w", domain.ErrNotFound)
		}
	case report.KindComprehensive:
		if len(data.Users) == 0 && len(data.Items) == 0 {
			return report.Data{}, fmt.Errorf("no data found in the database: %w", domain.ErrNotFound)
		}
	default:
		return report.Data{}, fmt.Errorf("unknown report %q: %w", kind, domain.ErrInvalid)
	}
	return data, nil
}
