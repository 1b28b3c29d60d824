package score

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aksamedia/aksamedia-admin/pkg/logger"
	"github.com/aksamedia/aksamedia-admin/pkg/metrics"
)

const (
	ReportRT = "rt"
	ReportST = "st"
)

// Service computes the score reports from a Source. Reports are recomputed on every call.
type Service struct {
	src    Source
	log    logger.Logger
	tracer trace.Tracer
}

type Option func(*Service)

func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

func NewService(src Source, opts ...Option) *Service {
	s := &Service{
		src:    src,
		log:    logger.Discard(),
		tracer: otel.Tracer("aksamedia-admin/score"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CategoryProfiles builds the RT report for an assessment batch.
func (s *Service) CategoryProfiles(ctx context.Context, assessmentID int) ([]CategoryProfile, error) {
	var out []CategoryProfile
	err := s.run(ctx, ReportRT, assessmentID, func(records []Record) int {
		out = CategoryProfiles(assessmentID, records)
		return len(out)
	})
	return out, err
}

// CompositeScores builds the ST report for an assessment batch.
func (s *Service) CompositeScores(ctx context.Context, assessmentID int) ([]CompositeScore, error) {
	var out []CompositeScore
	err := s.run(ctx, ReportST, assessmentID, func(records []Record) int {
		out = CompositeScores(assessmentID, records)
		return len(out)
	})
	return out, err
}

func (s *Service) run(ctx context.Context, report string, assessmentID int, fold func([]Record) int) error {
	ctx, span := s.tracer.Start(ctx, "score.Service."+report,
		trace.WithAttributes(
			attribute.String("report", report),
			attribute.Int("assessment_id", assessmentID),
		))
	defer span.End()

	start := time.Now()
	records, err := s.src.RecordsForAssessment(ctx, assessmentID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch records")
		metrics.RecordReportError(report)
		s.log.Error(ctx, "fetch score records",
			logger.String("report", report), logger.Int("assessment_id", assessmentID), logger.Error(err))
		return fmt.Errorf("%w: %w", ErrDataSource, err)
	}

	rows := fold(records)
	span.SetAttributes(attribute.Int("records", len(records)), attribute.Int("rows", rows))
	metrics.RecordReport(report, rows, time.Since(start).Seconds())
	s.log.Debug(ctx, "score report computed",
		logger.String("report", report), logger.Int("records", len(records)), logger.Int("rows", rows))
	return nil
}
