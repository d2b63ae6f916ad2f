package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
)

// TermService manages academic terms.
type TermService interface {
	List(ctx context.Context) ([]dto.TermResponse, error)
	Get(ctx context.Context, id string) (*dto.TermResponse, error)
	// GetActive returns the term containing today.
	GetActive(ctx context.Context) (*dto.TermResponse, error)
	Create(ctx context.Context, req *dto.CreateTermRequest) (*dto.TermResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTermRequest) (*dto.TermResponse, error)
	Delete(ctx context.Context, id string) error
}

type termService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewTermService creates a TermService.
func NewTermService(repo *repository.Repository, logger *zap.Logger) TermService {
	return &termService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── read ──────────────────────

func (s *termService) List(ctx context.Context) ([]dto.TermResponse, error) {
	terms, err := s.repo.Term.List(ctx)
	if err != nil {
		s.logger.Error("list terms failed", zap.Error(err))
		return nil, err
	}

	day := today(s.now)
	result := make([]dto.TermResponse, 0, len(terms))
	for i := range terms {
		result = append(result, *toTermResponse(&terms[i], day))
	}
	return result, nil
}

func (s *termService) Get(ctx context.Context, id string) (*dto.TermResponse, error) {
	term, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTermResponse(term, today(s.now)), nil
}

func (s *termService) GetActive(ctx context.Context) (*dto.TermResponse, error) {
	day := today(s.now)
	term, err := s.repo.Term.GetActiveAt(ctx, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveTerm
		}
		s.logger.Error("load active term failed", zap.Error(err))
		return nil, err
	}
	return toTermResponse(term, day), nil
}

// ────────────────────── write ──────────────────────

func (s *termService) Create(ctx context.Context, req *dto.CreateTermRequest) (*dto.TermResponse, error) {
	start, end, err := parseTermDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, start, end, ""); err != nil {
		return nil, err
	}

	term := &model.Term{Name: req.Name, StartDate: start, EndDate: end}
	if err := s.repo.Term.Create(ctx, term); err != nil {
		s.logger.Error("create term failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("term created", zap.String("term_id", term.TermID), zap.String("name", term.Name))
	return toTermResponse(term, today(s.now)), nil
}

func (s *termService) Update(ctx context.Context, id string, req *dto.UpdateTermRequest) (*dto.TermResponse, error) {
	term, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	startStr, endStr := formatDate(term.StartDate), formatDate(term.EndDate)
	if req.StartDate != nil {
		startStr = *req.StartDate
	}
	if req.EndDate != nil {
		endStr = *req.EndDate
	}
	start, end, err := parseTermDates(startStr, endStr)
	if err != nil {
		return nil, err
	}
	if err := s.checkOverlap(ctx, start, end, id); err != nil {
		return nil, err
	}

	if req.Name != nil {
		term.Name = *req.Name
	}
	term.StartDate, term.EndDate = start, end

	if err := s.repo.Term.Update(ctx, term); err != nil {
		s.logger.Error("update term failed", zap.String("term_id", id), zap.Error(err))
		return nil, err
	}
	return toTermResponse(term, today(s.now)), nil
}

func (s *termService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Term.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTermNotFound
		}
		s.logger.Error("delete term failed", zap.String("term_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *termService) load(ctx context.Context, id string) (*model.Term, error) {
	term, err := s.repo.Term.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermNotFound
		}
		s.logger.Error("load term failed", zap.String("term_id", id), zap.Error(err))
		return nil, err
	}
	return term, nil
}

func (s *termService) checkOverlap(ctx context.Context, start, end time.Time, excludeID string) error {
	overlapping, err := s.repo.Term.Overlapping(ctx, start, end, excludeID)
	if err != nil {
		s.logger.Error("check term overlap failed", zap.Error(err))
		return err
	}
	if len(overlapping) > 0 {
		return ErrTermOverlap
	}
	return nil
}

func parseTermDates(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fieldError("start_date", "must be a date in YYYY-MM-DD format")
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fieldError("end_date", "must be a date in YYYY-MM-DD format")
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrTermDateInvalid
	}
	return start, end, nil
}
