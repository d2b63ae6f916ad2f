package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Chafic123/Attendance-Backend/internal/dto"
	"github.com/Chafic123/Attendance-Backend/internal/model"
	"github.com/Chafic123/Attendance-Backend/internal/repository"
)

// InstructorService manages instructor accounts.
type InstructorService interface {
	List(ctx context.Context, req *dto.PaginationRequest) ([]dto.InstructorResponse, int64, error)
	Get(ctx context.Context, id string) (*dto.InstructorResponse, error)
	Create(ctx context.Context, req *dto.CreateInstructorRequest) (*dto.InstructorResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateInstructorRequest) (*dto.InstructorResponse, error)
	Delete(ctx context.Context, id string) error
	// Courses lists the courses the calling instructor teaches.
	Courses(ctx context.Context, actor Actor) ([]dto.CourseResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, req *dto.UpdateProfileRequest) (*dto.InstructorResponse, error)
}

type instructorService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewInstructorService creates an InstructorService.
func NewInstructorService(repo *repository.Repository, logger *zap.Logger) InstructorService {
	return &instructorService{repo: repo, logger: logger}
}

func (s *instructorService) List(ctx context.Context, req *dto.PaginationRequest) ([]dto.InstructorResponse, int64, error) {
	list, total, err := s.repo.Instructor.List(ctx, repository.ListParams{
		Offset: req.GetOffset(),
		Limit:  req.GetPageSize(),
		Search: req.Search,
	})
	if err != nil {
		s.logger.Error("list instructors failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.InstructorResponse, 0, len(list))
	for i := range list {
		result = append(result, *toInstructorResponse(&list[i]))
	}
	return result, total, nil
}

func (s *instructorService) Get(ctx context.Context, id string) (*dto.InstructorResponse, error) {
	inst, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInstructorResponse(inst), nil
}

func (s *instructorService) Create(ctx context.Context, req *dto.CreateInstructorRequest) (*dto.InstructorResponse, error) {
	if err := checkEmailFree(ctx, s.repo, req.Email, ""); err != nil {
		return nil, err
	}
	if err := checkDepartment(ctx, s.repo, req.DepartmentID); err != nil {
		return nil, err
	}

	var inst *model.Instructor
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		user, err := newUser(ctx, tx, req.FirstName, req.LastName, req.Email, req.Password, model.RoleInstructor)
		if err != nil {
			return err
		}
		inst = &model.Instructor{
			UserID:       user.UserID,
			DepartmentID: req.DepartmentID,
			PhoneNumber:  req.PhoneNumber,
		}
		return tx.Instructor.Create(ctx, inst)
	})
	if err != nil {
		s.logger.Error("create instructor failed", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	return s.Get(ctx, inst.InstructorID)
}

func (s *instructorService) Update(ctx context.Context, id string, req *dto.UpdateInstructorRequest) (*dto.InstructorResponse, error) {
	inst, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := checkEmailFree(ctx, s.repo, *req.Email, inst.UserID); err != nil {
			return nil, err
		}
	}
	if req.DepartmentID != nil {
		if err := checkDepartment(ctx, s.repo, req.DepartmentID); err != nil {
			return nil, err
		}
		inst.DepartmentID = req.DepartmentID
	}
	if req.PhoneNumber != nil {
		inst.PhoneNumber = req.PhoneNumber
	}
	applyNames(inst.User, req.FirstName, req.LastName, req.Email)

	if err := s.save(ctx, inst); err != nil {
		s.logger.Error("update instructor failed", zap.String("instructor_id", id), zap.Error(err))
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the instructor's user; course links cascade.
func (s *instructorService) Delete(ctx context.Context, id string) error {
	inst, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.User.Delete(ctx, inst.UserID); err != nil {
		s.logger.Error("delete instructor failed", zap.String("instructor_id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *instructorService) Courses(ctx context.Context, actor Actor) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListByInstructor(ctx, actor.ProfileID)
	if err != nil {
		s.logger.Error("list instructor courses failed", zap.String("instructor_id", actor.ProfileID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *toCourseResponse(&courses[i]))
	}
	return result, nil
}

func (s *instructorService) UpdateProfile(ctx context.Context, actor Actor, req *dto.UpdateProfileRequest) (*dto.InstructorResponse, error) {
	inst, err := s.load(ctx, actor.ProfileID)
	if err != nil {
		return nil, err
	}

	applyNames(inst.User, req.FirstName, req.LastName, nil)
	if req.PhoneNumber != nil {
		inst.PhoneNumber = req.PhoneNumber
	}

	if err := s.save(ctx, inst); err != nil {
		s.logger.Error("update instructor profile failed", zap.String("instructor_id", actor.ProfileID), zap.Error(err))
		return nil, err
	}
	return s.Get(ctx, actor.ProfileID)
}

// ── helpers ──

func (s *instructorService) load(ctx context.Context, id string) (*model.Instructor, error) {
	inst, err := s.repo.Instructor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstructorNotFound
		}
		s.logger.Error("load instructor failed", zap.String("instructor_id", id), zap.Error(err))
		return nil, err
	}
	return inst, nil
}

func (s *instructorService) save(ctx context.Context, inst *model.Instructor) error {
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if inst.User != nil {
			if err := tx.User.Update(ctx, inst.User); err != nil {
				return err
			}
		}
		return tx.Instructor.Update(ctx, inst)
	})
}
