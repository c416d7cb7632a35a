package repository

import (
	"context"
	"errors"

	"weave/internal/models"

	"gorm.io/gorm"
)

// RequestDirection selects which end of a request a query matches.
type RequestDirection string

const (
	// DirectionSent matches requests where the user is the requester.
	DirectionSent RequestDirection = "sent"
	// DirectionReceived matches requests where the user is the requestee.
	DirectionReceived RequestDirection = "received"
)

// ValidRequestDirection reports whether d is a known direction.
func ValidRequestDirection(d RequestDirection) bool {
	return d == DirectionSent || d == DirectionReceived
}

// RequestRepository defines the interface for request data operations
type RequestRepository interface {
	Create(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, id uint) (*models.Request, error)
	Save(ctx context.Context, request *models.Request) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, userID uint, kind models.RequestType, direction RequestDirection) ([]models.Request, error)
	ListAccepted(ctx context.Context, userID uint, kind models.RequestType, direction RequestDirection) ([]models.Request, error)
	ListTouching(ctx context.Context, userID uint) ([]models.Request, error)
}

// requestRepository implements RequestRepository
type requestRepository struct {
	db *gorm.DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *models.Request) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		// The (requester, requestee) pair is unique at the store level;
		// the second concurrent sender loses with a Conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("a request between these parties already exists", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	var request models.Request
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Request", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

func (r *requestRepository) Save(ctx context.Context, request *models.Request) error {
	if err := r.db.WithContext(ctx).Save(request).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Request{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *requestRepository) List(ctx context.Context, userID uint, kind models.RequestType, direction RequestDirection) ([]models.Request, error) {
	return r.list(ctx, userID, kind, direction, nil)
}

func (r *requestRepository) ListAccepted(ctx context.Context, userID uint, kind models.RequestType, direction RequestDirection) ([]models.Request, error) {
	accepted := models.RequestStatusAccepted
	return r.list(ctx, userID, kind, direction, &accepted)
}

func (r *requestRepository) list(ctx context.Context, userID uint, kind models.RequestType, direction RequestDirection, status *models.RequestStatus) ([]models.Request, error) {
	q := r.db.WithContext(ctx).Model(&models.Request{}).Where("request_type = ?", kind)
	switch direction {
	case DirectionSent:
		q = q.Where("requester_id = ?", userID)
	case DirectionReceived:
		q = q.Where("requestee_id = ?", userID)
	}
	if status != nil {
		q = q.Where("status = ?", *status)
	}

	var requests []models.Request
	if err := q.Order("requested_at DESC").Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *requestRepository) ListTouching(ctx context.Context, userID uint) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.WithContext(ctx).
		Where("requester_id = ? OR requestee_id = ?", userID, userID).
		Find(&requests).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}
