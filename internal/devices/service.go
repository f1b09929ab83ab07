package devices

import (
	"context"
	"time"

	"github.com/avisosapp/push-backend/pkg/db/models"
	"github.com/avisosapp/push-backend/pkg/enums"
	pkgerrors "github.com/avisosapp/push-backend/pkg/errors"
)

const (
	defaultDeviceName = "Unknown Device"
	defaultAppVersion = "1.0.0"
)

// Service defines device registry operations.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)
	TouchLastSeen(ctx context.Context, token string) error
	ListForUser(ctx context.Context, userID string) ([]DeviceSummary, error)
	CountActive(ctx context.Context) (int64, error)
}

type service struct {
	repo Repository
}

// RegisterRequest carries the registration payload. A second registration
// with the same device_token replaces the first, uuid mismatch included.
type RegisterRequest struct {
	DeviceToken string  `json:"device_token" validate:"required"`
	UID         *string `json:"uid,omitempty"`
	UUID        string  `json:"uuid" validate:"required"`
	Platform    string  `json:"platform" validate:"required,oneof=android ios web"`
	UserID      string  `json:"user_id" validate:"required"`
	DeviceName  string  `json:"device_name,omitempty"`
	AppVersion  string  `json:"app_version,omitempty"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// RegisterResult reports the stored identity back to the client.
type RegisterResult struct {
	DeviceID    int64  `json:"device_id"`
	DeviceToken string `json:"device_token"`
}

// NewService wires devices dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "devices repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	if req.DeviceToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "device_token required")
	}
	if req.UUID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "uuid required")
	}
	if req.UserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id required")
	}

	platform, err := enums.ParsePlatform(req.Platform)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid platform")
	}

	status := enums.DeviceStatusActive
	if req.Status != "" {
		status, err = enums.ParseDeviceStatus(req.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
	}

	name := req.DeviceName
	if name == "" {
		name = defaultDeviceName
	}
	version := req.AppVersion
	if version == "" {
		version = defaultAppVersion
	}

	now := time.Now().UTC()
	userID := req.UserID
	device := models.Device{
		DeviceToken: req.DeviceToken,
		UID:         req.UID,
		UUID:        req.UUID,
		Platform:    platform,
		UserID:      &userID,
		DeviceName:  name,
		AppVersion:  version,
		Status:      status,
		LastSeen:    now,
		CreatedAt:   now,
	}

	if err := s.repo.Upsert(ctx, &device); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "register device")
	}

	return &RegisterResult{DeviceID: device.ID, DeviceToken: device.DeviceToken}, nil
}

// TouchLastSeen succeeds for unknown tokens: the heartbeat contract is
// deliberately lenient.
func (s *service) TouchLastSeen(ctx context.Context, token string) error {
	if token == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "device_token required")
	}
	if err := s.repo.TouchLastSeen(ctx, token, time.Now().UTC()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStore, err, "update device last seen")
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID string) ([]DeviceSummary, error) {
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id required")
	}
	summaries, err := s.repo.ListActiveForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStore, err, "list user devices")
	}
	return summaries, nil
}

func (s *service) CountActive(ctx context.Context) (int64, error) {
	count, err := s.repo.CountActive(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeStore, err, "count active devices")
	}
	return count, nil
}
