package launchrecord

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/primis-labs/primis-backend/dao/model"
	"github.com/primis-labs/primis-backend/pkg/logutils"
	"github.com/primis-labs/primis-backend/pkg/models"
)

// DBService is the audit trail of instance lifecycle operations.
type DBService interface {
	RecordLaunch(ctx context.Context, actor string, cfg models.LaunchConfig, inst *models.Instance, opErr error) error
	RecordAction(ctx context.Context, actor string, action model.LaunchAction, provider, instanceID string, opErr error) error
	List(ctx context.Context, provider string, limit int) ([]model.LaunchRecord, error)
}

type service struct {
	db *gorm.DB
}

func NewDBService(db *gorm.DB) DBService {
	return &service{db: db}
}

func (s *service) RecordLaunch(ctx context.Context, actor string, cfg models.LaunchConfig, inst *models.Instance, opErr error) error {
	rec := model.LaunchRecord{
		RequestID: uuid.NewString(),
		Actor:     actor,
		Action:    model.ActionLaunch,
		GPUType:   cfg.GPUType,
		Succeeded: opErr == nil,
	}
	if inst != nil {
		rec.Provider = inst.Provider
		rec.InstanceID = inst.ID
	}
	if opErr != nil {
		rec.Message = opErr.Error()
	}
	if raw, err := json.Marshal(cfg); err == nil {
		rec.Config = datatypes.JSON(raw)
	}
	return s.create(ctx, &rec)
}

func (s *service) RecordAction(ctx context.Context, actor string, action model.LaunchAction,
	provider, instanceID string, opErr error) error {
	rec := model.LaunchRecord{
		RequestID:  uuid.NewString(),
		Actor:      actor,
		Action:     action,
		Provider:   provider,
		InstanceID: instanceID,
		Succeeded:  opErr == nil,
	}
	if opErr != nil {
		rec.Message = opErr.Error()
	}
	return s.create(ctx, &rec)
}

func (s *service) create(ctx context.Context, rec *model.LaunchRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		logutils.Log.Errorf("launch audit write failed: %v", err)
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context, provider string, limit int) ([]model.LaunchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	q := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if provider != "" {
		q = q.Where("provider = ?", provider)
	}
	var records []model.LaunchRecord
	err := q.Find(&records).Error
	return records, err
}
