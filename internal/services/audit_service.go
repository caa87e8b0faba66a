package services

import (
	"encoding/json"

	"github.com/xnftlabs/backend/internal/models"
	"gorm.io/gorm"
)

// AuditService writes one protocol event per committed operation, inside the
// operation's own transaction so events never outlive a rollback.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record appends a protocol event to the audit log.
func (s *AuditService) Record(tx *gorm.DB, actor, action, targetType, targetID string, details map[string]interface{}) error {
	detailsJSON := ""
	if details != nil {
		if jsonBytes, err := json.Marshal(details); err == nil {
			detailsJSON = string(jsonBytes)
		}
	}

	entry := &models.AuditLog{
		Actor:      actor,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    detailsJSON,
	}
	return tx.Create(entry).Error
}

// GetRecentEvents retrieves recent protocol events with pagination.
func (s *AuditService) GetRecentEvents(page, limit int, action string) ([]*models.AuditLog, int64, error) {
	var logs []*models.AuditLog
	var total int64

	query := s.db.Model(&models.AuditLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, total, err
}
