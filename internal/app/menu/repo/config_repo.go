package repo

import (
	"time"

	"cloud.google.com/go/spanner"

	"github.com/murkotick/digital-menu-service/internal/app/menu/domain"
	"github.com/murkotick/digital-menu-service/internal/models/m_config"
)

// ConfigRepo builds operating_configs mutations.
type ConfigRepo struct{}

func NewConfigRepo() *ConfigRepo {
	return &ConfigRepo{}
}

func buildConfigInsertValues(c *domain.OperatingConfig) map[string]interface{} {
	days := c.Days
	if days == nil {
		days = []string{}
	}
	return map[string]interface{}{
		m_config.ColConfigID:          c.ConfigID,
		m_config.ColTenantID:          c.TenantID,
		m_config.ColPhone:             c.Phone,
		m_config.ColOpenTime:          c.OpenTime,
		m_config.ColCloseTime:         c.CloseTime,
		m_config.ColDays:              days,
		m_config.ColSaturdayOpen:      c.SaturdayOpen,
		m_config.ColSaturdayOpenTime:  c.SaturdayOpenTime,
		m_config.ColSaturdayCloseTime: c.SaturdayCloseTime,
		m_config.ColSundayOpen:        c.SundayOpen,
		m_config.ColSundayOpenTime:    c.SundayOpenTime,
		m_config.ColSundayCloseTime:   c.SundayCloseTime,
		m_config.ColUpdatedAt:         c.UpdatedAt.UTC(),
	}
}

func (r *ConfigRepo) InsertMut(c *domain.OperatingConfig) *spanner.Mutation {
	return m_config.InsertMutation(buildConfigInsertValues(c))
}

// buildConfigUpdateValues maps the columns the patch touches, days normalized
// the same way Apply does.
func buildConfigUpdateValues(patch domain.OperatingConfigPatch, now time.Time) map[string]interface{} {
	ct := patch.Changes()
	if !ct.HasChanges() {
		return nil
	}
	applied := patch.Apply(&domain.OperatingConfig{}, now)

	updates := map[string]interface{}{}
	set := func(field, col string, v interface{}) {
		if ct.Dirty(field) {
			updates[col] = v
		}
	}
	set(domain.FieldConfigPhone, m_config.ColPhone, applied.Phone)
	set(domain.FieldConfigOpenTime, m_config.ColOpenTime, applied.OpenTime)
	set(domain.FieldConfigCloseTime, m_config.ColCloseTime, applied.CloseTime)
	set(domain.FieldConfigDays, m_config.ColDays, applied.Days)
	set(domain.FieldConfigSaturdayOpen, m_config.ColSaturdayOpen, applied.SaturdayOpen)
	set(domain.FieldConfigSaturdayOpenTime, m_config.ColSaturdayOpenTime, applied.SaturdayOpenTime)
	set(domain.FieldConfigSaturdayCloseTime, m_config.ColSaturdayCloseTime, applied.SaturdayCloseTime)
	set(domain.FieldConfigSundayOpen, m_config.ColSundayOpen, applied.SundayOpen)
	set(domain.FieldConfigSundayOpenTime, m_config.ColSundayOpenTime, applied.SundayOpenTime)
	set(domain.FieldConfigSundayCloseTime, m_config.ColSundayCloseTime, applied.SundayCloseTime)
	updates[m_config.ColUpdatedAt] = now.UTC()
	return updates
}

// UpdateMut returns nil when the patch is empty.
func (r *ConfigRepo) UpdateMut(configID string, patch domain.OperatingConfigPatch, now time.Time) *spanner.Mutation {
	updates := buildConfigUpdateValues(patch, now)
	if updates == nil {
		return nil
	}
	return m_config.UpdateMutation(configID, updates)
}
