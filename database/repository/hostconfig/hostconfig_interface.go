package hostconfigRepo

import "slotwise/models"

// HostConfigRepository persists one scheduling configuration per host.
type HostConfigRepository interface {
	GetByHostID(hostID string) (*models.HostConfig, error)
	Create(cfg *models.HostConfig) error
	Update(cfg *models.HostConfig) error
	Delete(hostID string) error
}
