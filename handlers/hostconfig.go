package handlers

import (
	"errors"
	"net/http"
	"time"

	hostconfigRepo "slotwise/database/repository/hostconfig"
	"slotwise/models"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HostConfigHandler exposes CRUD for host scheduling configurations.
type HostConfigHandler struct {
	Repo hostconfigRepo.HostConfigRepository
}

func NewHostConfigHandler(repo hostconfigRepo.HostConfigRepository) *HostConfigHandler {
	return &HostConfigHandler{Repo: repo}
}

// GetHostConfig handles GET /api/hosts/:hostID.
func (h *HostConfigHandler) GetHostConfig(c *gin.Context) {
	cfg, err := h.Repo.GetByHostID(c.Param("hostID"))
	if err != nil {
		if errors.Is(err, hostconfigRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "host config not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch host config", err.Error())
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// CreateHostConfig handles POST /api/hosts.
func (h *HostConfigHandler) CreateHostConfig(c *gin.Context) {
	var cfg models.HostConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := cfg.Validate(); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid host config", err.Error())
		return
	}

	now := time.Now().UTC()
	cfg.ID = uuid.New().String()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	if err := h.Repo.Create(&cfg); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create host config", err.Error())
		return
	}
	c.JSON(http.StatusCreated, cfg)
}

// UpdateHostConfig handles PUT /api/hosts/:hostID.
func (h *HostConfigHandler) UpdateHostConfig(c *gin.Context) {
	existing, err := h.Repo.GetByHostID(c.Param("hostID"))
	if err != nil {
		if errors.Is(err, hostconfigRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "host config not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch host config", err.Error())
		return
	}

	var cfg models.HostConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	cfg.ID = existing.ID
	cfg.HostID = existing.HostID
	cfg.CreatedAt = existing.CreatedAt
	cfg.UpdatedAt = time.Now().UTC()
	if err := cfg.Validate(); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid host config", err.Error())
		return
	}

	if err := h.Repo.Update(&cfg); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to update host config", err.Error())
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// DeleteHostConfig handles DELETE /api/hosts/:hostID.
func (h *HostConfigHandler) DeleteHostConfig(c *gin.Context) {
	if err := h.Repo.Delete(c.Param("hostID")); err != nil {
		if errors.Is(err, hostconfigRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "host config not found", "")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to delete host config", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}
