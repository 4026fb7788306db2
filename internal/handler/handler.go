package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-satire/internal/crypto"
	"go-satire/internal/model"
	"go-satire/internal/scheduler"
	"go-satire/internal/service"
	"go-satire/internal/store"
)

type Handler struct {
	store         *store.Store
	poster        *service.PosterService
	scheduler     *scheduler.Scheduler
	encryptionKey string
}

func NewHandler(s *store.Store, poster *service.PosterService, sched *scheduler.Scheduler, encryptionKey string) *Handler {
	return &Handler{
		store:         s,
		poster:        poster,
		scheduler:     sched,
		encryptionKey: encryptionKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		// 账号配置
		api.GET("/configs", h.ListConfigs)
		api.POST("/configs", h.CreateConfig)
		api.PUT("/configs/:id", h.UpdateConfig)
		api.DELETE("/configs/:id", h.DeleteConfig)
		api.POST("/configs/:id/validate", h.ValidateConfig)

		// 投稿历史
		api.GET("/tweets", h.ListTweets)

		// 调度状态与手动触发
		api.GET("/status", h.GetStatus)
		api.POST("/trigger", h.TriggerCycle)
	}
}

// ConfigRequest 创建/更新账号配置的入参,凭证为明文,入库前加密
type ConfigRequest struct {
	Name                    string `json:"name"`
	IsActive                bool   `json:"is_active"`
	ScheduleIntervalMinutes int    `json:"schedule_interval_minutes"`
	ScheduleStartHour       int    `json:"schedule_start_hour"`
	ScheduleEndHour         int    `json:"schedule_end_hour"`
	XApiKey                 string `json:"x_api_key"`
	XApiKeySecret           string `json:"x_api_key_secret"`
	XAccessToken            string `json:"x_access_token"`
	XAccessTokenSecret      string `json:"x_access_token_secret"`
}

// ===== 配置相关 =====

func (h *Handler) ListConfigs(c *gin.Context) {
	configs, err := h.store.ListTenantConfigs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, configs)
}

func (h *Handler) CreateConfig(c *gin.Context) {
	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config := model.TenantConfig{
		Name:                    req.Name,
		IsActive:                req.IsActive,
		ScheduleIntervalMinutes: req.ScheduleIntervalMinutes,
		ScheduleStartHour:       req.ScheduleStartHour,
		ScheduleEndHour:         req.ScheduleEndHour,
	}

	if err := h.encryptCredentials(&config, &req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.CreateTenantConfig(&config); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 配置修改只通过Upsert生效
	h.scheduler.Upsert(config.ID)

	c.JSON(http.StatusOK, config)
}

func (h *Handler) UpdateConfig(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetTenantConfig(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "config not found"})
		return
	}

	var req ConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":                      req.Name,
		"is_active":                 req.IsActive,
		"schedule_interval_minutes": req.ScheduleIntervalMinutes,
		"schedule_start_hour":       req.ScheduleStartHour,
		"schedule_end_hour":         req.ScheduleEndHour,
	}

	// 凭证字段留空表示不修改
	credentials := map[string]string{
		"x_api_key":             req.XApiKey,
		"x_api_key_secret":      req.XApiKeySecret,
		"x_access_token":        req.XAccessToken,
		"x_access_token_secret": req.XAccessTokenSecret,
	}
	for column, plaintext := range credentials {
		if plaintext == "" {
			continue
		}
		encrypted, err := crypto.EncryptReversible(plaintext, h.encryptionKey)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		updates[column] = encrypted
	}

	if err := h.store.UpdateTenantConfig(id, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.scheduler.Upsert(id)

	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *Handler) DeleteConfig(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.store.DeleteTenantConfig(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.scheduler.Stop(id)

	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *Handler) ValidateConfig(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	config, err := h.store.GetTenantConfig(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if config == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "config not found"})
		return
	}

	result := h.poster.ValidateCredentials(c.Request.Context(), config)
	c.JSON(http.StatusOK, result)
}

// ===== 投稿历史 =====

func (h *Handler) ListTweets(c *gin.Context) {
	configID, err := parseID(c.Query("config_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid config_id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	records, err := h.store.ListPostRecords(configID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

// ===== 调度状态 =====

func (h *Handler) GetStatus(c *gin.Context) {
	totalConfigs, activeConfigs, err := h.store.CountTenantConfigs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	totalTweets, err := h.store.CountPostRecords()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scheduler_running": h.scheduler.IsRunning(),
		"scheduled_configs": h.scheduler.EntryCount(),
		"total_configs":     totalConfigs,
		"active_configs":    activeConfigs,
		"total_tweets":      totalTweets,
	})
}

func (h *Handler) TriggerCycle(c *gin.Context) {
	if err := h.scheduler.TriggerManualCycle(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cycle triggered"})
}

func (h *Handler) encryptCredentials(config *model.TenantConfig, req *ConfigRequest) error {
	var err error
	if config.XApiKey, err = crypto.EncryptReversible(req.XApiKey, h.encryptionKey); err != nil {
		return err
	}
	if config.XApiKeySecret, err = crypto.EncryptReversible(req.XApiKeySecret, h.encryptionKey); err != nil {
		return err
	}
	if config.XAccessToken, err = crypto.EncryptReversible(req.XAccessToken, h.encryptionKey); err != nil {
		return err
	}
	config.XAccessTokenSecret, err = crypto.EncryptReversible(req.XAccessTokenSecret, h.encryptionKey)
	return err
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
