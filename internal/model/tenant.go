package model

import "time"

// 调度参数默认值
const (
	DefaultIntervalMinutes = 60
	DefaultStartHour       = 0
	DefaultEndHour         = 23
)

// TenantConfig 一个独立投稿账号的配置,四个凭证字段均以可逆密文存储
type TenantConfig struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	Name                    string    `gorm:"size:255" json:"name"`
	IsActive                bool      `gorm:"default:false" json:"is_active"`
	ScheduleIntervalMinutes int       `json:"schedule_interval_minutes"`
	ScheduleStartHour       int       `json:"schedule_start_hour"`
	ScheduleEndHour         int       `json:"schedule_end_hour"`
	XApiKey                 string    `gorm:"size:500" json:"-"`
	XApiKeySecret           string    `gorm:"size:500" json:"-"`
	XAccessToken            string    `gorm:"size:500" json:"-"`
	XAccessTokenSecret      string    `gorm:"size:500" json:"-"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func (TenantConfig) TableName() string {
	return "twitter_configs"
}

// IntervalMinutes 返回调度间隔,未配置时取默认值
func (c *TenantConfig) IntervalMinutes() int {
	if c.ScheduleIntervalMinutes <= 0 {
		return DefaultIntervalMinutes
	}
	return c.ScheduleIntervalMinutes
}

// StartHour 返回窗口起始小时,未配置时取默认值
func (c *TenantConfig) StartHour() int {
	if c.ScheduleStartHour <= 0 || c.ScheduleStartHour > 23 {
		return DefaultStartHour
	}
	return c.ScheduleStartHour
}

// EndHour 返回窗口结束小时,未配置(零值)时取默认值
func (c *TenantConfig) EndHour() int {
	if c.ScheduleEndHour <= 0 || c.ScheduleEndHour > 23 {
		return DefaultEndHour
	}
	return c.ScheduleEndHour
}
