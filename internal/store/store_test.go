package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-satire/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s := NewStore(db)
	require.NoError(t, s.AutoMigrate())
	return s
}

func TestTenantConfigCRUD(t *testing.T) {
	s := newTestStore(t)

	cfg := &model.TenantConfig{
		Name:                    "satire-account",
		IsActive:                true,
		ScheduleIntervalMinutes: 30,
		ScheduleStartHour:       9,
		ScheduleEndHour:         17,
		XApiKey:                 "enc-key",
		XApiKeySecret:           "enc-secret",
	}
	require.NoError(t, s.CreateTenantConfig(cfg))
	require.NotZero(t, cfg.ID)

	got, err := s.GetTenantConfig(cfg.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "satire-account", got.Name)
	assert.Equal(t, 30, got.ScheduleIntervalMinutes)

	require.NoError(t, s.UpdateTenantConfig(cfg.ID, map[string]interface{}{
		"is_active":                 false,
		"schedule_interval_minutes": 15,
	}))

	got, err = s.GetTenantConfig(cfg.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, 15, got.ScheduleIntervalMinutes)

	require.NoError(t, s.DeleteTenantConfig(cfg.ID))
	got, err = s.GetTenantConfig(cfg.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetTenantConfigMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetTenantConfig(999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListActiveTenantConfigs(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreateTenantConfig(&model.TenantConfig{Name: "a", IsActive: true}))
	require.NoError(t, s.CreateTenantConfig(&model.TenantConfig{Name: "b", IsActive: false}))
	require.NoError(t, s.CreateTenantConfig(&model.TenantConfig{Name: "c", IsActive: true}))

	active, err := s.ListActiveTenantConfigs()
	require.NoError(t, err)
	assert.Len(t, active, 2)

	all, err := s.ListTenantConfigs()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	total, activeCount, err := s.CountTenantConfigs()
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.EqualValues(t, 2, activeCount)
}

func TestAppendAndListPostRecords(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.AppendPostRecord(&model.PostRecord{
			ConfigID:      7,
			TweetText:     "Breaking: something happened...",
			ImageURL:      "https://example.com/img.jpg",
			SourceNewsURL: "https://example.com/news",
		}))
	}
	require.NoError(t, s.AppendPostRecord(&model.PostRecord{
		ConfigID:  8,
		TweetText: "other tenant",
	}))

	records, err := s.ListPostRecords(7, 50)
	require.NoError(t, err)
	assert.Len(t, records, 3)
	for _, r := range records {
		assert.EqualValues(t, 7, r.ConfigID)
		assert.False(t, r.PostedAt.IsZero())
	}

	// limit生效
	records, err = s.ListPostRecords(7, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	count, err := s.CountPostRecords()
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)
}
