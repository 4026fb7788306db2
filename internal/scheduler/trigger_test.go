package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-satire/internal/model"
)

func TestDeriveTriggerTable(t *testing.T) {
	cases := []struct {
		name      string
		interval  int
		startHour int
		endHour   int
		minutes   []int
		hourStep  int
	}{
		{"hourly", 60, 9, 17, []int{0}, 0},
		{"every 30 minutes", 30, 9, 17, []int{0, 30}, 0},
		{"every 15 minutes", 15, 0, 23, []int{0, 15, 30, 45}, 0},
		{"every 20 minutes", 20, 8, 20, []int{0, 20, 40}, 0},
		{"every 10 minutes", 10, 0, 23, []int{0, 10, 20, 30, 40, 50}, 0},
		{"45 minutes is approximate", 45, 0, 23, []int{0, 45}, 0},
		{"two hours ignores window", 120, 9, 17, []int{0}, 2},
		{"ninety minutes floors to hourly step", 90, 0, 23, []int{0}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			config := &model.TenantConfig{
				ScheduleIntervalMinutes: tc.interval,
				ScheduleStartHour:       tc.startHour,
				ScheduleEndHour:         tc.endHour,
			}
			trigger, err := DeriveTrigger(config)
			require.NoError(t, err)

			assert.Equal(t, tc.minutes, trigger.Minutes)
			assert.Equal(t, tc.hourStep, trigger.HourStep)
			if tc.hourStep == 0 {
				assert.Equal(t, tc.startHour, trigger.StartHour)
				assert.Equal(t, tc.endHour, trigger.EndHour)
			}
		})
	}
}

func TestDeriveTriggerDefaults(t *testing.T) {
	// 缺省参数按每小时、全天处理
	trigger, err := DeriveTrigger(&model.TenantConfig{})
	require.NoError(t, err)

	assert.Equal(t, []int{0}, trigger.Minutes)
	assert.Equal(t, 0, trigger.StartHour)
	assert.Equal(t, 23, trigger.EndHour)
	assert.Equal(t, 0, trigger.HourStep)
}

func TestDeriveTriggerInvalidWindow(t *testing.T) {
	_, err := DeriveTrigger(&model.TenantConfig{
		ScheduleIntervalMinutes: 60,
		ScheduleStartHour:       18,
		ScheduleEndHour:         9,
	})
	assert.Error(t, err)
}

func TestTriggerNextWithinWindow(t *testing.T) {
	trigger := Trigger{Minutes: []int{0, 30}, StartHour: 9, EndHour: 17}

	from := time.Date(2026, 3, 10, 9, 5, 0, 0, time.UTC)
	next := trigger.Next(from)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC), next)

	// 窗口外触发移到次日窗口起点
	from = time.Date(2026, 3, 10, 17, 45, 0, 0, time.UTC)
	next = trigger.Next(from)
	assert.Equal(t, time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC), next)
}

func TestTriggerNextStrictlyAfter(t *testing.T) {
	trigger := Trigger{Minutes: []int{0}, StartHour: 0, EndHour: 23}

	// 恰好落在触发点上时返回下一个触发点
	from := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	next := trigger.Next(from)
	assert.Equal(t, time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC), next)
}

func TestTriggerNextHourStep(t *testing.T) {
	// interval=120 -> 每2小时0分,全天,不受小时窗口限制
	trigger := Trigger{Minutes: []int{0}, StartHour: 9, EndHour: 17, HourStep: 2}

	from := time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC)
	next := trigger.Next(from)
	assert.Equal(t, time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC), next)

	from = time.Date(2026, 3, 10, 23, 10, 0, 0, time.UTC)
	next = trigger.Next(from)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), next)
}

func TestTriggerNextSequence(t *testing.T) {
	// 连续取触发点应严格递增且分钟落在规则集内
	config := &model.TenantConfig{ScheduleIntervalMinutes: 15, ScheduleStartHour: 9, ScheduleEndHour: 10}
	trigger, err := DeriveTrigger(config)
	require.NoError(t, err)

	current := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		next := trigger.Next(current)
		require.True(t, next.After(current))
		assert.Contains(t, []int{0, 15, 30, 45}, next.Minute())
		assert.GreaterOrEqual(t, next.Hour(), 9)
		assert.LessOrEqual(t, next.Hour(), 10)
		current = next
	}
}
