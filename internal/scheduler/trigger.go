package scheduler

import (
	"fmt"
	"time"

	"go-satire/internal/model"
)

// Trigger 由租户调度参数推导出的结构化触发规则,实现cron.Schedule
// 不使用cron表达式字符串,规则在注册时一次性算好
type Trigger struct {
	// Minutes 每小时内的触发分钟,已排序
	Minutes []int
	// 小时窗口,含两端
	StartHour int
	EndHour   int
	// HourStep 大于0时为多小时档:每HourStep小时的0分触发,忽略小时窗口
	HourStep int
}

// DeriveTrigger 按间隔和小时窗口推导触发规则
//
//	60分钟        -> 窗口内每小时0分
//	30分钟        -> 窗口内每小时{0,30}分
//	15分钟        -> 窗口内每小时{0,15,30,45}分
//	其他小于60    -> 窗口内每小时interval的整数倍分钟(不整除60时为近似值)
//	大于等于60    -> 每floor(interval/60)小时的0分,全天(已知的不对称行为)
func DeriveTrigger(config *model.TenantConfig) (Trigger, error) {
	interval := config.IntervalMinutes()
	startHour := config.StartHour()
	endHour := config.EndHour()

	if startHour > endHour {
		return Trigger{}, fmt.Errorf("invalid schedule window: start hour %d after end hour %d", startHour, endHour)
	}

	t := Trigger{StartHour: startHour, EndHour: endHour}

	switch {
	case interval == 60:
		t.Minutes = []int{0}
	case interval == 30:
		t.Minutes = []int{0, 30}
	case interval == 15:
		t.Minutes = []int{0, 15, 30, 45}
	case interval < 60:
		for m := 0; m < 60; m += interval {
			t.Minutes = append(t.Minutes, m)
		}
	default:
		t.Minutes = []int{0}
		t.HourStep = interval / 60
	}

	return t, nil
}

// Next 返回from之后最近的一次触发时间,供cron调度器使用
func (t Trigger) Next(from time.Time) time.Time {
	// 逐分钟扫描,最长触发间隔不超过一天,48小时内必有结果
	candidate := from.Truncate(time.Minute).Add(time.Minute)
	limit := candidate.Add(48 * time.Hour)

	for ; candidate.Before(limit); candidate = candidate.Add(time.Minute) {
		if t.matches(candidate.Hour(), candidate.Minute()) {
			return candidate
		}
	}

	return time.Time{}
}

func (t Trigger) matches(hour, minute int) bool {
	if t.HourStep > 0 {
		return hour%t.HourStep == 0 && minute == 0
	}

	if hour < t.StartHour || hour > t.EndHour {
		return false
	}
	for _, m := range t.Minutes {
		if minute == m {
			return true
		}
	}
	return false
}
