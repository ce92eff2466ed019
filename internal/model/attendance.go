package model

// AttendanceLog 考勤记录 — 每 (user_id, log_date) 至多一条。
// 六个时间槽随当天事件逐个填充，合并写入时不得覆盖无关槽位。
type AttendanceLog struct {
	// ID 后端记录标识；复合键后端可能没有（为空串）
	ID           string `json:"id,omitempty"`
	UserID       int    `json:"user_id"`
	LogDate      string `json:"log_date"`
	DepartmentID *int   `json:"department_id,omitempty"`
	Status       Status `json:"status"`

	TimeIn     string `json:"time_in,omitempty"`
	TimeOut    string `json:"time_out,omitempty"`
	LunchStart string `json:"lunch_start,omitempty"`
	LunchEnd   string `json:"lunch_end,omitempty"`
	BreakStart string `json:"break_start,omitempty"`
	BreakEnd   string `json:"break_end,omitempty"`

	// CreatedAt 首次创建时设置，后续更新不得回写
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// SetSlot 按逻辑字段名填充时间槽
func (l *AttendanceLog) SetSlot(field, value string) {
	switch field {
	case "timeOut":
		l.TimeOut = value
	case "lunchStart":
		l.LunchStart = value
	case "lunchEnd":
		l.LunchEnd = value
	case "breakStart":
		l.BreakStart = value
	case "breakEnd":
		l.BreakEnd = value
	default:
		l.TimeIn = value
	}
}

// Slot 按逻辑字段名读取时间槽
func (l *AttendanceLog) Slot(field string) string {
	switch field {
	case "timeOut":
		return l.TimeOut
	case "lunchStart":
		return l.LunchStart
	case "lunchEnd":
		return l.LunchEnd
	case "breakStart":
		return l.BreakStart
	case "breakEnd":
		return l.BreakEnd
	default:
		return l.TimeIn
	}
}

// User 用户（外部实体，读多写少）
type User struct {
	ID           int    `json:"id"`
	RFID         string `json:"rf_id,omitempty"`
	FullName     string `json:"full_name,omitempty"`
	Email        string `json:"email,omitempty"`
	Position     string `json:"position,omitempty"`
	DepartmentID *int   `json:"department_id,omitempty"`
	// DepartmentName 某些后端变体只在用户上带部门名而非外键
	DepartmentName string `json:"department_name,omitempty"`
}

// Department 部门（外部实体）
type Department struct {
	ID        int        `json:"id"`
	Name      string     `json:"name"`
	Schedules []Schedule `json:"schedules,omitempty"`
	CreatedAt string     `json:"created_at,omitempty"`
	UpdatedAt string     `json:"updated_at,omitempty"`
}

// Schedule 部门排班 — 管理员编辑的单例配置，非事件累积记录
type Schedule struct {
	ID           int    `json:"id"`
	DepartmentID int    `json:"department_id"`
	Name         string `json:"name,omitempty"`
	TimeIn       string `json:"time_in,omitempty"`
	TimeOut      string `json:"time_out,omitempty"`
	LunchStart   string `json:"lunch_start,omitempty"`
	LunchEnd     string `json:"lunch_end,omitempty"`
	// GraceMinutes 迟到宽限（分钟）
	GraceMinutes int    `json:"grace_minutes,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}
