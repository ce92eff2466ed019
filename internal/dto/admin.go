package dto

// ── 部门 / 排班管理 DTO ──

// CreateDepartmentRequest 创建部门请求
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required,min=2,max=50"`
}

// UpdateDepartmentRequest 更新部门请求
type UpdateDepartmentRequest struct {
	Name *string `json:"name" binding:"omitempty,min=2,max=50"`
}

// CreateScheduleRequest 创建部门排班请求
type CreateScheduleRequest struct {
	DepartmentID int    `json:"department_id" binding:"required,min=1"`
	Name         string `json:"name"          binding:"omitempty,max=50"`
	TimeIn       string `json:"time_in"       binding:"omitempty"`
	TimeOut      string `json:"time_out"      binding:"omitempty"`
	LunchStart   string `json:"lunch_start"   binding:"omitempty"`
	LunchEnd     string `json:"lunch_end"     binding:"omitempty"`
	GraceMinutes int    `json:"grace_minutes" binding:"omitempty,min=0,max=240"`
}

// UpdateScheduleRequest 更新部门排班请求
type UpdateScheduleRequest struct {
	Name         *string `json:"name"          binding:"omitempty,max=50"`
	TimeIn       *string `json:"time_in"`
	TimeOut      *string `json:"time_out"`
	LunchStart   *string `json:"lunch_start"`
	LunchEnd     *string `json:"lunch_end"`
	GraceMinutes *int    `json:"grace_minutes" binding:"omitempty,min=0,max=240"`
}

// CreateUserRequest 创建用户请求
type CreateUserRequest struct {
	FullName     string `json:"full_name"     binding:"required,min=2,max=100"`
	RFID         string `json:"rf_id"         binding:"omitempty,max=64"`
	Email        string `json:"email"         binding:"omitempty,email"`
	Position     string `json:"position"      binding:"omitempty,max=100"`
	DepartmentID *int   `json:"department_id" binding:"omitempty,min=1"`
}

// UpdateUserRequest 更新用户请求
type UpdateUserRequest struct {
	FullName     *string `json:"full_name"     binding:"omitempty,min=2,max=100"`
	RFID         *string `json:"rf_id"         binding:"omitempty,max=64"`
	Email        *string `json:"email"         binding:"omitempty,email"`
	Position     *string `json:"position"      binding:"omitempty,max=100"`
	DepartmentID *int    `json:"department_id" binding:"omitempty,min=1"`
}

// ListUsersRequest 用户列表查询参数（透传为远端等值过滤）
type ListUsersRequest struct {
	ID           int    `form:"id"`
	RFID         string `form:"rf_id"`
	Email        string `form:"email"`
	Position     string `form:"position"`
	DepartmentID int    `form:"department_id"`
}

// ExportLogsRequest 考勤记录导出参数
type ExportLogsRequest struct {
	From   string `form:"from" binding:"required"`
	To     string `form:"to"   binding:"required"`
	UserID int    `form:"user_id"`
}
