package config

import (
	"strings"

	"github.com/shariqazeem/umanity-social-sub000/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Governance GovernanceConfig `mapstructure:"governance"`
	Task       TaskConfig       `mapstructure:"task"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	Mode         string   `mapstructure:"mode"`
	AllowOrigins []string `mapstructure:"allow_origins"` // 为空时允许所有来源
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig 治理事件通知使用的 Redis
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Stream   string `mapstructure:"stream"` // 事件写入的 Stream 名称
}

// GovernanceConfig 治理参数
type GovernanceConfig struct {
	MinProposalPoints        int64  `mapstructure:"min_proposal_points"`         // 创建提案所需最低积分
	DefaultDurationHours     int    `mapstructure:"default_duration_hours"`      // 普通提案默认投票时长
	FundReleaseDurationHours int    `mapstructure:"fund_release_duration_hours"` // 资金释放提案投票时长
	PointsPerSol             int64  `mapstructure:"points_per_sol"`              // 每 SOL 捐赠获得的积分
	AuthorityAddress         string `mapstructure:"authority_address"`           // 自动提案的发起地址，为空时使用捐赠者地址
}

type TaskConfig struct {
	Interval int `mapstructure:"interval"` // 秒
}

// WorkerConfig 捐赠后续处理协程池
type WorkerConfig struct {
	PoolSize int `mapstructure:"pool_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

// DefaultGovernance 默认治理参数
func DefaultGovernance() GovernanceConfig {
	return GovernanceConfig{
		MinProposalPoints:        100,
		DefaultDurationHours:     72,
		FundReleaseDurationHours: 72,
		PointsPerSol:             1000,
	}
}

// Load 从默认路径加载配置
func Load() *Config {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/umanity")

	if err := v.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	cfg, err := unmarshal(v)
	if err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}
	return cfg
}

// LoadFile 从指定文件加载配置
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	// 设置默认值
	gov := DefaultGovernance()
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "umanity")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "umanity.governance")
	v.SetDefault("governance.min_proposal_points", gov.MinProposalPoints)
	v.SetDefault("governance.default_duration_hours", gov.DefaultDurationHours)
	v.SetDefault("governance.fund_release_duration_hours", gov.FundReleaseDurationHours)
	v.SetDefault("governance.points_per_sol", gov.PointsPerSol)
	v.SetDefault("governance.authority_address", "")
	v.SetDefault("task.interval", 60)
	v.SetDefault("worker.pool_size", 16)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/app.log")

	// 自动读取环境变量，例如 DATABASE_HOST
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
