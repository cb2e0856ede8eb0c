package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

var GlobalConfig *Config

// Config 全局配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Agent     AgentConfig     `mapstructure:"agent"`
	Cleaning  CleaningConfig  `mapstructure:"cleaning"`
	Freshness FreshnessConfig `mapstructure:"freshness"`
	Alert     AlertConfig     `mapstructure:"alert"`
	DB        interface{}     // 数据库连接,运行时注入
}

// ServerConfig 服务配置
type ServerConfig struct {
	Name string `mapstructure:"name"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	LogLevel        string `mapstructure:"log_level"`         // SQL日志级别: silent/error/warn/info
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWT   JWTConfig   `mapstructure:"jwt"`
	LDAP  LDAPConfig  `mapstructure:"ldap"`
	Local LocalConfig `mapstructure:"local"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret             string `mapstructure:"secret"`
	AccessTokenExpire  int    `mapstructure:"access_token_expire"`  // 秒
	RefreshTokenExpire int    `mapstructure:"refresh_token_expire"` // 秒
}

// LDAPConfig LDAP配置
type LDAPConfig struct {
	Enabled      bool           `mapstructure:"enabled"`
	Host         string         `mapstructure:"host"`
	Port         int            `mapstructure:"port"`
	UseSSL       bool           `mapstructure:"use_ssl"`
	BindDN       string         `mapstructure:"bind_dn"`
	BindPassword string         `mapstructure:"bind_password"`
	BaseDN       string         `mapstructure:"base_dn"`
	UserFilter   string         `mapstructure:"user_filter"`
	Attributes   LDAPAttributes `mapstructure:"attributes"`
}

// LDAPAttributes LDAP属性映射
type LDAPAttributes struct {
	Username    string `mapstructure:"username"`
	Email       string `mapstructure:"email"`
	DisplayName string `mapstructure:"display_name"`
}

// LocalConfig 本地用户配置
type LocalConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Format   string `mapstructure:"format"` // json, console
	Output   string `mapstructure:"output"` // stdout, file
	FilePath string `mapstructure:"file_path"`
}

// AgentConfig Agent接入配置
type AgentConfig struct {
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	APIPath      string `mapstructure:"api_path"`        // 快照上报路径
	UpdateRateMs int    `mapstructure:"update_rate_ms"`  // 同一主机两次更新的最小间隔(毫秒)
}

// UpdateRate 返回更新限速间隔
func (c *AgentConfig) UpdateRate() time.Duration {
	return time.Duration(c.UpdateRateMs) * time.Millisecond
}

// CleaningConfig 主机清理配置
type CleaningConfig struct {
	CurrentHourRate    int    `mapstructure:"current_hour_rate"`    // 当前主机老化阈值(小时)
	HistoricalHourRate int    `mapstructure:"historical_hour_rate"` // 历史主机保留阈值(小时)
	CurrentCron        string `mapstructure:"current_cron"`         // 当前主机老化任务
	HistoricalCron     string `mapstructure:"historical_cron"`      // 历史主机清理任务
}

// FreshnessConfig 数据新鲜度检查配置
type FreshnessConfig struct {
	ThresholdDays int    `mapstructure:"threshold_days"` // 超过该天数未上报则告警
	Cron          string `mapstructure:"cron"`
}

// AlertConfig 告警通知配置
type AlertConfig struct {
	Mail MailConfig `mapstructure:"mail"`
}

// MailConfig 邮件通知配置
type MailConfig struct {
	Enabled  bool       `mapstructure:"enabled"`
	Severity string     `mapstructure:"severity"` // 通知阈值: NOTICE/MINOR/WARNING/MAJOR/CRITICAL
	From     string     `mapstructure:"from"`
	To       []string   `mapstructure:"to"`
	SMTP     SMTPConfig `mapstructure:"smtp"`
}

// SMTPConfig SMTP服务器配置
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// 设置配置文件路径
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// 读取环境变量
	v.AutomaticEnv()

	// 默认值
	v.SetDefault("agent.api_path", "/agent/update")
	v.SetDefault("agent.update_rate_ms", 60000)
	v.SetDefault("cleaning.current_hour_rate", 360)
	v.SetDefault("cleaning.historical_hour_rate", 720)
	v.SetDefault("cleaning.current_cron", "0 0 3 * * *")
	v.SetDefault("cleaning.historical_cron", "0 30 3 * * *")
	v.SetDefault("freshness.threshold_days", 7)
	v.SetDefault("freshness.cron", "0 0 7 * * *")
	v.SetDefault("alert.mail.severity", "MAJOR")

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	// 解析配置
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// 设置全局配置
	GlobalConfig = config

	return config, nil
}

// GetDSN 获取数据库DSN
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}
