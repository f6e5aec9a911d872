// Package config provides configuration management for sysmon.
package config

import (
	"time"

	"svckit/internal/logger"
)

// Config is the root configuration structure, loaded from sysmon.json.
type Config struct {
	Agent      AgentConfig                `json:"Agent"`
	Service    ServiceConfig              `json:"Service"`
	SenderType string                     `json:"SenderType"` // "kafka" or "file"
	Kafka      KafkaConfig                `json:"Kafka"`
	File       FileConfig                 `json:"File"`
	Redis      RedisConfig                `json:"Redis"`
	SOCKSProxy SOCKSConfig                `json:"SocksProxy"`
	Collectors map[string]CollectorConfig `json:"Collectors"`
	Logging    logger.Config              `json:"Logging"`
}

// AgentConfig identifies this agent in emitted metrics.
type AgentConfig struct {
	ID       string            `json:"ID"`
	Hostname string            `json:"Hostname"`
	Tags     map[string]string `json:"Tags"`
}

// ServiceConfig describes how sysmon registers itself as an OS service.
type ServiceConfig struct {
	Name        string `json:"Name"`
	DisplayName string `json:"DisplayName"`
	Description string `json:"Description"`
	Username    string `json:"Username"`
	WorkingDir  string `json:"WorkingDir"`
}

// FileConfig contains settings for the file sender.
type FileConfig struct {
	FilePath   string `json:"FilePath"`
	MaxSizeMB  int    `json:"MaxSizeMB"`
	MaxBackups int    `json:"MaxBackups"`
	Console    bool   `json:"Console"`
	Pretty     bool   `json:"Pretty"`
}

// KafkaConfig contains Kafka connection settings.
type KafkaConfig struct {
	Brokers        []string      `json:"Brokers"`
	Topic          string        `json:"Topic"`
	Compression    string        `json:"Compression"`
	RequiredAcks   int           `json:"RequiredAcks"`
	MaxRetries     int           `json:"MaxRetries"`
	RetryBackoff   time.Duration `json:"RetryBackoff"`
	FlushFrequency time.Duration `json:"FlushFrequency"`
	FlushMessages  int           `json:"FlushMessages"`
	BatchSize      int           `json:"BatchSize"`
	Timeout        time.Duration `json:"Timeout"`
	EnableTLS      bool          `json:"EnableTLS"`
	TLSCertFile    string        `json:"TLSCertFile"`
	TLSKeyFile     string        `json:"TLSKeyFile"`
	TLSCAFile      string        `json:"TLSCAFile"`
	SASLEnabled    bool          `json:"SASLEnabled"`
	SASLMechanism  string        `json:"SASLMechanism"`
	SASLUser       string        `json:"SASLUser"`
	SASLPassword   string        `json:"SASLPassword"`
}

// CollectorConfig contains settings for one collector.
type CollectorConfig struct {
	Enabled  bool          `json:"Enabled"`
	Interval time.Duration `json:"Interval"`
}

// RedisConfig contains connection settings for the agent-info lookup.
type RedisConfig struct {
	Address  string `json:"Address"`
	Password string `json:"Password"`
	DB       int    `json:"DB"`
}

// SOCKSConfig contains SOCKS5 proxy settings for broker access from
// isolated networks.
type SOCKSConfig struct {
	Host string `json:"Host"`
	Port int    `json:"Port"`
}

// DefaultServiceName is the identity sysmon registers under when the
// config does not override it.
const DefaultServiceName = "sysmon"

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:        DefaultServiceName,
			DisplayName: "System Monitor",
			Description: "Collects host metrics and ships them to the metrics pipeline",
		},
		SenderType: "file",
		File: FileConfig{
			FilePath:   "log/sysmon/metrics.jsonl",
			MaxSizeMB:  50,
			MaxBackups: 3,
			Console:    false,
			Pretty:     false,
		},
		Kafka: KafkaConfig{
			Brokers:        []string{"localhost:9092"},
			Topic:          "host-metrics",
			Compression:    "snappy",
			RequiredAcks:   1,
			MaxRetries:     3,
			RetryBackoff:   100 * time.Millisecond,
			FlushFrequency: 500 * time.Millisecond,
			FlushMessages:  100,
			BatchSize:      16384,
			Timeout:        10 * time.Second,
		},
		Redis: RedisConfig{
			DB: 10,
		},
		Collectors: map[string]CollectorConfig{
			"cpu":    {Enabled: true, Interval: 10 * time.Second},
			"memory": {Enabled: true, Interval: 10 * time.Second},
			"uptime": {Enabled: true, Interval: time.Minute},
		},
		Logging: logger.DefaultConfig(),
	}
}

// Merge applies non-zero values from other to this config.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Agent.ID != "" {
		c.Agent.ID = other.Agent.ID
	}
	if other.Agent.Hostname != "" {
		c.Agent.Hostname = other.Agent.Hostname
	}
	if len(other.Agent.Tags) > 0 {
		c.Agent.Tags = other.Agent.Tags
	}

	if other.Service.Name != "" {
		c.Service.Name = other.Service.Name
	}
	if other.Service.DisplayName != "" {
		c.Service.DisplayName = other.Service.DisplayName
	}
	if other.Service.Description != "" {
		c.Service.Description = other.Service.Description
	}
	if other.Service.Username != "" {
		c.Service.Username = other.Service.Username
	}
	if other.Service.WorkingDir != "" {
		c.Service.WorkingDir = other.Service.WorkingDir
	}

	if other.SenderType != "" {
		c.SenderType = other.SenderType
	}

	if other.File.FilePath != "" {
		c.File.FilePath = other.File.FilePath
	}
	if other.File.MaxSizeMB != 0 {
		c.File.MaxSizeMB = other.File.MaxSizeMB
	}
	if other.File.MaxBackups != 0 {
		c.File.MaxBackups = other.File.MaxBackups
	}
	c.File.Console = other.File.Console
	c.File.Pretty = other.File.Pretty

	if len(other.Kafka.Brokers) > 0 {
		c.Kafka.Brokers = other.Kafka.Brokers
	}
	if other.Kafka.Topic != "" {
		c.Kafka.Topic = other.Kafka.Topic
	}
	if other.Kafka.Compression != "" {
		c.Kafka.Compression = other.Kafka.Compression
	}
	if other.Kafka.RequiredAcks != 0 {
		c.Kafka.RequiredAcks = other.Kafka.RequiredAcks
	}
	if other.Kafka.MaxRetries != 0 {
		c.Kafka.MaxRetries = other.Kafka.MaxRetries
	}
	if other.Kafka.RetryBackoff != 0 {
		c.Kafka.RetryBackoff = other.Kafka.RetryBackoff
	}
	if other.Kafka.FlushFrequency != 0 {
		c.Kafka.FlushFrequency = other.Kafka.FlushFrequency
	}
	if other.Kafka.FlushMessages != 0 {
		c.Kafka.FlushMessages = other.Kafka.FlushMessages
	}
	if other.Kafka.BatchSize != 0 {
		c.Kafka.BatchSize = other.Kafka.BatchSize
	}
	if other.Kafka.Timeout != 0 {
		c.Kafka.Timeout = other.Kafka.Timeout
	}
	c.Kafka.EnableTLS = other.Kafka.EnableTLS
	if other.Kafka.TLSCertFile != "" {
		c.Kafka.TLSCertFile = other.Kafka.TLSCertFile
	}
	if other.Kafka.TLSKeyFile != "" {
		c.Kafka.TLSKeyFile = other.Kafka.TLSKeyFile
	}
	if other.Kafka.TLSCAFile != "" {
		c.Kafka.TLSCAFile = other.Kafka.TLSCAFile
	}
	c.Kafka.SASLEnabled = other.Kafka.SASLEnabled
	if other.Kafka.SASLMechanism != "" {
		c.Kafka.SASLMechanism = other.Kafka.SASLMechanism
	}
	if other.Kafka.SASLUser != "" {
		c.Kafka.SASLUser = other.Kafka.SASLUser
	}
	if other.Kafka.SASLPassword != "" {
		c.Kafka.SASLPassword = other.Kafka.SASLPassword
	}

	if other.Redis.Address != "" {
		c.Redis.Address = other.Redis.Address
	}
	if other.Redis.Password != "" {
		c.Redis.Password = other.Redis.Password
	}
	if other.Redis.DB != 0 {
		c.Redis.DB = other.Redis.DB
	}

	if other.SOCKSProxy.Host != "" {
		c.SOCKSProxy.Host = other.SOCKSProxy.Host
	}
	if other.SOCKSProxy.Port != 0 {
		c.SOCKSProxy.Port = other.SOCKSProxy.Port
	}

	for name, cc := range other.Collectors {
		if existing, ok := c.Collectors[name]; ok {
			existing.Enabled = cc.Enabled
			if cc.Interval != 0 {
				existing.Interval = cc.Interval
			}
			c.Collectors[name] = existing
		} else {
			c.Collectors[name] = cc
		}
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.FilePath != "" {
		c.Logging.FilePath = other.Logging.FilePath
	}
	if other.Logging.Format != "" {
		c.Logging.Format = other.Logging.Format
	}
	if other.Logging.MaxSizeMB != 0 {
		c.Logging.MaxSizeMB = other.Logging.MaxSizeMB
	}
	if other.Logging.MaxBackups != 0 {
		c.Logging.MaxBackups = other.Logging.MaxBackups
	}
	if other.Logging.MaxAgeDays != 0 {
		c.Logging.MaxAgeDays = other.Logging.MaxAgeDays
	}
}
