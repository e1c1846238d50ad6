package temporalx

import (
	"strings"
	"time"

	"github.com/yungbote/moonshill-backend/internal/platform/envutil"
)

type Config struct {
	Address   string `yaml:"address"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"task_queue"`

	ClientCertPath string `yaml:"client_cert_path"`
	ClientKeyPath  string `yaml:"client_key_path"`
	ClientCAPath   string `yaml:"client_ca_path"`

	DialTimeout time.Duration `yaml:"dial_timeout"`
	DialMaxWait time.Duration `yaml:"dial_max_wait"`

	AutoRegisterNamespace bool `yaml:"auto_register_namespace"`
	RetentionDays         int  `yaml:"retention_days"`

	// TickWorkflowID names the single cron workflow that drives batches.
	TickWorkflowID string `yaml:"tick_workflow_id"`
	// TickSchedule is a Temporal cron expression, e.g. "@every 60s".
	TickSchedule string `yaml:"tick_schedule"`
	// Concurrency bounds activity and workflow task slots on the worker.
	Concurrency int `yaml:"concurrency"`
}

func DefaultConfig() Config {
	return Config{
		Namespace:      "moonshill",
		TaskQueue:      "moonshill",
		DialTimeout:    5 * time.Second,
		DialMaxWait:    60 * time.Second,
		RetentionDays:  7,
		TickWorkflowID: "moonshill-campaign-tick",
		TickSchedule:   "@every 60s",
		Concurrency:    4,
	}
}

// LoadConfig is DefaultConfig with environment overrides.
func LoadConfig() Config {
	return DefaultConfig().FromEnv()
}

// FromEnv overrides c with any TEMPORAL_* variables that are set.
func (c Config) FromEnv() Config {
	c.Address = envutil.String("TEMPORAL_ADDRESS", c.Address)
	c.Namespace = envutil.String("TEMPORAL_NAMESPACE", c.Namespace)
	c.TaskQueue = envutil.String("TEMPORAL_TASK_QUEUE", c.TaskQueue)

	c.ClientCertPath = envutil.String("TEMPORAL_CLIENT_CERT_PATH", c.ClientCertPath)
	c.ClientKeyPath = envutil.String("TEMPORAL_CLIENT_KEY_PATH", c.ClientKeyPath)
	c.ClientCAPath = envutil.String("TEMPORAL_CLIENT_CA_PATH", c.ClientCAPath)

	c.DialTimeout = envutil.Duration("TEMPORAL_DIAL_TIMEOUT_SECONDS", c.DialTimeout, time.Second)
	c.DialMaxWait = envutil.Duration("TEMPORAL_DIAL_MAX_WAIT_SECONDS", c.DialMaxWait, time.Second)

	c.AutoRegisterNamespace = envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", c.AutoRegisterNamespace)
	c.RetentionDays = envutil.Int("TEMPORAL_NAMESPACE_RETENTION_DAYS", c.RetentionDays)

	c.TickWorkflowID = envutil.String("TEMPORAL_TICK_WORKFLOW_ID", c.TickWorkflowID)
	c.TickSchedule = envutil.String("TEMPORAL_TICK_SCHEDULE", c.TickSchedule)
	c.Concurrency = envutil.Int("TEMPORAL_WORKER_CONCURRENCY", c.Concurrency)
	return c
}

// Enabled reports whether a Temporal frontend is configured.
func (c Config) Enabled() bool { return strings.TrimSpace(c.Address) != "" }

func (c Config) hasTLS() bool {
	return c.ClientCertPath != "" || c.ClientKeyPath != "" || c.ClientCAPath != ""
}
