package config

// ExecutionConfig configures the execution gateway's dispatch behavior.
type ExecutionConfig struct {
	// DefaultTimeout is the default per-action timeout, read through
	// GetExecutionTimeout. The gateway does not set it on dispatched actions.
	DefaultTimeout string `yaml:"default_timeout" json:"default_timeout,omitempty"`

	// WorkingDirectory is informational context attached to gateway logs.
	WorkingDirectory string `yaml:"working_directory" json:"working_directory,omitempty"`

	// ActuatorBaseURL is the address of the external actuator the gateway
	// health-preflights before any live dispatch.
	ActuatorBaseURL string `yaml:"actuator_base_url" json:"actuator_base_url,omitempty"`

	// MaxTransportRetries bounds the retry count for actuator HTTP 5xx
	// transport failures.
	MaxTransportRetries int `yaml:"max_transport_retries" json:"max_transport_retries,omitempty"`
}
