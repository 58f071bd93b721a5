package config

import (
	"fmt"
	"time"
)

// WorkflowConfig tunes the verification and cancellation flows.
type WorkflowConfig struct {
	VerifyDelay   string `yaml:"verify_delay"`    // simulated confirmation latency
	MinCodeLength int    `yaml:"min_code_length"` // shortest accepted code
}

// GetVerifyDelay returns the confirmation delay as a duration.
func (c WorkflowConfig) GetVerifyDelay() time.Duration {
	d, err := time.ParseDuration(c.VerifyDelay)
	if err != nil || d < 0 {
		return 1500 * time.Millisecond
	}
	return d
}

// Validate validates the workflow section.
func (c WorkflowConfig) Validate() error {
	if c.VerifyDelay != "" {
		if _, err := time.ParseDuration(c.VerifyDelay); err != nil {
			return fmt.Errorf("invalid workflow.verify_delay %q: %w", c.VerifyDelay, err)
		}
	}
	if c.MinCodeLength < 0 {
		return fmt.Errorf("workflow.min_code_length must not be negative, got %d", c.MinCodeLength)
	}
	return nil
}
