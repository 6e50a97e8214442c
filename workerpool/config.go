package workerpool

import (
	"fmt"

	"github.com/kbukum/restkit/validation"
)

const (
	DefaultName      = "workerpool"
	DefaultWorkers   = 10
	DefaultQueueSize = 100
)

// Config configures a Pool.
type Config struct {
	// Name identifies the pool in logs.
	Name string `yaml:"name" mapstructure:"name"`
	// Workers is the number of goroutines running tasks.
	Workers int `yaml:"workers" mapstructure:"workers" validate:"gte=0"`
	// QueueSize is the number of tasks that may wait for a worker.
	QueueSize int `yaml:"queue_size" mapstructure:"queue_size" validate:"gte=0"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.QueueSize == 0 {
		c.QueueSize = DefaultQueueSize
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("workerpool: %w", err)
	}
	return nil
}
