// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package config holds the settings of the wordcount command. Values come
// from struct tag defaults, optionally overridden by a YAML file and then by
// command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config is the complete wordcount command configuration.
type Config struct {
	// LogLevel is a zap level name: debug, info, warn or error.
	LogLevel string        `yaml:"log_level" default:"info"`
	Count    CountConfig   `yaml:"count"`
	Printer  PrinterConfig `yaml:"printer"`
	Queue    QueueConfig   `yaml:"queue"`
}

// CountConfig holds the settings of the count subcommand.
type CountConfig struct {
	Root   string `yaml:"root" default:"."`
	Suffix string `yaml:"suffix" default:".txt"`
	// Workers bounds concurrent file counting; negative means unbounded.
	Workers     int  `yaml:"workers" default:"-1"`
	Top         int  `yaml:"top"`
	MaxLineSize int  `yaml:"max_line_size" default:"1048576"`
	Stats       bool `yaml:"stats"`
}

// PrinterConfig sizes the printer demo: the tray, the users and their
// documents, and the technician's refill interval.
type PrinterConfig struct {
	Paper       int           `yaml:"paper" default:"3"`
	Capacity    int           `yaml:"capacity" default:"5"`
	Users       int           `yaml:"users" default:"2"`
	Documents   int           `yaml:"documents" default:"4"`
	PrintTime   time.Duration `yaml:"print_time" default:"200ms"`
	RefillEvery time.Duration `yaml:"refill_every" default:"1s"`
}

// QueueConfig sizes the queue demo.
type QueueConfig struct {
	Capacity  int `yaml:"capacity" default:"5"`
	Producers int `yaml:"producers" default:"1"`
	Consumers int `yaml:"consumers" default:"1"`
	Items     int `yaml:"items" default:"10"`
}

// Default returns a Config populated from the default tags.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, nil
}

// Load reads the YAML file at path over the defaults. Keys missing from the
// file keep their default values. An empty path yields the defaults alone.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, msg string) {
		if !ok {
			err = multierr.Append(err, errors.New(msg))
		}
	}

	check(c.Count.Suffix != "", "count.suffix must not be empty")
	check(c.Count.Workers != 0, "count.workers must be non-zero")
	check(c.Count.Top >= 0, "count.top must not be negative")
	check(c.Count.MaxLineSize > 0, "count.max_line_size must be positive")

	check(c.Printer.Capacity > 0, "printer.capacity must be positive")
	check(c.Printer.Paper >= 0 && c.Printer.Paper <= c.Printer.Capacity,
		"printer.paper must be between zero and printer.capacity")
	check(c.Printer.Users > 0, "printer.users must be positive")
	check(c.Printer.Documents >= 0, "printer.documents must not be negative")
	check(c.Printer.PrintTime >= 0, "printer.print_time must not be negative")
	check(c.Printer.RefillEvery > 0, "printer.refill_every must be positive")

	check(c.Queue.Capacity > 0, "queue.capacity must be positive")
	check(c.Queue.Producers > 0, "queue.producers must be positive")
	check(c.Queue.Consumers > 0, "queue.consumers must be positive")
	check(c.Queue.Items >= 0, "queue.items must not be negative")
	return err
}
