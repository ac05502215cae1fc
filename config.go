package main

import (
	"github.com/BurntSushi/toml"
)

// Config mirrors the load command's flags so recurring option sets can
// live in a file. Flags given on the command line win; list-valued
// options are appended.
type Config struct {
	Accelerator    []string `toml:"accelerator"`
	NoAcceleration bool     `toml:"no_acceleration"`
	Start          int      `toml:"start"`
	MaxTime        int64    `toml:"max_time"`
	Reg            []string `toml:"reg"`
	State          []string `toml:"state"`
}

func loadConfig(path string) (*Config, error) {
	cfg := &Config{Start: -1}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge folds the file options into the command, without overriding
// anything set explicitly on the command line.
func (c *Config) merge(cmd *Load) {
	cmd.Accelerator = append(c.Accelerator, cmd.Accelerator...)
	cmd.Reg = append(c.Reg, cmd.Reg...)
	cmd.State = append(c.State, cmd.State...)
	if c.NoAcceleration {
		cmd.NoAcceleration = true
	}
	if cmd.Start < 0 && c.Start >= 0 {
		cmd.Start = c.Start
	}
	if cmd.MaxTime == 900 && c.MaxTime > 0 {
		cmd.MaxTime = c.MaxTime
	}
}
