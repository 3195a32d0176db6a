package server

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// ChannelYAML represents one channel entry in a channels config file.
type ChannelYAML struct {
	Name     string `yaml:"name"`
	Public   bool   `yaml:"public,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// ChannelsConfig is the top-level YAML document for channel import/export.
type ChannelsConfig struct {
	Channels []ChannelYAML `yaml:"channels"`
}

// LoadChannelsFromYAML reads a channels YAML file and creates any
// channels it names that do not already exist.
func (s *Server) LoadChannelsFromYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("server: read channels config: %w", err)
	}
	return s.ImportChannelsFromYAML(data)
}

// ImportChannelsFromYAML parses YAML data and ensures each named
// channel exists.
func (s *Server) ImportChannelsFromYAML(data []byte) error {
	var cfg ChannelsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("server: parse channels config: %w", err)
	}

	for _, ch := range cfg.Channels {
		if err := s.channels.EnsureChannel(ch.Name, ch.Public, ch.Password); err != nil {
			slog.Error("failed to create channel from config", "name", ch.Name, "err", err)
			continue
		}
		s.metrics.ChannelsCreatedTotal.Inc()
	}

	slog.Info("imported channels from YAML", "count", len(cfg.Channels))
	return nil
}

// ExportChannelsYAML exports every public channel as YAML.
func (s *Server) ExportChannelsYAML() ([]byte, error) {
	cfg := ChannelsConfig{}
	for _, info := range s.channels.ListPublic() {
		cfg.Channels = append(cfg.Channels, ChannelYAML{Name: info.Name, Public: info.IsPublic})
	}
	return yaml.Marshal(&cfg)
}
