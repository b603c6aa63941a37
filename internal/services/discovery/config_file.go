package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/autobrr/sweeparr/internal/types"
)

// ConfigFile represents the structure of the external configuration file
type ConfigFile struct {
	Services map[string][]ServiceConfig `json:"services" yaml:"services"`
}

// ServiceConfig represents one backend in the external file
type ServiceConfig struct {
	URL         string `json:"url" yaml:"url"`
	APIKey      string `json:"apikey" yaml:"apikey"`
	DisplayName string `json:"name,omitempty" yaml:"name,omitempty"`
}

// FileDiscovery reads backend endpoints from a YAML or JSON file
type FileDiscovery struct {
	path string
}

// NewFileDiscovery creates a file-based discoverer
func NewFileDiscovery(path string) *FileDiscovery {
	return &FileDiscovery{path: path}
}

// DiscoverServices imports backend endpoints from the configured file
func (f *FileDiscovery) DiscoverServices(_ context.Context) ([]types.BackendEndpoint, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config ConfigFile

	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported file format: %s", filepath.Ext(f.path))
	}

	var endpoints []types.BackendEndpoint

	for serviceType, configs := range config.Services {
		for _, cfg := range configs {
			// Handle environment variable substitution in API key
			apiKey := cfg.APIKey
			if strings.HasPrefix(apiKey, "${") && strings.HasSuffix(apiKey, "}") {
				envVar := strings.TrimSuffix(strings.TrimPrefix(apiKey, "${"), "}")
				apiKey = os.Getenv(envVar)
				if apiKey == "" {
					return nil, fmt.Errorf("environment variable %s not set for API key", envVar)
				}
			}

			endpoints = append(endpoints, types.BackendEndpoint{
				Type:        serviceType,
				DisplayName: cfg.DisplayName,
				URL:         cfg.URL,
				APIKey:      apiKey,
			})
		}
	}

	return endpoints, nil
}

// Close implements ServiceDiscoverer; a file discoverer holds no resources
func (f *FileDiscovery) Close() error {
	return nil
}
