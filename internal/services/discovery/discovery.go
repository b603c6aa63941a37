package discovery

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/autobrr/sweeparr/internal/types"
)

// ServiceDiscoverer defines the interface for backend discovery
// implementations
type ServiceDiscoverer interface {
	// DiscoverServices finds and returns backend endpoints
	DiscoverServices(ctx context.Context) ([]types.BackendEndpoint, error)
	// Close cleans up any resources used by the discoverer
	Close() error
}

// Manager handles multiple service discovery methods
type Manager struct {
	discoverers []ServiceDiscoverer
}

// NewManager creates a discovery manager. configFile may be empty, in which
// case only Docker-label discovery is attempted.
func NewManager(configFile string) (*Manager, error) {
	var discoverers []ServiceDiscoverer

	if docker, err := NewDockerDiscovery(); err == nil {
		discoverers = append(discoverers, docker)
	}

	if configFile != "" {
		discoverers = append(discoverers, NewFileDiscovery(configFile))
	}

	if len(discoverers) == 0 {
		return nil, fmt.Errorf("no service discovery methods available")
	}

	return &Manager{
		discoverers: discoverers,
	}, nil
}

// DiscoverAll finds backends using all available discovery methods
func (m *Manager) DiscoverAll(ctx context.Context) ([]types.BackendEndpoint, error) {
	var all []types.BackendEndpoint

	for _, discoverer := range m.discoverers {
		endpoints, err := discoverer.DiscoverServices(ctx)
		if err != nil {
			// Keep going; one misbehaving discoverer should not hide the rest
			log.Warn().Err(err).Msg("Service discovery error")
			continue
		}
		all = append(all, endpoints...)
	}

	return all, nil
}

// Close cleans up all discoverers
func (m *Manager) Close() error {
	var lastErr error
	for _, discoverer := range m.discoverers {
		if err := discoverer.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// ValidateEndpoint checks if a discovered backend endpoint is usable
func ValidateEndpoint(endpoint types.BackendEndpoint) error {
	if endpoint.Type != "sonarr" && endpoint.Type != "radarr" {
		return fmt.Errorf("unsupported service type: %q", endpoint.Type)
	}
	if endpoint.URL == "" {
		return fmt.Errorf("URL is required")
	}
	if endpoint.APIKey == "" {
		return fmt.Errorf("API key is required")
	}
	return nil
}
