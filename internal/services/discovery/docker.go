package discovery

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/rs/zerolog/log"

	"github.com/autobrr/sweeparr/internal/types"
)

// DockerDiscovery finds backends through Docker container labels
type DockerDiscovery struct {
	client *client.Client
}

// NewDockerDiscovery creates a new Docker discovery instance
func NewDockerDiscovery() (*DockerDiscovery, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &DockerDiscovery{
		client: cli,
	}, nil
}

// DiscoverServices finds backends configured via Docker labels
func (d *DockerDiscovery) DiscoverServices(ctx context.Context) ([]types.BackendEndpoint, error) {
	f := filters.NewArgs()
	f.Add("label", GetLabelKey(labelTypeKey))

	containers, err := d.client.ContainerList(ctx, container.ListOptions{
		All:     false,
		Filters: f,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list containers: %w", err)
	}

	var endpoints []types.BackendEndpoint

	for _, container := range containers {
		endpoint, err := d.parseContainerLabels(container.Labels)
		if err != nil {
			log.Warn().
				Err(err).
				Str("container", container.ID[:12]).
				Msg("Failed to parse container labels")
			continue
		}
		if endpoint != nil {
			endpoints = append(endpoints, *endpoint)
		}
	}

	return endpoints, nil
}

// parseContainerLabels extracts a backend endpoint from container labels
func (d *DockerDiscovery) parseContainerLabels(labels map[string]string) (*types.BackendEndpoint, error) {
	serviceType := labels[GetLabelKey(labelTypeKey)]
	if serviceType == "" {
		return nil, fmt.Errorf("service type label not found")
	}

	url := labels[GetLabelKey(labelURLKey)]
	if url == "" {
		return nil, fmt.Errorf("service URL label not found")
	}

	// Handle environment variable substitution in API key
	apiKey := labels[GetLabelKey(labelAPIKeyKey)]
	if strings.HasPrefix(apiKey, "${") && strings.HasSuffix(apiKey, "}") {
		envVar := strings.TrimSuffix(strings.TrimPrefix(apiKey, "${"), "}")
		apiKey = os.Getenv(envVar)
		if apiKey == "" {
			return nil, fmt.Errorf("environment variable %s not set for API key", envVar)
		}
	}

	// Check if the service is explicitly disabled
	if enabled := labels[GetLabelKey(labelEnabledKey)]; enabled == "false" {
		return nil, nil
	}

	displayName := labels[GetLabelKey(labelNameKey)]

	return &types.BackendEndpoint{
		Type:        serviceType,
		DisplayName: displayName,
		URL:         url,
		APIKey:      apiKey,
	}, nil
}

// Close closes the Docker client connection
func (d *DockerDiscovery) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
