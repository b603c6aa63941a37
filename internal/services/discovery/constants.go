package discovery

const (
	// labelPrefix is the common prefix for all sweeparr service labels
	labelPrefix = "com.sweeparr.service"

	// Common label suffixes
	labelTypeKey    = "type"    // Service type (radarr or sonarr)
	labelURLKey     = "url"     // Service URL
	labelAPIKeyKey  = "apikey"  // Service API key
	labelNameKey    = "name"    // Optional display name override
	labelEnabledKey = "enabled" // Optional service enabled state
)

// GetLabelKey returns the full label key for a given suffix
func GetLabelKey(suffix string) string {
	return labelPrefix + "." + suffix
}
