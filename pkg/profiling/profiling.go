package profiling

import (
	"fmt"
	"strings"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/inkspire/inkspire-client/config"
	"github.com/inkspire/inkspire-client/pkg/logger"
	"go.uber.org/zap"
)

var defaultProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileGoroutines,
}

var profileTypeMap = map[string][]pyroscope.ProfileType{
	"cpu":           {pyroscope.ProfileCPU},
	"alloc_space":   {pyroscope.ProfileAllocSpace},
	"alloc_objects": {pyroscope.ProfileAllocObjects},
	"goroutines":    {pyroscope.ProfileGoroutines},
	"mutex":         {pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration},
	"block":         {pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration},
}

// Start begins continuous profiling of the local front end.
// The returned stop function is safe to call when profiling is disabled.
func Start(cfg config.ProfilingConfig, version, profile, environment string) (func(), error) {
	if !cfg.Enabled {
		logger.Debug("Continuous profiling disabled")
		return func() {}, nil
	}

	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("profiling endpoint is required when profiling is enabled")
	}
	interval := cfg.UploadIntervalSeconds
	if interval <= 0 {
		interval = 15
	}

	profileTypes, err := parseProfileTypes(cfg.SampleTypes)
	if err != nil {
		return nil, err
	}

	applicationName := applicationName(cfg.AppName, environment, version, profile)

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: applicationName,
		ServerAddress:   endpoint,
		UploadRate:      time.Duration(interval) * time.Second,
		ProfileTypes:    profileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}

	logger.Info("Continuous profiling started",
		zap.String("application_name", applicationName),
		zap.String("endpoint", endpoint),
		zap.Int("upload_interval_seconds", interval),
	)

	return func() {
		if stopErr := profiler.Stop(); stopErr != nil {
			logger.Warn("Failed to stop profiler", zap.Error(stopErr))
		}
	}, nil
}

func parseProfileTypes(value string) ([]pyroscope.ProfileType, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultProfileTypes, nil
	}

	var types []pyroscope.ProfileType
	seen := map[pyroscope.ProfileType]bool{}

	for _, raw := range strings.Split(value, ",") {
		key := strings.ToLower(strings.TrimSpace(raw))
		if key == "" {
			continue
		}
		mapped, ok := profileTypeMap[key]
		if !ok {
			return nil, fmt.Errorf("unsupported O11Y_PROFILING_SAMPLE_TYPES value: %q", key)
		}
		for _, t := range mapped {
			if !seen[t] {
				types = append(types, t)
				seen[t] = true
			}
		}
	}

	if len(types) == 0 {
		return defaultProfileTypes, nil
	}
	return types, nil
}

// applicationName renders the pyroscope name with its static tags,
// e.g. inkspire-client{environment=production,service_version=1.0.0,profile=default}
func applicationName(base, environment, version, profile string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "inkspire-client"
	}
	return fmt.Sprintf("%s{environment=%s,service_version=%s,profile=%s}", base, environment, version, profile)
}
