package telemetry

// Config holds OpenTelemetry tracing settings.
type Config struct {
	Enabled bool

	// ServiceName is reported as service.name on every span.
	ServiceName    string
	ServiceVersion string

	// Endpoint is the OTLP gRPC collector address, e.g. "localhost:4317".
	Endpoint string
	Insecure bool

	// SampleRate in [0, 1]. 1 samples every trace.
	SampleRate float64

	// Deployment tags the resource, e.g. with the data source and state
	// backend, so traces of differently backed trackers can be told apart.
	Deployment map[string]string
}

func DefaultConfig() Config {
	return Config{
		ServiceName:    "dsomm",
		ServiceVersion: "dev",
		Endpoint:       "localhost:4317",
		Insecure:       true,
		SampleRate:     1.0,
	}
}

// DeploymentTags names the data source and state backend of a tracker.
func DeploymentTags(source, stateBackend string) map[string]string {
	return map[string]string{
		"dsomm.data.source":   source,
		"dsomm.state.backend": stateBackend,
	}
}
