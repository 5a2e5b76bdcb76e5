package config

type Otel struct {
	ServiceName   string  `env:"OTEL_SERVICE_NAME" envDefault:"inventory-service"`
	CollectorURL  string  `env:"OTEL_COLLECTOR_URL"`
	Insecure      bool    `env:"OTEL_INSECURE"`
	TraceIDRatio  float64 `env:"OTEL_TRACE_ID_RATIO" envDefault:"0.1"`
	CollectorAuth string  `env:"OTEL_COLLECTOR_AUTH"`

	K8sPodName   string `env:"K8S_POD_NAME"`
	K8sNamespace string `env:"K8S_NAMESPACE"`
}

// TracingEnabled reports whether spans are exported. Without a collector the
// service only propagates trace context.
func (o Otel) TracingEnabled() bool {
	return o.CollectorURL != ""
}
