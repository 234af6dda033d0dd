package config

// ProviderConfig holds credentials and defaults for one LLM backend used to
// generate daily questions.
type ProviderConfig struct {
	Name         string                 `mapstructure:"name"`
	APIKey       string                 `mapstructure:"api_key"`
	BaseURL      string                 `mapstructure:"base_url"`
	DefaultModel string                 `mapstructure:"default_model"`
	Region       string                 `mapstructure:"region"`
	Options      map[string]interface{} `mapstructure:"options"`
}

// ProvidersConfig represents the configuration for all providers
type ProvidersConfig struct {
	Providers map[string]ProviderConfig `mapstructure:"providers"`
}

func (p ProvidersConfig) Get(name string) (ProviderConfig, bool) {
	if p.Providers == nil {
		return ProviderConfig{}, false
	}
	cfg, ok := p.Providers[name]
	return cfg, ok
}
