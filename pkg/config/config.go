package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type MetricsConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	EnableLatency  bool `mapstructure:"enable_latency"`
	EnableScores   bool `mapstructure:"enable_scores"`
	EnableUpstream bool `mapstructure:"enable_upstream"`
}

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Metrics       MetricsConfig       `mapstructure:"metrics"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Embedding     EmbeddingConfig     `mapstructure:"embedding"`
	Scoring       ScoringConfig       `mapstructure:"scoring"`
	Question      QuestionConfig      `mapstructure:"question"`
	Storage       StorageConfig       `mapstructure:"storage"`
	Transcription TranscriptionConfig `mapstructure:"transcription"`
	Services      ServicesConfig      `mapstructure:"services"`
	Providers     ProvidersConfig     `mapstructure:"providers"`
}

type ServerConfig struct {
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
	SecretKey   string `mapstructure:"secret_key"`
	Host        string `mapstructure:"host"`
	BodyLimitMB int    `mapstructure:"body_limit_mb"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int    `mapstructure:"max_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	TLS      bool   `mapstructure:"tls"`
}

type KafkaConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Topic string `mapstructure:"topic"`
}

// EmbeddingConfig selects the backend that turns text into vectors.
type EmbeddingConfig struct {
	Provider   string        `mapstructure:"provider"`
	Model      string        `mapstructure:"model"`
	Dimensions int           `mapstructure:"dimensions"`
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Region     string        `mapstructure:"region"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
}

// ScoringConfig holds the tunables of the semantic scoring pipeline. It is
// reloaded from disk when config.yaml changes.
type ScoringConfig struct {
	RelevanceThreshold float64 `mapstructure:"relevance_threshold"`
	TopK               int     `mapstructure:"top_k"`
	SigmoidK           float64 `mapstructure:"sigmoid_k"`
	SigmoidX0          float64 `mapstructure:"sigmoid_x0"`
	MaxConcurrency     int     `mapstructure:"max_concurrency"`
}

type QuestionConfig struct {
	Provider         string   `mapstructure:"provider"`
	Model            string   `mapstructure:"model"`
	MaxTokens        int      `mapstructure:"max_tokens"`
	Temperature      float64  `mapstructure:"temperature"`
	FallbackQuestion string   `mapstructure:"fallback_question"`
	FallbackAnswers  []string `mapstructure:"fallback_answers"`
	StoryLimit       int      `mapstructure:"story_limit"`
}

type StorageConfig struct {
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	RoleARN   string `mapstructure:"role_arn"`
	Prefix    string `mapstructure:"prefix"`
}

// TranscriptionConfig points the speech-to-text client at an OpenAI-compatible
// endpoint. An empty api_key falls back to the openai entry in providers.yaml.
type TranscriptionConfig struct {
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	Model    string `mapstructure:"model"`
	Language string `mapstructure:"language"`
}

type ServicesConfig struct {
	UserServiceURL   string        `mapstructure:"user_service_url"`
	VoiceAnalysisURL string        `mapstructure:"voice_analysis_url"`
	StoryServiceURL  string        `mapstructure:"story_service_url"`
	RAGWorkflowURL   string        `mapstructure:"rag_workflow_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

var (
	globalConfig   Config
	providerConfig ProvidersConfig

	watchMu        sync.Mutex
	scoringWatches []func(ScoringConfig)
	reloadLogger   = logrus.StandardLogger()
)

func Load(configPath string) error {
	v, err := loadConfigFile(configPath, "config", &globalConfig, scoringDefaults)
	if err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}

	setDefaultValues(&globalConfig)
	if err := globalConfig.Validate(); err != nil {
		return err
	}

	// providers.yaml is optional; the fallback question path works without it.
	if _, err := loadConfigFile(configPath, "providers", &providerConfig, nil); err == nil {
		globalConfig.Providers = providerConfig
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		reloadScoring(v, e.Name)
	})
	v.WatchConfig()

	return nil
}

// SetLogger sets the logger used to report config reloads.
func SetLogger(logger *logrus.Logger) {
	if logger == nil {
		return
	}
	watchMu.Lock()
	defer watchMu.Unlock()
	reloadLogger = logger
}

// reloadScoring hands a changed scoring section to the watchers. A file that
// does not parse or validate is logged and the running config is kept.
func reloadScoring(v *viper.Viper, file string) {
	watchMu.Lock()
	log := reloadLogger.WithField("file", file)
	watchMu.Unlock()

	var reloaded Config
	if err := v.Unmarshal(&reloaded); err != nil {
		log.WithError(err).Warn("config reload rejected: cannot decode file, keeping current scoring config")
		return
	}
	setDefaultValues(&reloaded)
	if err := reloaded.Scoring.Validate(); err != nil {
		log.WithError(err).Warn("config reload rejected: invalid scoring section, keeping current scoring config")
		return
	}
	notifyScoring(reloaded.Scoring)
}

// Registered as viper defaults; an explicit zero in config.yaml wins.
var scoringDefaults = map[string]interface{}{
	"scoring.relevance_threshold": 0.2,
	"scoring.top_k":               3,
	"scoring.sigmoid_k":           0.1,
	"scoring.sigmoid_x0":          50.0,
	"scoring.max_concurrency":     4,
}

func loadConfigFile(configPath, fileName string, out interface{}, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("config file %s.yaml not found: %w", fileName, err)
		}
		return nil, fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := v.Unmarshal(out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return v, nil
}

func setDefaultValues(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	if cfg.Server.BodyLimitMB == 0 {
		cfg.Server.BodyLimitMB = 25
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "score-updates"
	}
	applyEmbeddingDefaults(&cfg.Embedding)
	if cfg.Question.FallbackQuestion == "" {
		cfg.Question.FallbackQuestion = "오늘 하루는 어떠셨나요?"
	}
	if len(cfg.Question.FallbackAnswers) == 0 {
		cfg.Question.FallbackAnswers = []string{
			"오늘은 정말 기쁜 하루였어요",
			"평범하고 무난한 하루였어요",
			"조금 슬프고 우울한 하루였어요",
			"피곤하고 힘든 하루였어요",
		}
	}
	if cfg.Question.StoryLimit == 0 {
		cfg.Question.StoryLimit = 3
	}
	if cfg.Services.Timeout == 0 {
		cfg.Services.Timeout = 10 * time.Second
	}
	if cfg.Storage.Prefix == "" {
		cfg.Storage.Prefix = "answers"
	}
	if cfg.Transcription.Model == "" {
		cfg.Transcription.Model = "whisper-1"
	}
	if cfg.Transcription.Language == "" {
		cfg.Transcription.Language = "ko"
	}
}

func applyEmbeddingDefaults(e *EmbeddingConfig) {
	if e.Provider == "" {
		e.Provider = "openai"
	}
	if e.Dimensions == 0 {
		e.Dimensions = 1024
	}
	if e.Timeout == 0 {
		e.Timeout = 20 * time.Second
	}
	if e.MaxRetries < 0 {
		e.MaxRetries = 0
	}
	if e.CacheTTL == 0 {
		e.CacheTTL = 24 * time.Hour
	}
}

func (c *Config) Validate() error {
	if c.Embedding.Dimensions < 1 {
		return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	return c.Scoring.Validate()
}

func (s ScoringConfig) Validate() error {
	if s.RelevanceThreshold < -1 || s.RelevanceThreshold > 1 {
		return fmt.Errorf("scoring.relevance_threshold must be within [-1, 1], got %v", s.RelevanceThreshold)
	}
	if s.TopK < 1 {
		return fmt.Errorf("scoring.top_k must be at least 1, got %d", s.TopK)
	}
	if s.SigmoidK <= 0 {
		return fmt.Errorf("scoring.sigmoid_k must be positive, got %v", s.SigmoidK)
	}
	if s.MaxConcurrency < 1 {
		return fmt.Errorf("scoring.max_concurrency must be at least 1, got %d", s.MaxConcurrency)
	}
	return nil
}

// OnScoringChange registers fn to be called with every valid reloaded scoring section.
func OnScoringChange(fn func(ScoringConfig)) {
	watchMu.Lock()
	defer watchMu.Unlock()
	scoringWatches = append(scoringWatches, fn)
}

func notifyScoring(s ScoringConfig) {
	watchMu.Lock()
	watches := make([]func(ScoringConfig), len(scoringWatches))
	copy(watches, scoringWatches)
	watchMu.Unlock()
	for _, fn := range watches {
		fn(s)
	}
}

func GetConfig() *Config {
	return &globalConfig
}
