package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSourceURL es la página pública de resultados usada si no se configura otra.
const DefaultSourceURL = "http://178.128.121.191/"

// Config es la configuración completa de la aplicación.
type Config struct {
	Source   SourceConfig   `yaml:"source"`
	Strategy StrategyConfig `yaml:"strategy"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// SourceConfig controla de dónde y cómo se descarga el histórico de sorteos.
type SourceConfig struct {
	URL                    string  `yaml:"url"`
	TimeoutSeconds         int     `yaml:"timeout_seconds"`
	RatePerSecond          float64 `yaml:"rate_per_second"`
	MaxRetries             *int    `yaml:"max_retries"`
	RefreshIntervalSeconds int     `yaml:"refresh_interval_seconds"` // 0 = solo refresca al arrancar
}

// StrategyConfig selecciona el generador de candidatos.
type StrategyConfig struct {
	Name          string `yaml:"name"`
	Size          int    `yaml:"size"`
	TargetMaxLoss *int   `yaml:"target_max_loss"`
	TuneSizes     []int  `yaml:"tune_sizes"`
	FixedDigits   []int  `yaml:"fixed_digits"` // solo estrategia fixed
	WeightsFile   string `yaml:"weights_file"` // tabla de pesos YAML opcional
}

// AnalysisConfig controla las vistas de rachas y sorteos recientes.
type AnalysisConfig struct {
	StreakWindow  int                       `yaml:"streak_window"`
	RecentWindow  int                       `yaml:"recent_window"`
	Thresholds    domain.SeverityThresholds `yaml:"thresholds"`
	PredictionDay string                    `yaml:"prediction_day"` // next | latest
}

// StorageConfig controla dónde se persiste el histórico de refrescos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta del archivo SQLite, o ":memory:"
}

// ServerConfig controla la API HTTP.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben el YAML. Que falte el archivo no es
// un error: todos los valores tienen default.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// Timeout devuelve el timeout de las requests al feed.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Source.TimeoutSeconds) * time.Second
}

// RefreshInterval devuelve el periodo del loop de refresco.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Source.RefreshIntervalSeconds) * time.Second
}

// Validate comprueba los valores que setDefaults no puede corregir.
func (c *Config) Validate() error {
	if c.Strategy.Size < 0 || c.Strategy.Size > 10 {
		return fmt.Errorf("%w: strategy.size %d must be between 1 and 10", domain.ErrValidation, c.Strategy.Size)
	}
	for _, s := range c.Strategy.TuneSizes {
		if s < 1 || s > 10 {
			return fmt.Errorf("%w: strategy.tune_sizes entry %d must be between 1 and 10", domain.ErrValidation, s)
		}
	}
	if v := c.Strategy.TargetMaxLoss; v != nil && *v < 0 {
		return fmt.Errorf("%w: strategy.target_max_loss must not be negative", domain.ErrValidation)
	}
	if v := c.Source.MaxRetries; v != nil && *v < 0 {
		return fmt.Errorf("%w: source.max_retries must not be negative", domain.ErrValidation)
	}
	switch c.Analysis.PredictionDay {
	case "next", "latest":
	default:
		return fmt.Errorf("%w: analysis.prediction_day %q must be next or latest", domain.ErrValidation, c.Analysis.PredictionDay)
	}
	if err := c.Analysis.Thresholds.Validate(); err != nil {
		return fmt.Errorf("analysis.thresholds: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q must be text or json", domain.ErrValidation, c.Log.Format)
	}
	return nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DATA_SOURCE_URL"); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv("BBFS_STRATEGY"); v != "" {
		cfg.Strategy.Name = v
	}
	if v := os.Getenv("BBFS_STRATEGY_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BBFS_STRATEGY_SIZE: %w", err)
		}
		cfg.Strategy.Size = n
	}
	if v := os.Getenv("BBFS_STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("BBFS_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// setDefaults asegura que los valores no definidos tengan valores sensatos.
// Los punteros distinguen "omitido" de un 0 explícito.
func setDefaults(cfg *Config) {
	if cfg.Source.URL == "" {
		cfg.Source.URL = DefaultSourceURL
	}
	if cfg.Source.TimeoutSeconds <= 0 {
		cfg.Source.TimeoutSeconds = 15
	}
	if cfg.Source.RatePerSecond <= 0 {
		cfg.Source.RatePerSecond = 2
	}
	if cfg.Source.MaxRetries == nil {
		cfg.Source.MaxRetries = intPtr(3)
	}
	if cfg.Strategy.Name == "" {
		cfg.Strategy.Name = "weekday_frequency"
	}
	if cfg.Strategy.Size == 0 {
		cfg.Strategy.Size = 7
	}
	if cfg.Strategy.TargetMaxLoss == nil {
		cfg.Strategy.TargetMaxLoss = intPtr(10)
	}
	if len(cfg.Strategy.TuneSizes) == 0 {
		cfg.Strategy.TuneSizes = []int{6, 7, 8}
	}
	if cfg.Analysis.StreakWindow <= 0 {
		cfg.Analysis.StreakWindow = 10
	}
	if cfg.Analysis.RecentWindow <= 0 {
		cfg.Analysis.RecentWindow = 8
	}
	if cfg.Analysis.PredictionDay == "" {
		cfg.Analysis.PredictionDay = "next"
	}
	if cfg.Analysis.Thresholds == (domain.SeverityThresholds{}) {
		cfg.Analysis.Thresholds = domain.DefaultSeverityThresholds()
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "bbfs.db"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func intPtr(v int) *int { return &v }
