// Package config loads the sakana YAML configuration and applies SAKANA_*
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"sakanacore/internal/blob"
	"sakanacore/internal/core"
	"sakanacore/internal/enhance"
	"sakanacore/internal/logging"
)

// Environment overrides applied by ApplyEnv. Archive variables are read by
// blob.OptionsFromEnv.
const (
	EnvRealData       = "SAKANA_REAL_DATA_MANDATORY"
	EnvStrictMode     = "SAKANA_STRICT_MODE"
	EnvBoundaryMargin = "SAKANA_BOUNDARY_MARGIN"
	EnvParallelism    = "SAKANA_PARALLELISM"
	EnvHistoryDriver  = "SAKANA_HISTORY_DRIVER"
	EnvSQLitePath     = "SAKANA_SQLITE_PATH"
	EnvPostgresDSN    = "SAKANA_POSTGRES_DSN"
	EnvLogLevel       = "SAKANA_LOG_LEVEL"
	EnvLogFormat      = "SAKANA_LOG_FORMAT"
)

// Config is the root of sakana.yaml.
type Config struct {
	Validation  Validation     `yaml:"validation"`
	History     History        `yaml:"history"`
	Archive     Archive        `yaml:"archive"`
	Enhancement Enhancement    `yaml:"enhancement"`
	Logging     logging.Config `yaml:"logging"`
}

// Validation mirrors core.Options plus batch parallelism.
type Validation struct {
	RealDataMandatory   bool    `yaml:"real_data_mandatory"`
	StrictMode          bool    `yaml:"strict_mode"`
	BoundaryMargin      float64 `yaml:"boundary_margin"`
	ConsistencyBlocking bool    `yaml:"consistency_blocking"`
	// Parallelism bounds batch validation; zero means GOMAXPROCS.
	Parallelism int `yaml:"parallelism"`
}

// History selects the validation history backend.
type History struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

// Archive selects the blob store used for exports.
type Archive struct {
	Driver string    `yaml:"driver"`
	FSRoot string    `yaml:"fs_root"`
	Prefix string    `yaml:"prefix"`
	S3     ArchiveS3 `yaml:"s3"`
}

// ArchiveS3 configures the s3 archive driver. Credentials come from the AWS chain.
type ArchiveS3 struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// Enhancement configures the score aggregator.
type Enhancement struct {
	TopK int `yaml:"top_k"`
	// Levels overrides or adds weight tables, keyed by level then source.
	Levels map[string]map[string]float64 `yaml:"levels"`
	// CorpusPath points at a YAML snippet list served as the literature lookup.
	CorpusPath string `yaml:"corpus_path"`
}

// Default returns the built-in configuration.
func Default() Config {
	opts := core.DefaultOptions()
	return Config{
		Validation: Validation{
			RealDataMandatory:   opts.RealDataMandatory,
			StrictMode:          opts.StrictMode,
			BoundaryMargin:      opts.BoundaryMargin,
			ConsistencyBlocking: opts.ConsistencyBlocking,
		},
		History: History{
			Driver:     string(core.StorageSQLite),
			SQLitePath: core.DefaultSQLitePath,
		},
		Archive: Archive{
			Driver: string(blob.DriverFilesystem),
			Prefix: "history",
		},
		Enhancement: Enhancement{TopK: enhance.DefaultTopK},
		Logging:     logging.DefaultConfig(),
	}
}

// Decode reads YAML over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Load reads path, applies the environment and validates the result. An empty
// path or a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg, err := readFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()
	cfg, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays SAKANA_* variables that are set.
func (c *Config) ApplyEnv() error {
	var errs []error
	boolEnv := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				return
			}
			*dst = b
		}
	}
	strEnv := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	boolEnv(EnvRealData, &c.Validation.RealDataMandatory)
	boolEnv(EnvStrictMode, &c.Validation.StrictMode)
	if v := os.Getenv(EnvBoundaryMargin); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvBoundaryMargin, err))
		} else {
			c.Validation.BoundaryMargin = f
		}
	}
	if v := os.Getenv(EnvParallelism); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvParallelism, err))
		} else {
			c.Validation.Parallelism = n
		}
	}
	strEnv(EnvHistoryDriver, &c.History.Driver)
	strEnv(EnvSQLitePath, &c.History.SQLitePath)
	strEnv(EnvPostgresDSN, &c.History.PostgresDSN)
	strEnv(EnvLogLevel, &c.Logging.Level)
	strEnv(EnvLogFormat, &c.Logging.Format)

	arch := blob.OptionsFromEnv(c.ArchiveOptions())
	c.Archive.Driver = string(arch.Driver)
	c.Archive.FSRoot = arch.FSRoot
	c.Archive.S3 = ArchiveS3{
		Bucket:    arch.S3.Bucket,
		Region:    arch.S3.Region,
		Endpoint:  arch.S3.Endpoint,
		PathStyle: arch.S3.PathStyle,
	}
	return errors.Join(errs...)
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if m := c.Validation.BoundaryMargin; m < 0 || m >= 0.5 {
		errs = append(errs, fmt.Errorf("validation.boundary_margin must be in [0, 0.5), got %v", m))
	}
	if c.Validation.Parallelism < 0 {
		errs = append(errs, fmt.Errorf("validation.parallelism must not be negative"))
	}
	switch core.StorageDriver(c.History.Driver) {
	case "", core.StorageMemory, core.StorageSQLite:
	case core.StoragePostgres:
		if c.History.PostgresDSN == "" {
			errs = append(errs, fmt.Errorf("history.postgres_dsn required for postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("history.driver %q is not supported", c.History.Driver))
	}
	switch blob.Driver(c.Archive.Driver) {
	case "", blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.Archive.S3.Bucket == "" {
			errs = append(errs, fmt.Errorf("archive.s3.bucket required for s3 driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("archive.driver %q is not supported", c.Archive.Driver))
	}
	if c.Enhancement.TopK < 0 {
		errs = append(errs, fmt.Errorf("enhancement.top_k must not be negative"))
	}
	for level, table := range c.WeightTables() {
		if err := table.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("enhancement.levels.%s: %w", level, err))
		}
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	return errors.Join(errs...)
}

// ValidatorOptions converts the validation section.
func (c Config) ValidatorOptions() core.Options {
	return core.Options{
		RealDataMandatory:   c.Validation.RealDataMandatory,
		StrictMode:          c.Validation.StrictMode,
		BoundaryMargin:      c.Validation.BoundaryMargin,
		ConsistencyBlocking: c.Validation.ConsistencyBlocking,
	}
}

// HistoryStoreConfig converts the history section.
func (c Config) HistoryStoreConfig() core.HistoryStoreConfig {
	return core.HistoryStoreConfig{
		Driver:      core.StorageDriver(strings.ToLower(c.History.Driver)),
		SQLitePath:  c.History.SQLitePath,
		PostgresDSN: c.History.PostgresDSN,
	}
}

// ArchiveOptions converts the archive section.
func (c Config) ArchiveOptions() blob.Options {
	return blob.Options{
		Driver: blob.Driver(strings.ToLower(c.Archive.Driver)),
		FSRoot: c.Archive.FSRoot,
		S3: blob.S3Config{
			Bucket:    c.Archive.S3.Bucket,
			Region:    c.Archive.S3.Region,
			Endpoint:  c.Archive.S3.Endpoint,
			PathStyle: c.Archive.S3.PathStyle,
		},
	}
}

// WeightTables returns the default tables with configured levels layered on top.
func (c Config) WeightTables() map[enhance.Level]enhance.WeightTable {
	tables := enhance.DefaultWeightTables()
	for level, weights := range c.Enhancement.Levels {
		table := make(enhance.WeightTable, len(weights))
		for src, w := range weights {
			table[enhance.Source(src)] = w
		}
		tables[enhance.Level(level)] = table
	}
	return tables
}
