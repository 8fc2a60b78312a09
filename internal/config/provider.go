package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/calldata-lens/internal/domain/config"
)

const (
	envPrefix      = "LENS"
	configFileName = "config"
	configFileType = "toml"

	DefaultDirectoryURL = "https://www.4byte.directory"
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	dataDir, err := expandHome(v.GetString("data_dir"))
	if err != nil {
		return nil, err
	}
	patternsFile, err := expandHome(v.GetString("patterns_file"))
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		DataDir:        dataDir,
		PatternsFile:   patternsFile,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Format:         config.OutputFormat(strings.ToLower(v.GetString("format"))),
		Timeout:        v.GetDuration("timeout"),
		Directory: config.DirectoryConfig{
			URL:         v.GetString("directory.url"),
			Timeout:     v.GetDuration("directory.timeout"),
			Retries:     v.GetUint("directory.retries"),
			RetryDelay:  v.GetDuration("directory.retry_delay"),
			MaxPages:    v.GetInt("directory.max_pages"),
			Concurrency: v.GetInt("directory.concurrency"),
		},
		Cache: config.CacheConfig{
			TTL: v.GetDuration("cache.ttl"),
		},
		Layout: config.LayoutConfig{
			PayloadBias: v.GetInt("layout.payload_bias"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg and reports every invalid field by its config key.
func Validate(cfg *config.RuntimeConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fmt.Sprintf("%s: failed %q (value %v)", configKey(fe.Namespace()), fe.ActualTag(), fe.Value())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// configKey turns "RuntimeConfig.Directory.MaxPages" into "directory.max_pages".
func configKey(namespace string) string {
	parts := strings.Split(namespace, ".")[1:]
	for i, p := range parts {
		var b strings.Builder
		for j, r := range p {
			if j > 0 && r >= 'A' && r <= 'Z' && !(p[j-1] >= 'A' && p[j-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		}
		parts[i] = strings.ToLower(b.String())
	}
	return strings.Join(parts, ".")
}

// DefaultDataDir is ~/.lens, or .lens in the working directory when the home
// directory can't be determined.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lens"
	}
	return filepath.Join(home, ".lens")
}

// SetupViper creates and configures a viper instance. Precedence is flags,
// then LENS_* environment variables, then <data_dir>/config.toml, then
// defaults. A .env file in the working directory or the data dir is loaded
// into the environment first without overriding variables already set.
func SetupViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("format", string(config.FormatText))
	v.SetDefault("timeout", "1m")
	v.SetDefault("patterns_file", "")
	v.SetDefault("directory.url", DefaultDirectoryURL)
	v.SetDefault("directory.timeout", "10s")
	v.SetDefault("directory.retries", 3)
	v.SetDefault("directory.retry_delay", "500ms")
	v.SetDefault("directory.max_pages", 5)
	v.SetDefault("directory.concurrency", 4)
	v.SetDefault("cache.ttl", "6h")
	v.SetDefault("layout.payload_bias", -8)

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	dataDir, err := expandHome(v.GetString("data_dir"))
	if err != nil {
		return nil, err
	}
	loadEnvFiles(".env", filepath.Join(dataDir, ".env"))

	// Set up config file
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dataDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s: %w", filepath.Join(dataDir, configFileName+"."+configFileType), err)
		}
	}

	return v, nil
}

func loadEnvFiles(paths ...string) {
	for _, envFile := range paths {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
