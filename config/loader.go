package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts file lookups so resolution can be tested.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver finds config and env files for a service.
type Resolver struct {
	FileSystem FileSystem
	// UserConfigDir is searched after the working-directory candidates.
	UserConfigDir string
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths if provided, otherwise searches for them.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.firstExisting(r.configCandidates(serviceName))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.firstExisting([]string{
			fmt.Sprintf(".env.%s", serviceName),
			".env",
			fmt.Sprintf("./cmd/%s/.env", serviceName),
		})
	}
	return resolved
}

func (r *Resolver) configCandidates(serviceName string) []string {
	paths := []string{
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		"./config/config.yml",
		"./config.yml",
		fmt.Sprintf("./%s.yml", serviceName),
	}
	if r.UserConfigDir != "" {
		paths = append(paths, fmt.Sprintf("%s/%s/config.yml", r.UserConfigDir, serviceName))
	}
	return paths
}

func (r *Resolver) firstExisting(paths []string) string {
	for _, path := range paths {
		if r.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	EnvPrefix  string // Defaults to the upper-cased service name
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// LoadConfig loads configuration for a service into cfg. The config file is
// read first, then a .env file is loaded into the process environment, then
// every <PREFIX>_* variable overrides the matching key.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	if lc.EnvPrefix == "" {
		lc.EnvPrefix = envPrefix(serviceName)
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	if dir, err := os.UserConfigDir(); err == nil {
		resolver.UserConfigDir = dir
	}
	files := resolver.ResolveFiles(serviceName, lc)

	return loadFromResolvedFiles(serviceName, cfg, files, lc)
}

func loadFromResolvedFiles(serviceName string, cfg interface{}, files ResolvedFiles, lc LoaderConfig) error {
	v := viper.New()

	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", files.ConfigFile, err)
		}
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			fmt.Fprintf(os.Stderr, "[config] warning: failed to load .env file %s: %v\n", files.EnvFile, err)
		}
	}

	bindPrefixedEnv(v, lc.EnvPrefix, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

func envPrefix(serviceName string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(serviceName))
}

// bindPrefixedEnv sets every PREFIX_* environment variable on v under all
// plausible nested key spellings, so NTFYWATCH_NTFY_BROKER_LABEL reaches
// both "ntfy.broker_label" and "ntfy.broker.label".
func bindPrefixedEnv(v *viper.Viper, prefix string, environ []string) {
	p := prefix + "_"
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, p) {
			continue
		}
		for _, variant := range generateEnvKeyVariants(strings.TrimPrefix(key, p)) {
			v.Set(variant, value)
		}
	}
}

// generateEnvKeyVariants creates the possible dotted keys for an env name.
//
//	NTFY_BROKER_LABEL -> [ntfy_broker_label, ntfy.broker.label, ntfy.broker_label]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}
	return removeDuplicates(variants)
}

func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
