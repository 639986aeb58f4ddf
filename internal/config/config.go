package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	RendererHTTP    = "http"
	RendererBrowser = "browser"
)

// EnvPrefix namespaces the environment overrides, e.g. SKILLQUIZ_WORKERS.
const EnvPrefix = "SKILLQUIZ_"

type Config struct {
	Output            string `yaml:"output"`
	Format            string `yaml:"format"`
	Workers           int    `yaml:"workers"`
	Renderer          string `yaml:"renderer"`
	ContainerSelector string `yaml:"container_selector"`
	BrowserPath       string `yaml:"browser_path"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	Debug             bool   `yaml:"debug"`

	DefaultURL   string `yaml:"default_url"`
	DefaultIndex string `yaml:"default_index"`
	DefaultRange string `yaml:"default_range"`
	DefaultList  string `yaml:"default_list"`

	Cookie           string `yaml:"cookie"`
	CookieFile       string `yaml:"cookie_file"`
	UserAgent        string `yaml:"user_agent"`
	CloudflareBypass bool   `yaml:"cloudflare_bypass"`

	SkipBroken bool `yaml:"skip_broken"`
}

type Options struct {
	IgnoreConfig      bool
	Debug             bool
	Output            string
	Format            string
	Workers           int
	Renderer          string
	ContainerSelector string
	BrowserPath       string
	TimeoutSeconds    int
	DefaultURL        string
	DefaultIndex      string
	DefaultRange      string
	DefaultList       string
	Cookie            string
	CookieFile        string
	UserAgent         string
	CloudflareBypass  bool
	SkipBroken        bool
}

func DefaultConfig() *Config {
	return &Config{
		Output:            ".",
		Format:            "ndjson",
		Workers:           2,
		Renderer:          RendererBrowser,
		ContainerSelector: "section > div > article",
		BrowserPath:       "",
		TimeoutSeconds:    30,
		Debug:             false,
		DefaultURL:        "",
		DefaultIndex:      "",
		DefaultRange:      "",
		DefaultList:       "",
		Cookie:            "",
		CookieFile:        "",
		UserAgent:         "",
		CloudflareBypass:  false,
		SkipBroken:        false,
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	return &c, nil
}

// LoadMerged resolves the effective config: active profile (or defaults),
// then SKILLQUIZ_* environment variables, then CLI options.
func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		return finish(DefaultConfig(), opts, "(ignored config)")
	}

	activePath, err := ActiveConfigPath()
	if errors.Is(err, ErrNoConfig) || activePath == "" {
		return finish(DefaultConfig(), opts, "(default config in memory)\nRun `skillquiz config init` to create an actual config\n")
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	return finish(cfg, opts, activePath)
}

func finish(cfg *Config, opts Options, used string) (*Config, string, error) {
	if err := applyEnv(cfg); err != nil {
		return nil, "", err
	}
	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, used, nil
}

func applyEnv(c *Config) error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
		return nil
	}
	flag := func(key string, dst *bool) error {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("OUTPUT", &c.Output)
	str("FORMAT", &c.Format)
	str("RENDERER", &c.Renderer)
	str("CONTAINER_SELECTOR", &c.ContainerSelector)
	str("BROWSER_PATH", &c.BrowserPath)
	str("URL", &c.DefaultURL)
	str("INDEX", &c.DefaultIndex)
	str("COOKIE", &c.Cookie)
	str("COOKIE_FILE", &c.CookieFile)
	str("USER_AGENT", &c.UserAgent)

	for key, dst := range map[string]*int{
		"WORKERS":         &c.Workers,
		"TIMEOUT_SECONDS": &c.TimeoutSeconds,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}

	for key, dst := range map[string]*bool{
		"DEBUG":             &c.Debug,
		"CLOUDFLARE_BYPASS": &c.CloudflareBypass,
		"SKIP_BROKEN":       &c.SkipBroken,
	} {
		if err := flag(key, dst); err != nil {
			return err
		}
	}

	return nil
}

func mergeConfig(c *Config, o Options) {
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Format != "" {
		c.Format = o.Format
	}
	if o.Workers != 0 {
		c.Workers = o.Workers
	}
	if o.Renderer != "" {
		c.Renderer = o.Renderer
	}
	if o.ContainerSelector != "" {
		c.ContainerSelector = o.ContainerSelector
	}
	if o.BrowserPath != "" {
		c.BrowserPath = o.BrowserPath
	}
	if o.TimeoutSeconds != 0 {
		c.TimeoutSeconds = o.TimeoutSeconds
	}
	if o.Debug {
		c.Debug = true
	}
	if o.DefaultURL != "" {
		c.DefaultURL = o.DefaultURL
	}
	if o.DefaultIndex != "" {
		c.DefaultIndex = o.DefaultIndex
	}
	if o.DefaultRange != "" {
		c.DefaultRange = o.DefaultRange
	}
	if o.DefaultList != "" {
		c.DefaultList = o.DefaultList
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.CloudflareBypass {
		c.CloudflareBypass = true
	}
	if o.SkipBroken {
		c.SkipBroken = true
	}
}

func normalizeDefaults(c *Config) {
	def := DefaultConfig()

	if c.Output == "" {
		c.Output = def.Output
	}
	if c.Format == "" {
		c.Format = def.Format
	}
	if c.Workers <= 0 {
		c.Workers = def.Workers
	}
	if c.Renderer == "" {
		c.Renderer = def.Renderer
	}
	if c.ContainerSelector == "" {
		c.ContainerSelector = def.ContainerSelector
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = def.TimeoutSeconds
	}

	c.Format = strings.ToLower(c.Format)
	c.Renderer = strings.ToLower(c.Renderer)
}

func (c *Config) Validate() error {
	switch c.Renderer {
	case RendererHTTP, RendererBrowser:
	default:
		return fmt.Errorf("renderer %q: want %q or %q", c.Renderer, RendererHTTP, RendererBrowser)
	}

	switch c.Format {
	case "ndjson", "json":
	default:
		return fmt.Errorf("format %q: want ndjson or json", c.Format)
	}

	return nil
}

// Print writes the effective values, skipping empty optional ones.
func (c *Config) Print(w io.Writer) {
	if c.Output != "" {
		fmt.Fprintf(w, " -output: %s\n", c.Output)
	}
	fmt.Fprintf(w, " -format: %s\n", c.Format)
	fmt.Fprintf(w, " -workers: %d\n", c.Workers)
	fmt.Fprintf(w, " -renderer: %s\n", c.Renderer)
	fmt.Fprintf(w, " -container_selector: %s\n", c.ContainerSelector)
	if c.BrowserPath != "" {
		fmt.Fprintf(w, " -browser_path: %s\n", c.BrowserPath)
	}
	fmt.Fprintf(w, " -timeout_seconds: %d\n", c.TimeoutSeconds)
	if c.Debug {
		fmt.Fprintf(w, " -debug: %t\n", c.Debug)
	}
	if c.DefaultURL != "" {
		fmt.Fprintf(w, " -url: %s\n", c.DefaultURL)
	}
	if c.DefaultIndex != "" {
		fmt.Fprintf(w, " -index: %s\n", c.DefaultIndex)
	}
	if c.DefaultRange != "" {
		fmt.Fprintf(w, " -range: %s\n", c.DefaultRange)
	}
	if c.DefaultList != "" {
		fmt.Fprintf(w, " -list: %s\n", c.DefaultList)
	}
	if c.CookieFile != "" {
		fmt.Fprintf(w, " -cookie_file: %s\n", c.CookieFile)
	}
	if c.CloudflareBypass {
		fmt.Fprintf(w, " -cloudflare_bypass: %t\n", c.CloudflareBypass)
	}
	if c.SkipBroken {
		fmt.Fprintf(w, " -skip_broken: %t\n", c.SkipBroken)
	}
}
