package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Source kinds a service can declare in the manifest.
const (
	KindDocker = "docker"
	KindFile   = "file"
	KindDemo   = "demo"
)

// ServiceDef declares one named service and where its log lines come
// from.
type ServiceDef struct {
	Name      string `yaml:"name"`
	Kind      string `yaml:"kind"`
	Container string `yaml:"container,omitempty"` // kind: docker
	Path      string `yaml:"path,omitempty"`      // kind: file
	Runtime   string `yaml:"runtime,omitempty"`   // docker (default), podman, nerdctl
}

// Manifest is the YAML file listing the environment's services.
type Manifest struct {
	Capacity  int          `yaml:"capacity,omitempty"`
	TailLines int          `yaml:"tail_lines,omitempty"`
	Services  []ServiceDef `yaml:"services"`
}

type Config struct {
	ManifestPath string
	Capacity     int
	TailLines    int
	Theme        Theme
	ShowVersion  bool
	Services     []ServiceDef
}

func Load() (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("logdeck", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.ManifestPath, "services", getenvDefault("LOGDECK_SERVICES", ""), "path to services YAML manifest (empty: demo services)")
	fs.IntVar(&cfg.Capacity, "capacity", getenvDefaultInt("LOGDECK_CAPACITY", 5000), "canonical buffer capacity (min 100)")
	fs.IntVar(&cfg.TailLines, "tail-lines", getenvDefaultInt("LOGDECK_TAIL_LINES", 200), "historical lines fetched per service")
	theme := string(ThemeDark)
	fs.StringVar(&theme, "theme", string(ThemeDark), "theme: dark|light")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}
	cfg.Theme = Theme(theme)

	if cfg.ManifestPath != "" {
		m, err := LoadManifest(cfg.ManifestPath)
		if err != nil {
			return nil, err
		}
		cfg.Services = m.Services
		if m.Capacity > 0 {
			cfg.Capacity = m.Capacity
		}
		if m.TailLines > 0 {
			cfg.TailLines = m.TailLines
		}
	} else {
		cfg.Services = []ServiceDef{
			{Name: "api", Kind: KindDemo},
			{Name: "worker", Kind: KindDemo},
			{Name: "db", Kind: KindDemo},
		}
	}

	if cfg.Capacity < 100 {
		cfg.Capacity = 100
	}
	if cfg.TailLines < 1 {
		cfg.TailLines = 1
	}

	return cfg, nil
}

// LoadManifest reads and validates a services manifest.
func LoadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if len(m.Services) == 0 {
		return nil, errors.New("manifest declares no services")
	}
	seen := map[string]bool{}
	for i, s := range m.Services {
		if s.Name == "" {
			return nil, fmt.Errorf("service %d: missing name", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("service %q declared twice", s.Name)
		}
		seen[s.Name] = true
		switch s.Kind {
		case KindDocker:
			if s.Container == "" {
				return nil, fmt.Errorf("service %q: kind docker requires container", s.Name)
			}
		case KindFile:
			if s.Path == "" {
				return nil, fmt.Errorf("service %q: kind file requires path", s.Name)
			}
		case KindDemo:
		default:
			return nil, fmt.Errorf("service %q: unknown kind %q", s.Name, s.Kind)
		}
	}
	return &m, nil
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func (c *Config) String() string {
	return fmt.Sprintf("manifest=%s services=%d capacity=%d tail=%d theme=%s",
		c.ManifestPath, len(c.Services), c.Capacity, c.TailLines, c.Theme)
}
