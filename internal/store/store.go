package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kokistudios/flashdeck/internal/deck"
)

// Theme selects the terminal color scheme.
type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme coerces a raw string to a Theme, defaulting to auto.
func ParseTheme(s string) Theme {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight
	case ThemeDark:
		return ThemeDark
	default:
		return ThemeAuto
	}
}

// EditorConfig holds edit view settings.
type EditorConfig struct {
	AutosaveMs int `yaml:"autosave_ms"`
}

// Config holds flashdeck configuration.
type Config struct {
	Version string       `yaml:"version"`
	Theme   Theme        `yaml:"theme"`
	Editor  EditorConfig `yaml:"editor,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Version: "1",
		Theme:   ThemeAuto,
		Editor:  EditorConfig{AutosaveMs: 500},
	}
}

// Store represents a loaded FLASHDECK_HOME.
type Store struct {
	Home   string
	Config Config
}

// Issue represents a health check finding.
type Issue struct {
	Severity string // "warning" or "error"
	Message  string
}

// Home returns the flashdeck home directory, respecting the FLASHDECK_HOME env var.
func Home() string {
	if h := os.Getenv("FLASHDECK_HOME"); h != "" {
		return h
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".flashdeck")
	}
	return filepath.Join(home, ".flashdeck")
}

// Init creates the FLASHDECK_HOME directory with default config and the
// built-in sample deck.
func Init(home string, force bool) error {
	if _, err := os.Stat(home); err == nil && !force {
		return fmt.Errorf("FLASHDECK_HOME already exists at %s (use --force to reinitialize)", home)
	}
	if err := os.MkdirAll(home, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", home, err)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	s := &Store{Home: home, Config: cfg}
	return s.SaveDeck(deck.Sample())
}

// Load opens a FLASHDECK_HOME. Missing or corrupt config falls back to
// defaults; nothing here is fatal.
func Load(home string) *Store {
	cfg := DefaultConfig()
	if data, err := os.ReadFile(filepath.Join(home, "config.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			cfg = DefaultConfig()
		}
	}
	if cfg.Editor.AutosaveMs <= 0 {
		cfg.Editor.AutosaveMs = DefaultConfig().Editor.AutosaveMs
	}
	cfg.Theme = ParseTheme(string(cfg.Theme))
	return &Store{Home: home, Config: cfg}
}

// SaveConfig writes the current config to config.yaml.
func (s *Store) SaveConfig() error {
	data, err := yaml.Marshal(s.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(s.Home, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.Home, err)
	}
	if err := os.WriteFile(filepath.Join(s.Home, "config.yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// SetConfigValue sets a config value by dot-path key (e.g. "theme").
// The study.* keys write through to the deck's stored defaults.
func (s *Store) SetConfigValue(key, value string) error {
	switch key {
	case "theme":
		switch Theme(value) {
		case ThemeAuto, ThemeLight, ThemeDark:
			s.Config.Theme = Theme(value)
		default:
			return fmt.Errorf("theme must be auto, light, or dark")
		}
	case "editor.autosave_ms":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("editor.autosave_ms must be a positive integer")
		}
		s.Config.Editor.AutosaveMs = n
	case "study.direction":
		dir := strings.ToUpper(value)
		if dir != string(deck.QuestionFirst) && dir != string(deck.AnswerFirst) {
			return fmt.Errorf("study.direction must be Q2A or A2Q")
		}
		d, _ := s.LoadDeck()
		d.Defaults.Direction = deck.Direction(dir)
		return s.SaveDeck(d)
	case "study.shuffle":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("study.shuffle must be true or false")
		}
		d, _ := s.LoadDeck()
		d.Defaults.Shuffle = b
		return s.SaveDeck(d)
	default:
		return fmt.Errorf("unknown config key: %s\nValid keys: theme, editor.autosave_ms, study.direction, study.shuffle", key)
	}
	return s.SaveConfig()
}

// DeckPath returns the location of the persisted deck document.
func (s *Store) DeckPath() string {
	return filepath.Join(s.Home, "deck.json")
}

// LoadDeck reads the persisted deck. A missing or corrupt document falls
// back to the built-in sample deck; the second return value reports whether
// the document on disk was used.
func (s *Store) LoadDeck() (*deck.Deck, bool) {
	data, err := os.ReadFile(s.DeckPath())
	if err != nil {
		return deck.Sample(), false
	}
	d, err := deck.Decode(data)
	if err != nil {
		return deck.Sample(), false
	}
	return d, true
}

// SaveDeck writes the full deck document, pretty-printed.
func (s *Store) SaveDeck(d *deck.Deck) error {
	data, err := deck.Encode(d)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Home, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.Home, err)
	}
	if err := os.WriteFile(s.DeckPath(), data, 0644); err != nil {
		return fmt.Errorf("failed to write deck: %w", err)
	}
	return nil
}

// ExportedFingerprint returns the digest recorded at the last export, or ""
// when the deck has never been exported.
func (s *Store) ExportedFingerprint() string {
	data, err := os.ReadFile(filepath.Join(s.Home, "exported"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetExportedFingerprint records the digest of what was just exported.
func (s *Store) SetExportedFingerprint(fp string) error {
	if err := os.MkdirAll(s.Home, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.Home, err)
	}
	if err := os.WriteFile(filepath.Join(s.Home, "exported"), []byte(fp+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to record export fingerprint: %w", err)
	}
	return nil
}

// Dirty reports whether the deck differs from what was last exported.
func (s *Store) Dirty(d *deck.Deck) bool {
	return deck.Fingerprint(d) != s.ExportedFingerprint()
}

// CheckHealth verifies FLASHDECK_HOME integrity.
func CheckHealth(home string) []Issue {
	var issues []Issue

	info, err := os.Stat(home)
	if err != nil {
		issues = append(issues, Issue{"error", fmt.Sprintf("missing home directory: %s (run flashdeck init)", home)})
		return issues
	}
	if !info.IsDir() {
		issues = append(issues, Issue{"error", fmt.Sprintf("expected directory but found file: %s", home)})
		return issues
	}

	cfgPath := filepath.Join(home, "config.yaml")
	if data, err := os.ReadFile(cfgPath); err != nil {
		issues = append(issues, Issue{"warning", fmt.Sprintf("cannot read config.yaml: %v (defaults apply)", err)})
	} else {
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			issues = append(issues, Issue{"warning", fmt.Sprintf("config.yaml is not valid YAML: %v (defaults apply)", err)})
		}
	}

	deckPath := filepath.Join(home, "deck.json")
	if data, err := os.ReadFile(deckPath); err != nil {
		issues = append(issues, Issue{"warning", "missing deck.json (sample deck applies)"})
	} else if _, err := deck.Decode(data); err != nil {
		issues = append(issues, Issue{"error", fmt.Sprintf("deck.json is not a valid deck: %v", err)})
	}

	return issues
}

// FixIssues attempts to repair simple issues in FLASHDECK_HOME. Corrupt
// files are left in place for the user to inspect; only missing pieces are
// recreated.
func FixIssues(home string) []string {
	var fixed []string

	if _, err := os.Stat(home); err != nil {
		if err := os.MkdirAll(home, 0755); err == nil {
			fixed = append(fixed, "recreated missing home directory")
		}
	}

	cfgPath := filepath.Join(home, "config.yaml")
	if _, err := os.Stat(cfgPath); err != nil {
		cfg := DefaultConfig()
		data, _ := yaml.Marshal(cfg)
		if os.WriteFile(cfgPath, data, 0644) == nil {
			fixed = append(fixed, "recreated missing config.yaml with defaults")
		}
	}

	deckPath := filepath.Join(home, "deck.json")
	if _, err := os.Stat(deckPath); err != nil {
		if data, err := deck.Encode(deck.Sample()); err == nil {
			if os.WriteFile(deckPath, data, 0644) == nil {
				fixed = append(fixed, "recreated missing deck.json with the sample deck")
			}
		}
	}

	return fixed
}
