package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cwarden/weekcal/internal/kv"
	"github.com/cwarden/weekcal/internal/log"
)

type Config struct {
	// Storage settings
	StoreDir     string
	StoreBackend string

	// Display settings
	WeekStartDay time.Weekday
	TimeFormat   string
	DateFormat   string
	RowsPerHour  int
	DayStartHour int

	// UI settings
	Colors      map[string]string
	KeyBindings map[string]string // key -> action

	// Behavior settings
	DefaultDuration int // minutes
	ConfirmDelete   bool
	AutoRefresh     bool
	RefreshRate     time.Duration
	// ThemePoll re-reads the terminal background while the theme follows
	// the system. It is best-effort: the query races the running program
	// for stdin and some terminals never answer it.
	ThemePoll time.Duration

	// LogLevel is the minimum level written to the debug log.
	LogLevel log.Level

	// Path is the rc file that was loaded, if any.
	Path string
}

func DefaultConfig() *Config {
	return &Config{
		StoreDir:     defaultStoreDir(),
		StoreBackend: kv.BackendFile,

		WeekStartDay: time.Monday,
		TimeFormat:   "15:04",
		DateFormat:   "Mon Jan 2, 2006",
		RowsPerHour:  2,
		DayStartHour: 8,

		Colors: map[string]string{},

		KeyBindings: map[string]string{
			"q":         "quit",
			"ctrl+c":    "quit",
			"?":         "help",
			"t":         "today",
			"r":         "refresh",
			"n":         "new_event",
			"a":         "quick_add",
			"e":         "edit_event",
			"enter":     "edit_event",
			"d":         "delete_event",
			"h":         "prev_week",
			"l":         "next_week",
			"left":      "prev_week",
			"right":     "next_week",
			"j":         "scroll_down",
			"k":         "scroll_up",
			"down":      "scroll_down",
			"up":        "scroll_up",
			"tab":       "next_event",
			"shift+tab": "prev_event",
			"g":         "goto_date",
			"i":         "show_details",
			"T":         "toggle_theme",
		},

		DefaultDuration: 60,
		ConfirmDelete:   true,
		AutoRefresh:     true,
		RefreshRate:     30 * time.Second,
		ThemePoll:       0,

		LogLevel: log.LevelInfo,
	}
}

// SearchPaths lists the rc files tried by LoadConfig, in order.
func SearchPaths() []string {
	home, _ := os.UserHomeDir()
	paths := []string{os.Getenv("WEEKCAL_CONFIG")}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "weekcal", "weekcalrc"))
	}
	if home != "" {
		paths = append(paths,
			filepath.Join(home, ".config", "weekcal", "weekcalrc"),
			filepath.Join(home, ".weekcalrc"),
		)
	}
	return paths
}

// LoadConfig loads the first rc file found on the search path. An explicit
// path must exist.
func LoadConfig(explicit string) (*Config, error) {
	config := DefaultConfig()

	if explicit != "" {
		if err := config.LoadFile(explicit); err != nil {
			return nil, fmt.Errorf("error loading config from %s: %w", explicit, err)
		}
		return config, nil
	}

	for _, path := range SearchPaths() {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); err == nil {
			if err := config.LoadFile(path); err != nil {
				return nil, fmt.Errorf("error loading config from %s: %w", path, err)
			}
			break
		}
	}

	return config, nil
}

func (c *Config) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if err := c.parseLine(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	c.Path = path
	return nil
}

var (
	setRe   = regexp.MustCompile(`^set\s+(\w+)\s+(.+)$`)
	bindRe  = regexp.MustCompile(`^bind\s+(\S+)\s+(\S+)$`)
	colorRe = regexp.MustCompile(`^color\s+(\w+)\s+(.+)$`)
)

func (c *Config) parseLine(line string) error {
	// set variable value
	if matches := setRe.FindStringSubmatch(line); matches != nil {
		return c.setVariable(matches[1], matches[2])
	}

	// bind key action
	if matches := bindRe.FindStringSubmatch(line); matches != nil {
		c.KeyBindings[matches[1]] = matches[2]
		return nil
	}

	// color element color_spec
	if matches := colorRe.FindStringSubmatch(line); matches != nil {
		c.Colors[matches[1]] = strings.Trim(matches[2], `"'`)
		return nil
	}

	return fmt.Errorf("unknown config line: %s", line)
}

func (c *Config) setVariable(name, value string) error {
	// Remove quotes if present
	value = strings.Trim(value, `"'`)

	switch name {
	case "store_dir":
		c.StoreDir = expandHome(value)

	case "store_backend":
		switch value {
		case kv.BackendFile, kv.BackendSQLite, kv.BackendMemory:
			c.StoreBackend = value
		default:
			return fmt.Errorf("invalid store_backend: %s", value)
		}

	case "week_start_day":
		switch strings.ToLower(value) {
		case "sunday", "sun", "0":
			c.WeekStartDay = time.Sunday
		case "monday", "mon", "1":
			c.WeekStartDay = time.Monday
		case "saturday", "sat", "6":
			c.WeekStartDay = time.Saturday
		default:
			return fmt.Errorf("invalid week_start_day: %s", value)
		}

	case "time_format":
		c.TimeFormat = value

	case "date_format":
		c.DateFormat = value

	case "rows_per_hour":
		rows, err := strconv.Atoi(value)
		if err != nil || rows < 1 || rows > 12 {
			return fmt.Errorf("invalid rows_per_hour: %s", value)
		}
		c.RowsPerHour = rows

	case "day_start_hour":
		hour, err := strconv.Atoi(value)
		if err != nil || hour < 0 || hour > 23 {
			return fmt.Errorf("invalid day_start_hour: %s", value)
		}
		c.DayStartHour = hour

	case "default_duration":
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes < 1 || minutes > 24*60 {
			return fmt.Errorf("invalid default_duration: %s", value)
		}
		c.DefaultDuration = minutes

	case "confirm_delete":
		c.ConfirmDelete = parseBool(value)

	case "auto_refresh":
		c.AutoRefresh = parseBool(value)

	case "refresh_rate":
		rate, err := parseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid refresh_rate: %s", value)
		}
		c.RefreshRate = rate

	case "theme_poll":
		rate, err := parseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid theme_poll: %s", value)
		}
		c.ThemePoll = rate

	case "log_level":
		switch strings.ToLower(value) {
		case "debug", "info", "error":
			c.LogLevel = log.ParseLevel(value)
		default:
			return fmt.Errorf("invalid log_level: %s", value)
		}

	default:
		return fmt.Errorf("unknown config variable: %s", name)
	}

	return nil
}

func parseBool(value string) bool {
	return strings.ToLower(value) == "true" || value == "1"
}

// parseDuration accepts Go durations or a bare number of seconds.
func parseDuration(value string) (time.Duration, error) {
	if d, err := time.ParseDuration(value); err == nil {
		return d, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func defaultStoreDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "weekcal")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "weekcal")
}
