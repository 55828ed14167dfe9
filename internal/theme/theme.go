package theme

import (
	"fmt"
	"strings"

	"github.com/cwarden/weekcal/internal/kv"
	"github.com/muesli/termenv"
)

// Key holds the persisted preference, separate from the event list.
const Key = "calendar_theme"

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Preference is what the user chose; System defers to the terminal.
type Preference string

const (
	PreferLight  Preference = "light"
	PreferDark   Preference = "dark"
	PreferSystem Preference = "system"
)

// ParsePreference accepts light, dark or system.
func ParsePreference(s string) (Preference, error) {
	switch Preference(strings.ToLower(strings.TrimSpace(s))) {
	case PreferLight:
		return PreferLight, nil
	case PreferDark:
		return PreferDark, nil
	case PreferSystem, "auto":
		return PreferSystem, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light, dark or system)", s)
}

// SystemDark asks the terminal whether its background is dark.
func SystemDark() bool {
	return termenv.HasDarkBackground()
}

// Service resolves and persists the theme preference.
type Service struct {
	kv         kv.Store
	pref       Preference
	systemDark bool
	signal     func() bool
	observers  []func(Theme)
}

// NewService loads the stored preference. Anything other than light or dark
// in storage means system. signal reports the system color scheme; nil uses
// SystemDark.
func NewService(store kv.Store, signal func() bool) (*Service, error) {
	if signal == nil {
		signal = SystemDark
	}
	s := &Service{kv: store, signal: signal, pref: PreferSystem}

	stored, ok, err := store.Get(Key)
	if err != nil {
		return nil, fmt.Errorf("failed to load theme: %w", err)
	}
	if ok && (stored == string(PreferLight) || stored == string(PreferDark)) {
		s.pref = Preference(stored)
	}
	s.systemDark = signal()
	return s, nil
}

func (s *Service) Preference() Preference {
	return s.pref
}

// Current is the theme in effect.
func (s *Service) Current() Theme {
	switch s.pref {
	case PreferLight:
		return Light
	case PreferDark:
		return Dark
	}
	if s.systemDark {
		return Dark
	}
	return Light
}

func (s *Service) IsDark() bool {
	return s.Current() == Dark
}

// Set stores p and applies it.
func (s *Service) Set(p Preference) error {
	before := s.Current()
	s.pref = p
	err := s.kv.Set(Key, string(p))
	s.notifyIfChanged(before)
	if err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	return nil
}

// Reload re-reads the stored preference so a change written by another
// process takes effect.
func (s *Service) Reload() error {
	stored, ok, err := s.kv.Get(Key)
	if err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	}
	before := s.Current()
	s.pref = PreferSystem
	if ok && (stored == string(PreferLight) || stored == string(PreferDark)) {
		s.pref = Preference(stored)
	}
	s.notifyIfChanged(before)
	return nil
}

// Toggle switches to the opposite of the current theme as an explicit
// preference.
func (s *Service) Toggle() error {
	if s.Current() == Dark {
		return s.Set(PreferLight)
	}
	return s.Set(PreferDark)
}

// RefreshSystem re-reads the system signal. It only matters, and only
// notifies, when the preference is system.
func (s *Service) RefreshSystem() {
	before := s.Current()
	s.systemDark = s.signal()
	s.notifyIfChanged(before)
}

// Subscribe registers fn to run whenever the resolved theme changes.
func (s *Service) Subscribe(fn func(Theme)) {
	s.observers = append(s.observers, fn)
}

func (s *Service) notifyIfChanged(before Theme) {
	now := s.Current()
	if now == before {
		return
	}
	for _, fn := range s.observers {
		fn(now)
	}
}
