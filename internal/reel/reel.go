// Package reel defines the scenes played by the demo and loads alternative
// reels from YAML.
package reel

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/veribee/demoreel/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	defaultFadeIn = 500 * time.Millisecond
	defaultFill   = 2500 * time.Millisecond
)

var accentPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Reel is an ordered, non-empty list of scenes
type Reel struct {
	Version string         `yaml:"version"`
	Scenes  []domain.Scene `yaml:"scenes"`
}

// Default returns the five-scene product walkthrough: landing page, loading,
// researcher dashboard, loading, participant dashboard.
func Default() Reel {
	return Reel{
		Version: "1.0",
		Scenes: []domain.Scene{
			{
				ID:     0,
				Name:   "landing",
				Title:  "Secure, Verified Research Studies with VeriBee",
				Kind:   domain.KindPage,
				Accent: "#7c3aed",
				Caption: []string{
					"Revolutionizing Research Data Collection",
					"I'm a Researcher  |  I'm a Participant",
				},
				FadeIn: defaultFadeIn,
			},
			{
				ID:     1,
				Name:   "loading-researcher",
				Title:  "Loading Researcher Dashboard",
				Kind:   domain.KindLoading,
				Accent: "#6d28d9",
				FadeIn: defaultFadeIn,
				Fill:   defaultFill,
			},
			{
				ID:     2,
				Name:   "researcher-dashboard",
				Title:  "Researcher Dashboard",
				Kind:   domain.KindPage,
				Accent: "#5b21b6",
				Caption: []string{
					"Active Studies  |  Participants  |  Responses",
					"Create Study",
				},
				FadeIn: defaultFadeIn,
			},
			{
				ID:     3,
				Name:   "loading-participant",
				Title:  "Loading Participant Dashboard",
				Kind:   domain.KindLoading,
				Accent: "#2563eb",
				FadeIn: defaultFadeIn,
				Fill:   defaultFill,
			},
			{
				ID:     4,
				Name:   "participant-dashboard",
				Title:  "Participant Dashboard",
				Kind:   domain.KindPage,
				Accent: "#1d4ed8",
				Caption: []string{
					"Available Studies  |  Tokens Earned",
					"Join Study",
				},
				FadeIn: defaultFadeIn,
			},
		},
	}
}

// Load reads a reel from a YAML file, fills animation defaults and validates it
func Load(path string) (Reel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Reel{}, fmt.Errorf("failed to read reel file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML reel
func Parse(data []byte) (Reel, error) {
	var r Reel
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Reel{}, fmt.Errorf("failed to parse reel: %w", err)
	}

	for i := range r.Scenes {
		s := &r.Scenes[i]
		if s.Kind == "" {
			s.Kind = domain.KindPage
		}
		if s.FadeIn == 0 {
			s.FadeIn = defaultFadeIn
		}
		if s.Kind == domain.KindLoading && s.Fill == 0 {
			s.Fill = defaultFill
		}
	}

	if err := r.Validate(); err != nil {
		return Reel{}, err
	}
	return r, nil
}

// Validate checks that scene ordinals are 0..N-1 in order and fields are sane
func (r Reel) Validate() error {
	if len(r.Scenes) == 0 {
		return domain.ErrEmptyReel
	}

	for i, s := range r.Scenes {
		if s.ID != i {
			return fmt.Errorf("scene %q: id %d out of order, want %d", s.Name, s.ID, i)
		}
		if s.Name == "" {
			return fmt.Errorf("scene %d: missing name", i)
		}
		if s.Kind != domain.KindPage && s.Kind != domain.KindLoading {
			return fmt.Errorf("scene %q: unknown kind %q", s.Name, s.Kind)
		}
		if s.Accent != "" && !accentPattern.MatchString(s.Accent) {
			return fmt.Errorf("scene %q: accent %q is not #rrggbb", s.Name, s.Accent)
		}
		if s.FadeIn < 0 || s.Fill < 0 {
			return fmt.Errorf("scene %q: negative animation duration", s.Name)
		}
	}
	return nil
}

// Duration is the length of one full cycle at the given tick interval
func (r Reel) Duration(interval time.Duration) time.Duration {
	return time.Duration(len(r.Scenes)) * interval
}
