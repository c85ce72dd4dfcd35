//go:build linux
// +build linux

package monitor

import (
	"fmt"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/veribee/demoreel/internal/scheduler"
	"go.uber.org/zap"
)

const testPlayer = "org.mpris.MediaPlayer2.vlc"

// newAttachedSource returns a source that believes it is attached to testPlayer at :1.100
func newAttachedSource(client DBusClient) *MprisSource {
	mon := NewMprisSource(zap.NewNop(), scheduler.NewManual(), testPlayer, 250*time.Millisecond)
	mon.conn = client
	mon.running = true
	mon.owner = ":1.100"
	return mon
}

func propsSignal(sender, iface string, props map[string]dbus.Variant) *dbus.Signal {
	return &dbus.Signal{
		Name:   "org.freedesktop.DBus.Properties.PropertiesChanged",
		Sender: sender,
		Body:   []interface{}{iface, props, []string{}},
	}
}

// TestHandleSignal_PlaybackStatus verifies that status transitions reach the playback channel.
func TestHandleSignal_PlaybackStatus(t *testing.T) {
	mon := newAttachedSource(&noopDBusClient{})

	mon.handleSignal(propsSignal(":1.100", "org.mpris.MediaPlayer2.Player", map[string]dbus.Variant{
		"PlaybackStatus": dbus.MakeVariant("Playing"),
		"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
			"mpris:length": dbus.MakeVariant(int64(120_000_000)),
		}),
	}))

	select {
	case playing := <-mon.PlaybackChanges():
		if !playing {
			t.Error("expected playing=true")
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout: playback change was not emitted")
	}

	if mon.lengthUs != 120_000_000 {
		t.Errorf("expected length 120000000, got %d", mon.lengthUs)
	}

	// Same status again must not emit.
	mon.handleSignal(propsSignal(":1.100", "org.mpris.MediaPlayer2.Player", map[string]dbus.Variant{
		"PlaybackStatus": dbus.MakeVariant("Playing"),
	}))
	if len(mon.PlaybackChanges()) != 0 {
		t.Error("duplicate status should not be emitted")
	}
}

// TestHandleSignal_Fullscreen verifies the root interface Fullscreen property is authoritative.
func TestHandleSignal_Fullscreen(t *testing.T) {
	mon := newAttachedSource(&noopDBusClient{})

	mon.handleSignal(propsSignal(":1.100", "org.mpris.MediaPlayer2", map[string]dbus.Variant{
		"Fullscreen": dbus.MakeVariant(true),
	}))

	select {
	case full := <-mon.Changes():
		if !full {
			t.Error("expected fullscreen=true")
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout: fullscreen change was not emitted")
	}
	if !mon.IsFullscreen() {
		t.Error("IsFullscreen should reflect the signal")
	}
}

// TestHandleSignal_EdgeCases consolidates all invalid/ignored scenarios into a table test.
func TestHandleSignal_EdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		signal *dbus.Signal
	}{
		{
			name: "Wrong Signal Name",
			signal: &dbus.Signal{
				Name:   "org.freedesktop.DBus.SomeOtherSignal",
				Sender: ":1.100",
				Body:   []interface{}{},
			},
		},
		{
			name:   "Other Player",
			signal: propsSignal(":1.999", "org.mpris.MediaPlayer2.Player", map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Playing")}),
		},
		{
			name:   "Unrelated Interface",
			signal: propsSignal(":1.100", "org.mpris.MediaPlayer2.TrackList", map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant("Playing")}),
		},
		{
			name: "Short Body",
			signal: &dbus.Signal{
				Name:   "org.freedesktop.DBus.Properties.PropertiesChanged",
				Sender: ":1.100",
				Body:   []interface{}{"org.mpris.MediaPlayer2.Player"}, // Missing props
			},
		},
		{
			name:   "Invalid PlaybackStatus Type (Array instead of String)",
			signal: propsSignal(":1.100", "org.mpris.MediaPlayer2.Player", map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant([]string{"Playing"})}),
		},
		{
			name:   "Invalid Fullscreen Type",
			signal: propsSignal(":1.100", "org.mpris.MediaPlayer2", map[string]dbus.Variant{"Fullscreen": dbus.MakeVariant("yes")}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := newAttachedSource(&noopDBusClient{})

			mon.handleSignal(tt.signal)

			select {
			case <-mon.PlaybackChanges():
				t.Error("Should NOT emit playback change for invalid input")
			case <-mon.Changes():
				t.Error("Should NOT emit fullscreen change for invalid input")
			case <-time.After(50 * time.Millisecond):
				// Pass
			}
		})
	}
}

// TestApplyMetadata_LengthTypes tests the integer flavours players use for mpris:length
func TestApplyMetadata_LengthTypes(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected int64
	}{
		{"int64", int64(5_000_000), 5_000_000},
		{"uint64 (Non-compliant)", uint64(6_000_000), 6_000_000},
		{"int32 (Non-compliant)", int32(7_000_000), 7_000_000},
		{"string ignored", "8000000", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := newAttachedSource(&noopDBusClient{})
			mon.applyMetadata(map[string]dbus.Variant{"mpris:length": dbus.MakeVariant(tt.value)})
			if mon.lengthUs != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, mon.lengthUs)
			}
		})
	}
}

// TestHandleNameOwnerChanged verifies player lifecycle tracking
func TestHandleNameOwnerChanged(t *testing.T) {
	tests := []struct {
		name        string
		signalBody  []interface{}
		startOwner  string
		expectOwner string
	}{
		{
			name:        "Player Restarts",
			signalBody:  []interface{}{testPlayer, "", ":1.50"},
			startOwner:  "",
			expectOwner: ":1.50",
		},
		{
			name:        "Player Disappears",
			signalBody:  []interface{}{testPlayer, ":1.100", ""},
			startOwner:  ":1.100",
			expectOwner: "",
		},
		{
			name:        "Other Player Ignored",
			signalBody:  []interface{}{"org.mpris.MediaPlayer2.spotify", "", ":1.60"},
			startOwner:  ":1.100",
			expectOwner: ":1.100",
		},
		{
			name:        "Non-MPRIS Service Ignored",
			signalBody:  []interface{}{"com.example.service", "", ":1.99"},
			startOwner:  ":1.100",
			expectOwner: ":1.100",
		},
		{
			name:        "Short Body Ignored",
			signalBody:  []interface{}{testPlayer},
			startOwner:  ":1.100",
			expectOwner: ":1.100",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := newAttachedSource(&noopDBusClient{}) // Stub to avoid fetch panic
			mon.owner = tt.startOwner

			mon.handleNameOwnerChanged(&dbus.Signal{
				Name: "org.freedesktop.DBus.NameOwnerChanged",
				Body: tt.signalBody,
			})

			mon.mu.RLock()
			owner := mon.owner
			mon.mu.RUnlock()

			if owner != tt.expectOwner {
				t.Errorf("expected owner %q, got %q", tt.expectOwner, owner)
			}
		})
	}
}

// TestHandleNameOwnerChanged_RemovalReportsStopped checks that a vanished player reads as paused
func TestHandleNameOwnerChanged_RemovalReportsStopped(t *testing.T) {
	mon := newAttachedSource(&noopDBusClient{})
	mon.playing = true
	mon.full = true

	mon.handleNameOwnerChanged(&dbus.Signal{
		Name: "org.freedesktop.DBus.NameOwnerChanged",
		Body: []interface{}{testPlayer, ":1.100", ""},
	})

	if playing := <-mon.PlaybackChanges(); playing {
		t.Error("expected playing=false after removal")
	}
	if full := <-mon.Changes(); full {
		t.Error("expected fullscreen=false after removal")
	}
}

func TestDestination_NotAttached(t *testing.T) {
	mon := NewMprisSource(zap.NewNop(), scheduler.NewManual(), testPlayer, time.Second)
	if _, err := mon.destination(); err == nil {
		t.Error("expected error without connection")
	}

	mon.conn = &noopDBusClient{}
	if _, err := mon.destination(); err == nil {
		t.Error("expected error without owner")
	}
}

// noopDBusClient is a stub to prevent panics during unit tests where
// we don't want to use full mocks but code calls GetProperty/ListNames.
type noopDBusClient struct{}

func (n *noopDBusClient) Close() error                                         { return nil }
func (n *noopDBusClient) AddMatchSignal(...dbus.MatchOption) error             { return nil }
func (n *noopDBusClient) Signal(chan<- *dbus.Signal)                           {}
func (n *noopDBusClient) ListNames() ([]string, error)                         { return []string{}, nil }
func (n *noopDBusClient) GetNameOwner(string) (string, error)                  { return "", fmt.Errorf("noop") }
func (n *noopDBusClient) SetProperty(string, string, string, interface{}) error { return fmt.Errorf("noop") }
func (n *noopDBusClient) Call(string, string, string, ...interface{}) error    { return fmt.Errorf("noop") }
func (n *noopDBusClient) GetProperty(string, string, string) (dbus.Variant, error) {
	return dbus.MakeVariant(""), fmt.Errorf("noop")
}
