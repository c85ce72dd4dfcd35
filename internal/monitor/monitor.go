//go:build linux
// +build linux

package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/veribee/demoreel/internal/domain"
	"go.uber.org/zap"
)

const (
	mprisPrefix     = "org.mpris.MediaPlayer2."
	mprisPath       = "/org/mpris/MediaPlayer2"
	mprisRoot       = "org.mpris.MediaPlayer2"
	mprisPlayer     = "org.mpris.MediaPlayer2.Player"
	propsChanged    = "org.freedesktop.DBus.Properties.PropertiesChanged"
	nameOwnerChange = "org.freedesktop.DBus.NameOwnerChanged"

	// AutoPlayer selects the first MPRIS player found on the bus
	AutoPlayer = "auto"
)

// MprisSource drives an external media player over the D-Bus MPRIS interface.
// It is at once the transport's media source, its time source (Position
// polling) and its fullscreen platform (the root Fullscreen property).
type MprisSource struct {
	logger       *zap.Logger
	sched        domain.Scheduler
	pollInterval time.Duration
	dial         func() (DBusClient, error)

	mu              sync.RWMutex
	running         bool
	cancel          context.CancelFunc
	conn            DBusClient     // Interface for testability
	lastDropWarning time.Time      // Rate limiting for "channel full" warnings
	wg              sync.WaitGroup // Tracks active producer goroutines
	pollTask        domain.Task

	player    string // Well-known name, e.g. org.mpris.MediaPlayer2.vlc
	owner     string // Unique bus name currently owning player, e.g. :1.45
	lengthUs  int64
	playing   bool
	full      bool
	updates   chan domain.TimeUpdate
	playback  chan bool
	fullscrns chan bool
}

// NewMprisSource creates a source bound to the given well-known player name,
// or to the first player on the bus when player is AutoPlayer.
func NewMprisSource(logger *zap.Logger, sched domain.Scheduler, player string, pollInterval time.Duration) *MprisSource {
	return &MprisSource{
		logger:       logger,
		sched:        sched,
		pollInterval: pollInterval,
		dial:         NewStdDBusClient,
		player:       player,
		updates:      make(chan domain.TimeUpdate, 10),
		playback:     make(chan bool, 10),
		fullscrns:    make(chan bool, 10),
	}
}

// Connect attaches to the session bus, reads the initial player state and
// starts signal monitoring and position polling. It returns once attached.
func (m *MprisSource) Connect(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true

	monitorCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()

	// Connect to Session Bus (this may block)
	conn, err := m.dial()
	if err != nil {
		m.logger.Error("Failed to connect to session bus", zap.Error(err))
		m.mu.Lock()
		defer m.mu.Unlock()
		m.running = false
		m.cancel = nil
		cancel()
		return fmt.Errorf("session bus connection failed: %w", err)
	}

	// Check if we were stopped while connecting to D-Bus
	if err := ctx.Err(); err != nil {
		m.abortConnect(conn)
		return err
	}

	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(mprisPath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		m.logger.Error("Failed to add match signal", zap.Error(err))
		m.abortConnect(conn)
		return fmt.Errorf("failed to add match signal: %w", err)
	}

	// Track the player appearing and disappearing
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
	); err != nil {
		m.logger.Warn("Failed to add NameOwnerChanged match signal", zap.Error(err))
	}

	if err := m.resolvePlayer(); err != nil {
		// Non-fatal: the player may start later and NameOwnerChanged will find it.
		m.logger.Warn("MPRIS player not available yet", zap.String("player", m.player), zap.Error(err))
	}

	m.wg.Add(1)
	go m.monitorSignals(monitorCtx)

	m.mu.Lock()
	m.pollTask = m.sched.Every(m.pollInterval, m.pollPosition)
	m.mu.Unlock()

	m.logger.Info("MPRIS source connected", zap.String("player", m.player))
	return nil
}

// abortConnect undoes a partial Connect so that a later Connect can retry
func (m *MprisSource) abortConnect(conn DBusClient) {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.cancel = nil
	m.conn = nil
	m.running = false
	m.mu.Unlock()

	if err := conn.Close(); err != nil {
		m.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
	}
}

// Close stops monitoring, releases the poll task and the bus connection
func (m *MprisSource) Close() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	if m.cancel != nil {
		m.cancel()
	}
	task := m.pollTask
	m.pollTask = nil
	m.running = false
	m.mu.Unlock()

	if task != nil {
		task.Cancel()
	}

	// Wait for all producer goroutines to terminate before closing channels
	// This prevents "send on closed channel" panic
	m.logger.Debug("Waiting for monitoring goroutines to finish")
	m.wg.Wait()

	close(m.updates)
	close(m.playback)
	close(m.fullscrns)

	var err error
	m.mu.Lock()
	if m.conn != nil {
		if err = m.conn.Close(); err != nil {
			m.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
		}
	}
	m.mu.Unlock()

	m.logger.Info("MPRIS source shutdown complete")
	return err
}

// Play asks the player to start. MPRIS players have no autoplay policy so
// the origin is only logged.
func (m *MprisSource) Play(ctx context.Context, origin domain.PlayOrigin) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest, err := m.destination()
	if err != nil {
		return err
	}
	if err := m.conn.Call(dest, mprisPath, mprisPlayer+".Play"); err != nil {
		return fmt.Errorf("mpris play: %w", err)
	}
	m.logger.Debug("MPRIS play sent", zap.String("origin", origin.String()))
	return nil
}

// Pause asks the player to pause
func (m *MprisSource) Pause(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest, err := m.destination()
	if err != nil {
		return err
	}
	if err := m.conn.Call(dest, mprisPath, mprisPlayer+".Pause"); err != nil {
		return fmt.Errorf("mpris pause: %w", err)
	}
	return nil
}

// Request sets the player's Fullscreen property when it allows it
func (m *MprisSource) Request(ctx context.Context) error {
	return m.setFullscreen(ctx, true)
}

// Exit clears the player's Fullscreen property
func (m *MprisSource) Exit(ctx context.Context) error {
	return m.setFullscreen(ctx, false)
}

func (m *MprisSource) setFullscreen(ctx context.Context, full bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest, err := m.destination()
	if err != nil {
		return err
	}

	variant, err := m.conn.GetProperty(dest, mprisPath, mprisRoot+".CanSetFullscreen")
	if err != nil {
		return fmt.Errorf("failed to query CanSetFullscreen: %w", err)
	}
	if can, ok := variant.Value().(bool); !ok || !can {
		return domain.ErrFullscreenUnsupported
	}

	if err := m.conn.SetProperty(dest, mprisPath, mprisRoot+".Fullscreen", full); err != nil {
		return fmt.Errorf("failed to set Fullscreen: %w", err)
	}
	return nil
}

// IsFullscreen reports the last Fullscreen value announced by the player
func (m *MprisSource) IsFullscreen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.full
}

// TimeUpdates returns a read-only channel of position reports
func (m *MprisSource) TimeUpdates() <-chan domain.TimeUpdate {
	return m.updates
}

// PlaybackChanges emits the player's own PlaybackStatus transitions
func (m *MprisSource) PlaybackChanges() <-chan bool {
	return m.playback
}

// Changes emits the player's Fullscreen transitions
func (m *MprisSource) Changes() <-chan bool {
	return m.fullscrns
}

// destination returns the bus name to address, failing when no player is attached
func (m *MprisSource) destination() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.conn == nil {
		return "", errors.New("mpris source not connected")
	}
	if m.owner == "" {
		return "", fmt.Errorf("mpris player %s not on the bus", m.player)
	}
	return m.player, nil
}

// resolvePlayer finds the player's unique bus name and reads its initial state
func (m *MprisSource) resolvePlayer() error {
	if m.player == AutoPlayer || m.player == "" {
		name, err := m.detectPlayer()
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.player = name
		m.mu.Unlock()
	}

	owner, err := m.conn.GetNameOwner(m.player)
	if err != nil {
		return fmt.Errorf("failed to resolve owner: %w", err)
	}

	m.mu.Lock()
	m.owner = owner
	m.mu.Unlock()

	m.logger.Debug("Mapped player name",
		zap.String("unique", owner),
		zap.String("wellKnown", m.player))

	return m.fetchPlayerState()
}

// detectPlayer queries D-Bus for the first running MPRIS player
func (m *MprisSource) detectPlayer() (string, error) {
	names, err := m.conn.ListNames()
	if err != nil {
		return "", fmt.Errorf("failed to list bus names: %w", err)
	}

	for _, name := range names {
		if strings.HasPrefix(name, mprisPrefix) {
			m.logger.Info("Detected MPRIS player", zap.String("name", name))
			return name, nil
		}
	}
	return "", errors.New("no MPRIS player on the bus")
}

// fetchPlayerState reads PlaybackStatus, track length and Fullscreen and emits them
func (m *MprisSource) fetchPlayerState() error {
	statusVariant, err := m.conn.GetProperty(m.player, mprisPath, mprisPlayer+".PlaybackStatus")
	if err != nil {
		return fmt.Errorf("failed to get playback status: %w", err)
	}
	status, ok := statusVariant.Value().(string)
	if !ok {
		return fmt.Errorf("invalid playback status format")
	}
	m.applyStatus(status)

	// SAFE CAST: Some players may return nil or unexpected types if not playing anything
	if variant, err := m.conn.GetProperty(m.player, mprisPath, mprisPlayer+".Metadata"); err == nil {
		if metadata, ok := variant.Value().(map[string]dbus.Variant); ok {
			m.applyMetadata(metadata)
		}
	}

	// Fullscreen is optional in MPRIS; players without it stay windowed.
	if variant, err := m.conn.GetProperty(m.player, mprisPath, mprisRoot+".Fullscreen"); err == nil {
		if full, ok := variant.Value().(bool); ok {
			m.applyFullscreen(full)
		}
	}
	return nil
}

// monitorSignals listens for D-Bus signals and processes them
func (m *MprisSource) monitorSignals(ctx context.Context) {
	defer m.wg.Done() // Signal completion when goroutine exits

	signals := make(chan *dbus.Signal, 10)
	m.conn.Signal(signals)

	m.logger.Info("Signal monitoring goroutine started")

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Signal monitoring goroutine stopped")
			return
		case sig := <-signals:
			if sig == nil {
				continue
			}
			if sig.Name == nameOwnerChange {
				m.handleNameOwnerChanged(sig)
			} else {
				m.handleSignal(sig)
			}
		}
	}
}

// handleNameOwnerChanged follows our player across restarts
func (m *MprisSource) handleNameOwnerChanged(sig *dbus.Signal) {
	if len(sig.Body) < 3 {
		return
	}

	name, ok := sig.Body[0].(string)
	if !ok || !strings.HasPrefix(name, mprisPrefix) {
		return // Not an MPRIS player
	}

	m.mu.RLock()
	player := m.player
	m.mu.RUnlock()

	if player != name && player != AutoPlayer && player != "" {
		return
	}

	oldOwner, _ := sig.Body[1].(string)
	newOwner, _ := sig.Body[2].(string)

	switch {
	case newOwner != "":
		m.mu.Lock()
		m.player = name
		m.owner = newOwner
		m.mu.Unlock()

		m.logger.Info("MPRIS player attached",
			zap.String("player", name),
			zap.String("unique", newOwner),
			zap.String("previous", oldOwner))

		if err := m.fetchPlayerState(); err != nil {
			m.logger.Warn("Failed to fetch state from new player",
				zap.String("player", name),
				zap.Error(err))
		}

	case oldOwner != "":
		m.mu.Lock()
		m.owner = ""
		m.lengthUs = 0
		m.mu.Unlock()

		m.logger.Info("MPRIS player removed",
			zap.String("player", name),
			zap.String("unique", oldOwner))

		m.applyStatus("Stopped")
		m.applyFullscreen(false)
	}
}

// handleSignal processes a PropertiesChanged signal from our player
func (m *MprisSource) handleSignal(sig *dbus.Signal) {
	// PropertiesChanged signal has 3 arguments:
	// 1. Interface name (string)
	// 2. Changed properties (map[string]Variant)
	// 3. Invalidated properties ([]string)

	if sig.Name != propsChanged {
		return
	}

	if len(sig.Body) < 2 {
		return
	}

	m.mu.RLock()
	owner := m.owner
	m.mu.RUnlock()
	if owner == "" || sig.Sender != owner {
		return
	}

	interfaceName, ok := sig.Body[0].(string)
	if !ok {
		return
	}

	changedProps, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	m.logger.Debug("Received PropertiesChanged signal",
		zap.String("sender", sig.Sender),
		zap.String("interface", interfaceName),
		zap.Int("properties", len(changedProps)))

	switch interfaceName {
	case mprisPlayer:
		if v, ok := changedProps["PlaybackStatus"]; ok {
			if status, ok := v.Value().(string); ok {
				m.applyStatus(status)
			} else {
				m.logger.Warn("Invalid playback status format in signal, ignoring")
			}
		}
		if v, ok := changedProps["Metadata"]; ok {
			if metadata, ok := v.Value().(map[string]dbus.Variant); ok {
				m.applyMetadata(metadata)
			} else {
				m.logger.Warn("Invalid metadata format in signal, ignoring")
			}
		}

	case mprisRoot:
		if v, ok := changedProps["Fullscreen"]; ok {
			if full, ok := v.Value().(bool); ok {
				m.applyFullscreen(full)
			}
		}
	}
}

// applyStatus records a PlaybackStatus string and emits it when it changed
func (m *MprisSource) applyStatus(status string) {
	playing := status == string(domain.StatusPlaying)

	m.mu.Lock()
	changed := m.playing != playing
	m.playing = playing
	m.mu.Unlock()

	if !changed {
		return
	}
	m.logger.Info("Player status changed", zap.String("status", status))
	m.emitBool(m.playback, playing)
}

// applyMetadata extracts the track length in microseconds
func (m *MprisSource) applyMetadata(metadata map[string]dbus.Variant) {
	lengthVar, ok := metadata["mpris:length"]
	if !ok {
		return
	}

	var length int64
	switch v := lengthVar.Value().(type) {
	case int64:
		length = v
	case uint64:
		length = int64(v)
	case int32:
		length = int64(v)
	default:
		// Some non-compliant players may use unexpected types
		m.logger.Debug("Unexpected length type in metadata",
			zap.String("type", fmt.Sprintf("%T", lengthVar.Value())))
		return
	}

	m.mu.Lock()
	m.lengthUs = length
	m.mu.Unlock()
}

// applyFullscreen records the authoritative fullscreen flag and emits changes
func (m *MprisSource) applyFullscreen(full bool) {
	m.mu.Lock()
	changed := m.full != full
	m.full = full
	m.mu.Unlock()

	if changed {
		m.emitBool(m.fullscrns, full)
	}
}

// pollPosition reads Position and emits a time update. MPRIS does not signal
// Position changes, so it has to be polled.
func (m *MprisSource) pollPosition() {
	m.mu.RLock()
	owner, player, length, playing, running := m.owner, m.player, m.lengthUs, m.playing, m.running
	m.mu.RUnlock()

	if !running || owner == "" || !playing {
		return
	}

	variant, err := m.conn.GetProperty(player, mprisPath, mprisPlayer+".Position")
	if err != nil {
		m.logger.Debug("Failed to read position", zap.Error(err))
		return
	}
	pos, ok := variant.Value().(int64)
	if !ok {
		return
	}

	update := domain.TimeUpdate{
		CurrentTime: float64(pos) / 1e6,
		Duration:    float64(length) / 1e6,
	}

	// Non-blocking send: a slow consumer only loses stale positions
	select {
	case m.updates <- update:
	default:
		m.logChannelFullWarning()
	}
}

func (m *MprisSource) emitBool(ch chan bool, v bool) {
	m.mu.RLock()
	running := m.running
	m.mu.RUnlock()
	if !running {
		return
	}

	select {
	case ch <- v:
	default:
		m.logChannelFullWarning()
	}
}

// logChannelFullWarning logs a warning about channel being full, but rate-limited
// to avoid log spam
func (m *MprisSource) logChannelFullWarning() {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Rate limit to max one warning per 5 seconds
	const warningInterval = 5 * time.Second
	now := time.Now()

	if now.Sub(m.lastDropWarning) >= warningInterval {
		m.logger.Warn("Event channel full, dropping player update (consumer may be slow)")
		m.lastDropWarning = now
	}
}
