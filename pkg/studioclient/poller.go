package studioclient

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lumen-studio/backend/pkg/studio"
)

// ErrInvalidSession is the terminal poller state for a token the backend
// rejected before any snapshot succeeded.
var ErrInvalidSession = errors.New("invalid session")

// PollerConfig configures a status poller.
type PollerConfig struct {
	// Token identifies the session. Empty means direct-access mode: the
	// poller produces exactly one synthetic snapshot and never touches the
	// network.
	Token string
	// Interval between fetches. Defaults to DisplayPollInterval.
	Interval time.Duration
	// RouteHint is the display mode of the static route used in
	// direct-access mode. Invalid or empty hints fall back to podcast.
	RouteHint studio.DisplayMode
	// OnStatus is invoked after every successful snapshot, and once for the
	// synthetic direct-access snapshot.
	OnStatus func(studio.CustomerStatus)
	// OnError is invoked when a fetch fails before any snapshot succeeded.
	// Failures after a good snapshot are suppressed: the last snapshot
	// stays current so a live display never flashes an error over a blip.
	OnError func(error)
	Logger  *zap.Logger
}

// Poller projects backend session state onto one viewing surface. Each
// surface runs its own poller; propagation between surfaces is bounded only
// by the poll interval.
type Poller struct {
	client *Client
	cfg    PollerConfig
	logger *zap.Logger

	mu      sync.Mutex
	last    *studio.CustomerStatus
	lastErr error

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewPoller creates a poller. Call Start to begin and Stop to tear down.
func NewPoller(client *Client, cfg PollerConfig) *Poller {
	if cfg.Interval <= 0 {
		cfg.Interval = DisplayPollInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{client: client, cfg: cfg, logger: logger}
}

// DirectStatus builds the synthetic snapshot used when a display surface is
// reached without a token (kiosk preview).
func DirectStatus(hint studio.DisplayMode) studio.CustomerStatus {
	mode := hint
	if !mode.Valid() {
		mode = studio.ModePodcast
	}
	return studio.CustomerStatus{
		DisplayMode:             string(mode),
		TeleprompterScrollSpeed: studio.DefaultScrollSpeed,
	}
}

// Start begins polling. It is a no-op after the first call.
func (p *Poller) Start() {
	p.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		p.done = make(chan struct{})

		if p.cfg.Token == "" {
			st := DirectStatus(p.cfg.RouteHint)
			p.store(st)
			close(p.done)
			return
		}
		go p.run(ctx)
	})
}

// Stop cancels polling and waits for the loop to exit. After Stop returns no
// further fetches are issued and the timer is released.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

// Current returns the last good snapshot, if any.
func (p *Poller) Current() (studio.CustomerStatus, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return studio.CustomerStatus{}, false
	}
	return *p.last, true
}

// Err returns the terminal error state, nil while the poller holds a
// snapshot or has not yet failed.
func (p *Poller) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	if terminal := p.poll(ctx); terminal {
		return
	}
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if terminal := p.poll(ctx); terminal {
				return
			}
		}
	}
}

// poll fetches one snapshot. It returns true when the session is invalid and
// no snapshot ever succeeded; retrying a rejected token is pointless.
func (p *Poller) poll(ctx context.Context) (terminal bool) {
	st, err := p.client.GetCustomerStatus(ctx, p.cfg.Token)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.mu.Lock()
		hasSnapshot := p.last != nil
		p.mu.Unlock()
		if hasSnapshot {
			p.logger.Debug("poll failed, keeping last snapshot", zap.Error(err))
			return false
		}
		pollErr := err
		if IsNotFound(err) {
			pollErr = ErrInvalidSession
		}
		p.mu.Lock()
		p.lastErr = pollErr
		p.mu.Unlock()
		if p.cfg.OnError != nil {
			p.cfg.OnError(pollErr)
		}
		return pollErr == ErrInvalidSession
	}
	p.store(*st)
	return false
}

func (p *Poller) store(st studio.CustomerStatus) {
	p.mu.Lock()
	p.last = &st
	p.lastErr = nil
	p.mu.Unlock()
	if p.cfg.OnStatus != nil {
		p.cfg.OnStatus(st)
	}
}
