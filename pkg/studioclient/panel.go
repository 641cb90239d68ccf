package studioclient

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/lumen-studio/backend/pkg/studio"
)

// Field identifies one independently saved session setting.
type Field string

const (
	FieldScript Field = "teleprompter_script"
	FieldSpeed  Field = "teleprompter_speed"
	FieldMode   Field = "display_mode"
)

// SaveState is the per-field transient save indicator shown by the UI.
type SaveState int

const (
	SaveIdle SaveState = iota
	SaveSaving
	SaveSaved
	SaveFailed
)

func (s SaveState) String() string {
	switch s {
	case SaveSaving:
		return "saving"
	case SaveSaved:
		return "saved"
	case SaveFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Panel is the control-panel mutation surface for one session. Mutations are
// fire-and-forget: each runs on its own goroutine so concurrent edits to
// script and speed never block one another, and each reports its own save
// state. A panel without a token is a preview session: every mutation is a
// no-op that never reaches the backend.
type Panel struct {
	client   *Client
	token    string
	logger   *zap.Logger
	onChange func(Field, SaveState)

	mu     sync.Mutex
	states map[Field]SaveState
	wg     sync.WaitGroup
}

// PanelOption configures a Panel.
type PanelOption func(*Panel)

// WithSaveStateListener registers a callback invoked on every per-field save
// state transition.
func WithSaveStateListener(fn func(Field, SaveState)) PanelOption {
	return func(p *Panel) { p.onChange = fn }
}

// WithPanelLogger sets the panel logger.
func WithPanelLogger(logger *zap.Logger) PanelOption {
	return func(p *Panel) { p.logger = logger }
}

// NewPanel creates a control panel bound to a session token. An empty token
// creates a preview panel.
func NewPanel(client *Client, token string, opts ...PanelOption) *Panel {
	p := &Panel{
		client: client,
		token:  token,
		logger: zap.NewNop(),
		states: make(map[Field]SaveState),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Preview reports whether this panel is a tokenless preview session.
func (p *Panel) Preview() bool { return p.token == "" }

// FieldState returns the current save state of a field.
func (p *Panel) FieldState(f Field) SaveState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.states[f]
}

// SetTeleprompterScript saves a new teleprompter script.
func (p *Panel) SetTeleprompterScript(ctx context.Context, text string) {
	p.submit(ctx, FieldScript, func(ctx context.Context) error {
		return p.client.UpdateTeleprompterScript(ctx, p.token, text)
	})
}

// SetTeleprompterSpeed saves a new scroll speed, clamped to [1,100].
func (p *Panel) SetTeleprompterSpeed(ctx context.Context, percent int) {
	percent = studio.ClampScrollSpeed(percent)
	p.submit(ctx, FieldSpeed, func(ctx context.Context) error {
		return p.client.SetTeleprompterSpeed(ctx, p.token, percent)
	})
}

// SetDisplayMode switches the session display mode.
func (p *Panel) SetDisplayMode(ctx context.Context, mode studio.DisplayMode) {
	p.submit(ctx, FieldMode, func(ctx context.Context) error {
		return p.client.SetDisplayMode(ctx, p.token, mode)
	})
}

// Wait blocks until every in-flight mutation has settled. Surfaces call it
// on teardown; tests use it to observe final states.
func (p *Panel) Wait() { p.wg.Wait() }

func (p *Panel) submit(ctx context.Context, f Field, call func(context.Context) error) {
	if p.token == "" {
		return
	}
	p.setState(f, SaveSaving)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := call(ctx); err != nil {
			p.logger.Warn("save failed", zap.String("field", string(f)), zap.Error(err))
			p.setState(f, SaveFailed)
			return
		}
		p.setState(f, SaveSaved)
	}()
}

func (p *Panel) setState(f Field, s SaveState) {
	p.mu.Lock()
	p.states[f] = s
	p.mu.Unlock()
	if p.onChange != nil {
		p.onChange(f, s)
	}
}
