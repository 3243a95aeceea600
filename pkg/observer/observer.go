package observer

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/passview/pkg/artifact"
	"github.com/matzehuels/passview/pkg/cache"
	"github.com/matzehuels/passview/pkg/config"
	"github.com/matzehuels/passview/pkg/dag"
	perrors "github.com/matzehuels/passview/pkg/errors"
	"github.com/matzehuels/passview/pkg/observability"
	"github.com/matzehuels/passview/pkg/render/nodelink"
	"github.com/matzehuels/passview/pkg/sink"
)

// Graph is the mutable graph an Observer watches. *dag.DAG implements it.
type Graph interface {
	nodelink.Source
	RegisterCreateHook(h *dag.Hook) error
	UnregisterCreateHook(h *dag.Hook) error
	RegisterEraseHook(h *dag.Hook) error
	UnregisterEraseHook(h *dag.Hook) error
}

// Renderer captures a graph as a diagram. nodelink.Renderer implements it.
type Renderer interface {
	Snapshot(src nodelink.Source, label string) (*nodelink.Diagram, error)
}

type state int

const (
	stateDisabled state = iota
	stateReady
	stateArmed
	stateFinalized
)

// Observer records which nodes a single pass creates and erases and, when the
// pass changed anything, writes an input and an output diagram with those
// nodes highlighted.
//
// An Observer is single use: New, Enter, Exit. When no output destination is
// configured the Observer is disabled and every method is a no-op.
type Observer struct {
	graph    Graph
	pass     string
	seq      int
	id       uuid.UUID
	state    state
	format   nodelink.Format
	dest     string
	renderer Renderer
	sink     sink.Sink
	cache    cache.Cache
	logger   *log.Logger

	input      *nodelink.Diagram
	created    map[string]struct{}
	erased     map[string]struct{}
	createHook *dag.Hook
	eraseHook  *dag.Hook

	ctx       context.Context
	started   time.Time
	artifacts []string
}

// New prepares an observer for the pass named pass over g.
//
// When observation is enabled, New takes the next pass number from the
// sequence and snapshots g as the input diagram. When it is disabled, New
// touches neither the sequence nor the graph.
func New(g Graph, pass string, opts ...Option) (*Observer, error) {
	s := newSettings(opts)

	cfg := config.Current()
	if s.cfg != nil {
		cfg = *s.cfg
	}
	if !cfg.Enabled() {
		return &Observer{pass: pass, state: stateDisabled}, nil
	}

	if err := perrors.ValidatePassName(pass); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "graph is required")
	}
	format, err := cfg.Format()
	if err != nil {
		return nil, err
	}

	renderer := s.renderer
	if renderer == nil {
		renderer = nodelink.Renderer{Options: cfg.RenderOptions()}
	}
	logger := s.logger
	if logger == nil {
		logger = log.Default()
	}

	o := &Observer{
		graph:    g,
		pass:     pass,
		seq:      s.seq.Next(),
		id:       uuid.New(),
		state:    stateReady,
		format:   format,
		dest:     cfg.OutputDestination,
		renderer: renderer,
		sink:     s.sink,
		cache:    s.cache,
	}
	o.logger = logger.With("pass", pass, "seq", o.seq)

	o.input, err = renderer.Snapshot(g, pass)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeRender, err, "snapshot input of %s", pass)
	}
	return o, nil
}

// Enabled reports whether the observer records anything.
func (o *Observer) Enabled() bool { return o.state != stateDisabled }

// PassName returns the pass label.
func (o *Observer) PassName() string { return o.pass }

// Sequence returns the pass number, or 0 when disabled.
func (o *Observer) Sequence() int { return o.seq }

// ID returns the session identifier, or "" when disabled.
func (o *Observer) ID() string {
	if o.state == stateDisabled {
		return ""
	}
	return o.id.String()
}

// Created returns the IDs of nodes created while the observer was armed,
// sorted.
func (o *Observer) Created() []string { return sortedKeys(o.created) }

// Erased returns the IDs of nodes erased while the observer was armed,
// sorted.
func (o *Observer) Erased() []string { return sortedKeys(o.erased) }

// Artifacts returns the names of the artifacts written by Exit.
func (o *Observer) Artifacts() []string { return slices.Clone(o.artifacts) }

// =============================================================================
// Scope
// =============================================================================

// Enter subscribes to the graph's create and erase notifications. It is a
// no-op on a disabled observer and on any call after the first.
func (o *Observer) Enter(ctx context.Context) error {
	if o.state != stateReady {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	o.created = make(map[string]struct{})
	o.erased = make(map[string]struct{})
	o.createHook = dag.NewHook(func(n *dag.Node) { o.created[n.ID] = struct{}{} })
	o.eraseHook = dag.NewHook(func(n *dag.Node) { o.erased[n.ID] = struct{}{} })

	if err := o.graph.RegisterCreateHook(o.createHook); err != nil {
		return perrors.Wrap(perrors.ErrCodeSubscription, err, "subscribe %s to node creation", o.pass)
	}
	if err := o.graph.RegisterEraseHook(o.eraseHook); err != nil {
		_ = o.graph.UnregisterCreateHook(o.createHook)
		return perrors.Wrap(perrors.ErrCodeSubscription, err, "subscribe %s to node erasure", o.pass)
	}

	o.state = stateArmed
	o.ctx = ctx
	o.started = time.Now()
	observability.Pass().OnSessionStart(ctx, o.pass, o.seq)
	o.logger.Debug("observing", "session", o.id)
	return nil
}

// Exit unsubscribes from the graph and, if any node was created or erased,
// writes the input and output diagrams. Both subscriptions are removed even
// when removing one of them fails. Exit is a no-op unless Enter succeeded,
// and runs at most once.
func (o *Observer) Exit() error {
	if o.state != stateArmed {
		return nil
	}
	o.state = stateFinalized

	rendered, err := o.finalize(o.ctx)

	observability.Pass().OnSessionComplete(o.ctx, observability.SessionStats{
		Pass:     o.pass,
		Sequence: o.seq,
		Created:  len(o.created),
		Erased:   len(o.erased),
		Rendered: rendered,
		Duration: time.Since(o.started),
		Err:      err,
	})
	return err
}

// Run calls fn between Enter and Exit. Exit runs even when fn returns an
// error or panics; errors from fn and Exit are joined.
func (o *Observer) Run(ctx context.Context, fn func() error) (err error) {
	if err := o.Enter(ctx); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, o.Exit())
	}()
	return fn()
}

// Run observes fn as the pass named pass over g.
func Run(ctx context.Context, g Graph, pass string, fn func() error, opts ...Option) error {
	o, err := New(g, pass, opts...)
	if err != nil {
		return err
	}
	return o.Run(ctx, fn)
}

// =============================================================================
// Finalization
// =============================================================================

func (o *Observer) finalize(ctx context.Context) (rendered bool, err error) {
	errCreate := o.graph.UnregisterCreateHook(o.createHook)
	errErase := o.graph.UnregisterEraseHook(o.eraseHook)
	if err := errors.Join(errCreate, errErase); err != nil {
		return false, perrors.Wrap(perrors.ErrCodeSubscription, err, "unsubscribe %s", o.pass)
	}

	if len(o.created) == 0 && len(o.erased) == 0 {
		o.logger.Debug("no mutations, skipping diagrams")
		return false, nil
	}

	out, closeSink, err := o.openSink(ctx)
	if err != nil {
		return false, err
	}
	defer func() {
		err = errors.Join(err, closeSink())
	}()

	if err := highlight(o.input, o.erased); err != nil {
		return false, perrors.Wrap(perrors.ErrCodeRender, err, "highlight input of %s", o.pass)
	}
	if err := o.write(ctx, out, o.input, artifact.KindInput); err != nil {
		return false, err
	}

	output, err := o.renderer.Snapshot(o.graph, o.pass)
	if err != nil {
		return false, perrors.Wrap(perrors.ErrCodeRender, err, "snapshot output of %s", o.pass)
	}
	if err := highlight(output, o.created); err != nil {
		return false, perrors.Wrap(perrors.ErrCodeRender, err, "highlight output of %s", o.pass)
	}
	if err := o.write(ctx, out, output, artifact.KindOutput); err != nil {
		return false, err
	}

	o.logger.Debug("wrote diagrams",
		"created", len(o.created), "erased", len(o.erased), "backend", out.Backend())
	return true, nil
}

func (o *Observer) openSink(ctx context.Context) (sink.Sink, func() error, error) {
	if o.sink != nil {
		return o.sink, func() error { return nil }, nil
	}
	s, err := sink.Open(ctx, o.dest)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

func (o *Observer) write(ctx context.Context, out sink.Sink, d *nodelink.Diagram, kind artifact.Kind) error {
	data, err := o.render(ctx, d)
	if err != nil {
		return perrors.Wrap(perrors.ErrCodeRender, err, "render %s diagram of %s", kind, o.pass)
	}
	name := artifact.Name(o.seq, o.pass, kind, o.format.Ext())
	if err := out.Put(ctx, name, data); err != nil {
		return err
	}
	o.artifacts = append(o.artifacts, name)
	return nil
}

// render renders d in the observer's format, consulting the cache first.
// Cache failures only cost a Graphviz run.
func (o *Observer) render(ctx context.Context, d *nodelink.Diagram) ([]byte, error) {
	key := cache.RenderKey(d.ToDOT(), o.format.Ext())
	if data, ok, err := o.cache.Get(ctx, key); err != nil {
		o.logger.Warn("render cache read failed", "err", err)
	} else if ok {
		o.logger.Debug("render cache hit", "key", key)
		return data, nil
	}

	data, err := d.Render(ctx, o.format)
	if err != nil {
		return nil, err
	}
	if err := o.cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		o.logger.Warn("render cache write failed", "err", err)
	}
	return data, nil
}

// highlight paints every node in marked with the highlight color and every
// other node with the default color.
func highlight(d *nodelink.Diagram, marked map[string]struct{}) error {
	for _, id := range d.NodeIDs() {
		c := nodelink.ColorDefault
		if _, ok := marked[id]; ok {
			c = nodelink.ColorHighlight
		}
		if err := d.SetFillColor(id, c); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
