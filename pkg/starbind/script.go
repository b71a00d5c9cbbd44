// Package starbind exposes objects living in an embedded Starlark script
// as forward.Target implementations. A loaded script context resolves
// objects by name; member reads, writes, and calls are forwarded to the
// underlying Starlark values with value conversion at the boundary.
package starbind

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/leapstack-labs/dynabind/pkg/forward"
)

// scriptFileOptions mirror the Starlark REPL dialect. REPL-chunk
// execution leaves globals unfrozen, so member writes can land on
// resolved objects.
var scriptFileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
	Recursion:       true,
}

// Script is a loaded Starlark execution context. Globals defined by the
// script are resolvable as forwarding targets.
type Script struct {
	name   string
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	globals starlark.StringDict
}

// Option configures script loading.
type Option func(*Script)

// WithLogger sets the logger used by the script context and the
// forwarders it creates.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Script) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Load executes the Starlark file at path and returns its context.
func Load(path string, opts ...Option) (*Script, error) {
	s := newScript(path, path, opts)
	if err := s.exec(nil); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSource executes in-memory Starlark source. src follows the
// conventions of starlark.ExecFile (string, []byte, or io.Reader).
func LoadSource(name string, src any, opts ...Option) (*Script, error) {
	s := newScript(name, "", opts)
	if err := s.exec(src); err != nil {
		return nil, err
	}
	return s, nil
}

func newScript(name, path string, opts []Option) *Script {
	s := &Script{
		name:   name,
		path:   path,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// exec runs the script and swaps in the resulting globals.
// A nil src re-reads from the script's file path.
func (s *Script) exec(src any) error {
	if src == nil {
		data, err := os.ReadFile(s.path)
		if err != nil {
			return fmt.Errorf("failed to read script %s: %w", s.name, err)
		}
		src = data
	}

	f, err := scriptFileOptions.Parse(s.name, src, 0)
	if err != nil {
		return fmt.Errorf("failed to parse script %s: %w", s.name, err)
	}

	globals := make(starlark.StringDict)
	if err := starlark.ExecREPLChunk(f, newThread(s.name, s.logger), globals); err != nil {
		return fmt.Errorf("failed to execute script %s: %w", s.name, err)
	}

	s.mu.Lock()
	s.globals = globals
	s.mu.Unlock()

	s.logger.Debug("script loaded", "script", s.name, "globals", len(globals))
	return nil
}

// Reload re-executes a file-backed script, replacing its globals.
func (s *Script) Reload() error {
	if s.path == "" {
		return fmt.Errorf("script %s is not file-backed", s.name)
	}
	return s.exec(nil)
}

// Name returns the script's name.
func (s *Script) Name() string { return s.name }

// Globals returns the names defined by the script, sorted.
func (s *Script) Globals() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.globals))
	for name := range s.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns a forwarding handle over the named script global.
// Fails with MemberNotFoundError when the script defines no such name.
func (s *Script) Resolve(name string) (*forward.Forwarder, error) {
	s.mu.RLock()
	v, ok := s.globals[name]
	s.mu.RUnlock()
	if !ok {
		return nil, &forward.MemberNotFoundError{
			TargetKind: "script", Member: name, Available: s.Globals(),
		}
	}
	return forward.Wrap(newObjectTarget(name, v, s.logger), forward.WithLogger(s.logger)), nil
}

// newThread creates a Starlark thread for one execution.
// Script prints are routed to the owning script's debug log.
func newThread(name string, logger *slog.Logger) *starlark.Thread {
	return &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			logger.Debug("script print", "script", name, "msg", msg)
		},
	}
}
