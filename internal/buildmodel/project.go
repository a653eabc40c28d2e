// Package buildmodel is the in-memory side of the host build system that a
// resolved signing config is handed to: a named signing-config registry and
// the build types that reference it.
package buildmodel

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kingrea/keysign/internal/signing"
)

const (
	// ReleaseVariant is the only build type a resolved config is attached to.
	ReleaseVariant = "release"
	DebugVariant   = "debug"
)

// BuildType is one build variant of the application.
type BuildType struct {
	Name          string
	SigningConfig string // name in the registry, empty when unset
}

// Project holds the signing registry and build types for one application.
type Project struct {
	Namespace string

	mu             sync.RWMutex
	signingConfigs map[string]signing.SigningConfig
	buildTypes     map[string]*BuildType
}

// NewProject returns a project with the default debug and release build
// types and no signing configs.
func NewProject(namespace string) *Project {
	return &Project{
		Namespace:      namespace,
		signingConfigs: map[string]signing.SigningConfig{},
		buildTypes: map[string]*BuildType{
			DebugVariant:   {Name: DebugVariant},
			ReleaseVariant: {Name: ReleaseVariant},
		},
	}
}

// RegisterSigningConfig stores cfg under name. Returns an error if the name
// already exists or cfg was not produced by the resolver.
func (p *Project) RegisterSigningConfig(name string, cfg signing.SigningConfig) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("buildmodel: signing config name is required")
	}
	if cfg.IsZero() {
		return fmt.Errorf("buildmodel: signing config %s is empty", name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, exists := p.signingConfigs[name]; exists {
		return fmt.Errorf("buildmodel: signing config %s already registered", name)
	}
	p.signingConfigs[name] = cfg
	return nil
}

// SigningConfig looks up a registered config by name.
func (p *Project) SigningConfig(name string) (signing.SigningConfig, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	cfg, ok := p.signingConfigs[name]
	return cfg, ok
}

// ApplyRelease registers cfg as "release" and points the release build type
// at it. No other build type is touched.
func (p *Project) ApplyRelease(cfg signing.SigningConfig) error {
	if err := p.RegisterSigningConfig(ReleaseVariant, cfg); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	bt, ok := p.buildTypes[ReleaseVariant]
	if !ok {
		return fmt.Errorf("buildmodel: unknown build type %s", ReleaseVariant)
	}
	bt.SigningConfig = ReleaseVariant
	return nil
}

// BuildType returns a copy of the named build type.
func (p *Project) BuildType(name string) (BuildType, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	bt, ok := p.buildTypes[name]
	if !ok {
		return BuildType{}, false
	}
	return *bt, true
}

// BuildTypes returns all build types sorted by name.
func (p *Project) BuildTypes() []BuildType {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]BuildType, 0, len(p.buildTypes))
	for _, bt := range p.buildTypes {
		out = append(out, *bt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Invocation identifies one build run. A signing config is produced once
// per invocation.
type Invocation struct {
	ID        string
	StartedAt time.Time
}

// NewInvocation stamps a fresh invocation.
func NewInvocation() Invocation {
	return Invocation{ID: uuid.NewString(), StartedAt: time.Now().UTC()}
}

// Short returns the first block of the invocation ID for log lines.
func (inv Invocation) Short() string {
	if i := strings.IndexByte(inv.ID, '-'); i > 0 {
		return inv.ID[:i]
	}
	return inv.ID
}
