package analyzer

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/reportportal/service-api-sub011/internal/logger"
	"github.com/reportportal/service-api-sub011/internal/utils"
)

// Instance is one registered analyzer service.
type Instance struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Priority int    `yaml:"priority"`
}

type registryFile struct {
	Analyzers []Instance `yaml:"analyzers"`
}

// Registry tracks which analyzer services are currently registered. An empty
// registry means no clustering can start at all.
type Registry struct {
	mu        sync.RWMutex
	instances []Instance
	log       *logger.Logger
}

func NewRegistry(log *logger.Logger, instances ...Instance) *Registry {
	r := &Registry{log: log.With("component", "AnalyzerRegistry")}
	for _, inst := range instances {
		r.Register(inst)
	}
	return r
}

// NewRegistryFromEnv builds the registry from ANALYZER_URLS (comma separated,
// takes precedence) or the YAML file named by ANALYZER_REGISTRY_FILE.
func NewRegistryFromEnv(log *logger.Logger) (*Registry, error) {
	r := NewRegistry(log)

	if urls := strings.TrimSpace(utils.GetEnv("ANALYZER_URLS", "", log)); urls != "" {
		for i, raw := range strings.Split(urls, ",") {
			u := strings.TrimSpace(raw)
			if u == "" {
				continue
			}
			r.Register(Instance{Name: fmt.Sprintf("analyzer-%d", i+1), URL: u, Priority: i + 1})
		}
		return r, nil
	}

	path := strings.TrimSpace(utils.GetEnv("ANALYZER_REGISTRY_FILE", "", log))
	if path == "" {
		r.log.Warn("No analyzer services configured")
		return r, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analyzer registry file: %w", err)
	}
	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse analyzer registry file: %w", err)
	}
	for _, inst := range file.Analyzers {
		r.Register(inst)
	}
	return r, nil
}

func (r *Registry) Register(inst Instance) {
	if strings.TrimSpace(inst.URL) == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.instances {
		if existing.Name == inst.Name {
			r.instances[i] = inst
			return
		}
	}
	r.instances = append(r.instances, inst)
	if r.log != nil {
		r.log.Info("Analyzer registered", "name", inst.Name, "url", inst.URL, "priority", inst.Priority)
	}
}

func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.instances {
		if existing.Name == name {
			r.instances = append(r.instances[:i], r.instances[i+1:]...)
			return
		}
	}
}

// Instances returns the registered analyzers ordered by ascending priority.
func (r *Registry) Instances() []Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Instance, len(r.instances))
	copy(out, r.instances)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

func (r *Registry) HasClients() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.instances) > 0
}
