package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/sports/american_football"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/sports/baseball"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/sports/basketball"
	"github.com/XavierBriggs/fortuna/services/game-results-service/internal/sports/hockey"
	"github.com/XavierBriggs/fortuna/services/game-results-service/pkg/contracts"
)

// ErrUnknownSport is returned for a sport key with no registered module
var ErrUnknownSport = errors.New("sport module not found")

// Registry manages available sport modules
type Registry struct {
	modules map[string]contracts.SportModule
}

// New creates a registry with every sport. Only the sports named in enabled
// accept games; an empty list enables all of them.
func New(enabled []string) *Registry {
	on := func(key string) bool {
		if len(enabled) == 0 {
			return true
		}
		for _, k := range enabled {
			if k == key {
				return true
			}
		}
		return false
	}

	r := &Registry{
		modules: make(map[string]contracts.SportModule),
	}

	r.Register(american_football.New(on("american_football")))
	r.Register(basketball.New(on("basketball")))
	r.Register(baseball.New(on("baseball")))
	r.Register(hockey.New(on("hockey")))

	return r
}

// Register adds a sport module to the registry
func (r *Registry) Register(module contracts.SportModule) {
	r.modules[module.GetSportKey()] = module
}

// GetModule retrieves an enabled sport module by key
func (r *Registry) GetModule(sportKey string) (contracts.SportModule, error) {
	module, ok := r.modules[sportKey]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSport, sportKey)
	}
	if !module.IsEnabled() {
		return nil, fmt.Errorf("sport module disabled: %s", sportKey)
	}
	return module, nil
}

// EnabledSports returns all enabled sport modules, sorted by key
func (r *Registry) EnabledSports() []contracts.SportModule {
	var enabled []contracts.SportModule
	for _, m := range r.modules {
		if m.IsEnabled() {
			enabled = append(enabled, m)
		}
	}
	sort.Slice(enabled, func(i, j int) bool { return enabled[i].GetSportKey() < enabled[j].GetSportKey() })
	return enabled
}

// AllSportKeys returns all registered sport keys
func (r *Registry) AllSportKeys() []string {
	keys := make([]string, 0, len(r.modules))
	for key := range r.modules {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
