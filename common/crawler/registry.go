package crawler

import (
	"fmt"
	"maps"
	"sync"

	"github.com/bpresles/CasaNova/common/constants"
)

var (
	profileRegistry     = make(map[constants.Category]*Profile)
	profileRegistryLock sync.RWMutex
)

// RegisterProfile registers the scraper profile of a category. It panics on an
// invalid profile since registration happens from init functions.
func RegisterProfile(p *Profile) {
	if err := p.Validate(); err != nil {
		panic(err)
	}

	profileRegistryLock.Lock()
	defer profileRegistryLock.Unlock()
	profileRegistry[p.Category] = p
}

// GetProfile returns the profile registered for category
func GetProfile(category constants.Category) (*Profile, error) {
	profileRegistryLock.RLock()
	defer profileRegistryLock.RUnlock()

	p, ok := profileRegistry[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, category)
	}
	return p, nil
}

// Profiles returns the profile registry
func Profiles() map[constants.Category]*Profile {
	profileRegistryLock.RLock()
	defer profileRegistryLock.RUnlock()

	// Create a copy to avoid race conditions
	registryCopy := make(map[constants.Category]*Profile, len(profileRegistry))
	maps.Copy(registryCopy, profileRegistry)

	return registryCopy
}
