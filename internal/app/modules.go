package app

import (
	"github.com/nfrund/biodex/internal/module"
	"github.com/nfrund/biodex/internal/modules/profiles"
	"github.com/nfrund/biodex/internal/modules/species"
)

// NewModules returns every active module. Each is mounted under
// "/"+Name() behind the session guard.
func NewModules() []module.Module {
	return []module.Module{
		profiles.New(),
		species.New(),
	}
}
