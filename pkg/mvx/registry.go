package mvx

import (
	"github.com/gnodet/mvx/pkg/backend"
	"github.com/gnodet/mvx/pkg/tools"
)

// DefaultRegistry wires every core tool tools.Manager auto-discovered into
// the capability-trait registry, the process-start wiring step §9 calls for
// ("concrete backends are registered at process start; scheduler code talks
// to the trait only"). GitHub-release and git sourced backends register
// themselves the same way wherever cmd/ knows their repo/ref configuration;
// DefaultRegistry only covers the core set.
func DefaultRegistry(manager *tools.Manager) *backend.Registry {
	registry := backend.NewRegistry()
	for _, tool := range manager.GetAllTools() {
		registry.Register(backend.NewCoreBackend(manager, tool))
	}
	return registry
}
