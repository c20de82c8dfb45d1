package module

import "sync"

// process wide port sets keyed by module name, filled once by api.Mount
var (
	mu  sync.RWMutex
	reg = map[string]any{}
)

// Register stores the port set of a module
func Register(name string, ports any) {
	mu.Lock()
	defer mu.Unlock()
	reg[name] = ports
}

// PortsAs returns the port set registered under name when it is a T
func PortsAs[T any](name string) (T, bool) {
	mu.RLock()
	v, ok := reg[name]
	mu.RUnlock()
	out, ok2 := v.(T)
	return out, ok && ok2
}

// Reset empties the registry between tests
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	reg = map[string]any{}
}
