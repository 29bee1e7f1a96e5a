package notify

// Registry is a simple map-based ChannelRegistry. Channels are registered
// during startup; reads after that are not synchronized.
type Registry struct {
	channels map[string]Channel
	order    []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]Channel),
	}
}

// Register adds a channel under the given name. Registration order is the
// delivery preference order.
func (r *Registry) Register(name string, ch Channel) {
	if _, exists := r.channels[name]; !exists {
		r.order = append(r.order, name)
	}
	r.channels[name] = ch
}

// Get returns the channel for the given name, or false if not registered.
func (r *Registry) Get(name string) (Channel, bool) {
	ch, ok := r.channels[name]
	return ch, ok
}

// Names returns registered channel names in registration order.
func (r *Registry) Names() []string {
	return r.order
}
