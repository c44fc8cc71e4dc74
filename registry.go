package main

// Registry maps a player handle to the outbound buffer of its connection.
// It is owned by the hub goroutine and is not safe for concurrent use.
type Registry struct {
	conns map[string]chan<- []byte
}

func newRegistry() *Registry {
	return &Registry{conns: make(map[string]chan<- []byte)}
}

// Register stores send for handle, replacing any stale entry.
func (r *Registry) Register(handle string, send chan<- []byte) {
	r.conns[handle] = send
}

func (r *Registry) Unregister(handle string) {
	delete(r.conns, handle)
}

func (r *Registry) Lookup(handle string) (chan<- []byte, bool) {
	send, ok := r.conns[handle]
	return send, ok
}

func (r *Registry) Len() int {
	return len(r.conns)
}
