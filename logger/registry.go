package logger

import "sync"

// components holds the named loggers handed out by Get. Entries derived from
// the global logger are dropped by SetGlobalLogger, so packages pick up a
// replacement such as a logger mirroring to a run log.
var components = struct {
	sync.Mutex
	byName map[string]*Logger
}{byName: make(map[string]*Logger)}

// Register pins the logger returned by Get(name).
func Register(name string, l *Logger) {
	components.Lock()
	defer components.Unlock()
	components.byName[name] = l
}

// Get returns the logger of a component: the registered one, or the global
// logger tagged with name.
func Get(name string) *Logger {
	components.Lock()
	defer components.Unlock()
	if l, ok := components.byName[name]; ok {
		return l
	}
	l := GetGlobalLogger().WithComponent(name)
	components.byName[name] = l
	return l
}

func resetRegistry() {
	components.Lock()
	defer components.Unlock()
	clear(components.byName)
}
