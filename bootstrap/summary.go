package bootstrap

import (
	"fmt"
	"io"
	"time"
)

// ToolInfo records an external binary resolved at startup.
type ToolInfo struct {
	Name  string
	Path  string
	Found bool
}

// Setting records one effective configuration value worth showing.
type Setting struct {
	Key   string
	Value string
}

// Summary tracks and displays what a command is about to run with.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	tools           []ToolInfo
	settings        []Setting
}

// NewSummary creates a new startup summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName: serviceName,
		version:     version,
		tools:       make([]ToolInfo, 0),
		settings:    make([]Setting, 0),
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackTool records a resolved (or missing) external binary.
func (s *Summary) TrackTool(name, path string, found bool) {
	s.tools = append(s.tools, ToolInfo{Name: name, Path: path, Found: found})
}

// TrackSetting records an effective setting.
func (s *Summary) TrackSetting(key, value string) {
	s.settings = append(s.settings, Setting{Key: key, Value: value})
}

// Tools returns the tracked tools.
func (s *Summary) Tools() []ToolInfo {
	return s.tools
}

// Display prints the summary to w.
func (s *Summary) Display(w io.Writer) {
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(w, "\n🚀 %s %s ready in %.2fs\n", s.serviceName, version, s.startupDuration.Seconds())

	if len(s.tools) > 0 {
		fmt.Fprintf(w, "\n🔧 Tools\n")
		for i, t := range s.tools {
			path := t.Path
			if !t.Found {
				path = "not found"
			}
			fmt.Fprintf(w, "   %s %s %s: %s\n", treePrefix(i, len(s.tools)), statusIcon(t.Found), t.Name, path)
		}
	}

	if len(s.settings) > 0 {
		fmt.Fprintf(w, "\n⚙️  Settings\n")
		for i, st := range s.settings {
			fmt.Fprintf(w, "   %s %s: %s\n", treePrefix(i, len(s.settings)), st.Key, st.Value)
		}
	}

	fmt.Fprintf(w, "\n")
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func statusIcon(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}
