package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kbukum/ntfywatch/component"
)

// Summary prints the startup overview: what was started and how healthy it
// is right now.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	out             io.Writer
}

// NewSummary creates a summary writing to out.
func NewSummary(serviceName, version string, out io.Writer) *Summary {
	return &Summary{serviceName: serviceName, version: version, out: out}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Display prints component descriptions and live health from registry.
func (s *Summary) Display(ctx context.Context, registry *component.Registry) {
	w := s.out
	fmt.Fprintf(w, "\n%s %s started in %.2fs\n\n", s.serviceName, s.version, s.startupDuration.Seconds())

	descs := registry.Descriptions()
	if len(descs) == 0 {
		fmt.Fprintf(w, "   └── No components registered\n\n")
		return
	}

	fmt.Fprintf(w, "Components\n")
	for i, d := range descs {
		fmt.Fprintf(w, "   %s %s [%s]: %s\n", branch(i, len(descs)), d.Name, d.Type, d.Details)
	}

	health := registry.HealthAll(ctx)
	fmt.Fprintf(w, "\nHealth\n")
	for i, h := range health {
		msg := ""
		if h.Message != "" {
			msg = " (" + h.Message + ")"
		}
		fmt.Fprintf(w, "   %s %s %s: %s%s\n", branch(i, len(health)), healthIcon(h.Status), h.Name, h.Status, msg)
	}
	fmt.Fprintf(w, "\n")
}

func branch(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
