package metrics

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// SampleSystem reads host memory and CPU usage and updates the system gauges.
func (m *Manager) SampleSystem(ctx context.Context) error {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: memory: %w", ErrObserveFailed, err)
	}
	// interval 0 compares against the previous call
	pct, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return fmt.Errorf("%w: cpu: %w", ErrObserveFailed, err)
	}
	var cpuPct float64
	if len(pct) > 0 {
		cpuPct = pct[0]
	}
	m.UpdateSystem(vm.Used, runtime.NumGoroutine(), cpuPct)
	return nil
}

// RunSystemCollector samples system gauges every RefreshInterval until ctx is done.
// Sampling errors are passed to onErr when it is non-nil.
func (m *Manager) RunSystemCollector(ctx context.Context, onErr func(error)) {
	ticker := time.NewTicker(m.refreshInterval)
	defer ticker.Stop()

	for {
		if err := m.SampleSystem(ctx); err != nil && onErr != nil {
			onErr(err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
