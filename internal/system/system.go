package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// FindLatestScenario returns the most recently modified .yaml or .yml file in dir.
func FindLatestScenario(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read scenarios directory: %w", err)
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if latestFile == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no scenario files found in %s", dir)
	}

	return latestFile, nil
}

// HostStats describes the machine the sampler runs on.
type HostStats struct {
	LogicalCPUs     int
	PhysicalCPUs    int
	TotalMemory     uint64
	AvailableMemory uint64
}

// Probe reads CPU and memory figures from the host.
func Probe() (HostStats, error) {
	var stats HostStats

	logical, err := cpu.Counts(true)
	if err != nil {
		return stats, fmt.Errorf("cpu counts: %w", err)
	}
	stats.LogicalCPUs = logical

	// Some virtualised hosts do not expose cores.
	if physical, err := cpu.Counts(false); err == nil {
		stats.PhysicalCPUs = physical
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return stats, fmt.Errorf("virtual memory: %w", err)
	}
	stats.TotalMemory = vm.Total
	stats.AvailableMemory = vm.Available

	return stats, nil
}

func (s HostStats) String() string {
	return fmt.Sprintf("%d logical / %d physical CPUs, %.1f GiB free of %.1f GiB",
		s.LogicalCPUs, s.PhysicalCPUs, gib(s.AvailableMemory), gib(s.TotalMemory))
}

func gib(b uint64) float64 {
	return float64(b) / (1 << 30)
}
