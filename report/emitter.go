// Package report serializes a finished run into the stable JSON
// document external consumers parse, grounded in the original
// telemetry writer's field order and naming.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sberrors "sandrun/errors"
	"sandrun/supervisor"
)

const logsDir = "logs"
const logsDirMode = 0755

// timelineDoc is the "timeline" object: three parallel arrays of
// equal length.
type timelineDoc struct {
	TimeMS     []int64 `json:"time_ms"`
	CPUPercent []int   `json:"cpu_percent"`
	MemoryKB   []int64 `json:"memory_kb"`
}

// summaryDoc is the "summary" object, field order and names fixed by
// the stable schema.
type summaryDoc struct {
	RuntimeMS       int64  `json:"runtime_ms"`
	PeakCPU         int    `json:"peak_cpu"`
	PeakMemoryKB    int64  `json:"peak_memory_kb"`
	PageFaultsMinor uint64 `json:"page_faults_minor"`
	PageFaultsMajor uint64 `json:"page_faults_major"`
	ReadSyscalls    uint64 `json:"read_syscalls"`
	WriteSyscalls   uint64 `json:"write_syscalls"`
	BlockedSyscalls int    `json:"blocked_syscalls"`
	Termination     string `json:"termination"`
	BlockedSyscall  string `json:"blocked_syscall"`
	ExitReason      string `json:"exit_reason"`
}

// runDoc is the complete document written to logs/run_<pid>_<unix>.json.
type runDoc struct {
	PID      int         `json:"pid"`
	Program  string      `json:"program"`
	Profile  string      `json:"profile"`
	Timeline timelineDoc `json:"timeline"`
	Summary  summaryDoc  `json:"summary"`
}

// Emit writes one termination record to logs/run_<pid>_<unix>.json and
// returns the path written. The logs/ directory is created idempotently
// on first use.
func Emit(rec *supervisor.TerminationRecord) (string, error) {
	if err := os.MkdirAll(logsDir, logsDirMode); err != nil {
		return "", sberrors.WrapWithPID(err, sberrors.ErrEmit, "create logs dir", rec.PID)
	}

	doc := runDoc{
		PID:     rec.PID,
		Program: rec.Program,
		Profile: rec.Profile,
		Timeline: timelineDoc{
			TimeMS:     rec.Timeline.TimeMS(),
			CPUPercent: rec.Timeline.CPUPercentSeries(),
			MemoryKB:   rec.Timeline.MemoryKBSeries(),
		},
		Summary: summaryDoc{
			RuntimeMS:       rec.RuntimeMS,
			PeakCPU:         rec.PeakCPU,
			PeakMemoryKB:    rec.PeakMemoryKB,
			PageFaultsMinor: rec.PageFaultsMinor,
			PageFaultsMajor: rec.PageFaultsMajor,
			ReadSyscalls:    rec.ReadSyscalls,
			WriteSyscalls:   rec.WriteSyscalls,
			BlockedSyscalls: rec.BlockedSyscalls,
			Termination:     rec.Termination,
			BlockedSyscall:  rec.BlockedSyscall,
			ExitReason:      rec.ExitReason.String(),
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", sberrors.WrapWithPID(err, sberrors.ErrEmit, "marshal report", rec.PID)
	}

	path := filepath.Join(logsDir, fmt.Sprintf("run_%d_%d.json", rec.PID, time.Now().Unix()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", sberrors.WrapWithPID(err, sberrors.ErrEmit, "write report", rec.PID)
	}

	return path, nil
}
