package supervisor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	sberrors "sandrun/errors"
	"sandrun/linux"
	"sandrun/logging"
	"sandrun/metrics"
	"sandrun/policy"
)

// tickInterval is the supervisor's fixed sampling cadence.
const tickInterval = policy.SampleIntervalMS * time.Millisecond

// state is the supervisor's own RUNNING/REAPING/DONE state machine,
// driven entirely by the non-blocking reap check each tick.
type state int

const (
	stateRunning state = iota
	stateReaping
	stateDone
)

// Options configures one supervised run.
type Options struct {
	Profile policy.Profile
	// Target is the resolved path to the executable to sandbox.
	Target string
	// Args is the full argv passed to the target. Args[0] is the
	// executable as the user gave it, which may differ from Target.
	Args []string
}

// childConfig is handed to the re-exec'd __childinit process over an
// inherited pipe, not environment variables, so sandbox configuration
// never leaks into the untrusted process's own environment once it
// execs.
type childConfig struct {
	Profile string   `json:"profile"`
	Target  string   `json:"target"`
	Args    []string `json:"args"`
}

// Run spawns the isolated child, drives the sampling loop to
// completion, and returns the finalized termination record. The only
// error Run itself returns is a setup-fatal failure (resolving its own
// executable, pipe allocation, config marshalling, spawn); once the child exists, every subsequent outcome is
// reconciled into the record, never surfaced as a Go error.
func Run(ctx context.Context, opts Options) (*TerminationRecord, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, sberrors.Wrap(err, sberrors.ErrSetupFatal, "resolve self")
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, sberrors.Wrap(err, sberrors.ErrSetupFatal, "allocate config pipe")
	}

	cfg := childConfig{
		Profile: opts.Profile.String(),
		Target:  opts.Target,
		Args:    opts.Args,
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		pr.Close()
		pw.Close()
		return nil, sberrors.Wrap(err, sberrors.ErrSetupFatal, "marshal child config")
	}

	cmd := exec.Command(self, "__childinit")
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{pr}
	cmd.SysProcAttr = linux.BuildSysProcAttr()

	logger := logging.WithProfile(logging.Default(), opts.Profile.String())
	logger.Info("spawning sandboxed child", "target", opts.Target)

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, sberrors.WrapWithDetail(err, sberrors.ErrSetupFatal, "spawn", sberrors.ErrSpawnFailed.Detail)
	}
	pr.Close()

	if _, err := pw.Write(cfgJSON); err != nil {
		logger.Warn("failed to write child config", "err", err)
	}
	pw.Close()

	pid := cmd.Process.Pid
	logger = logging.WithPID(logger, pid)
	logger.Info("child launched")

	if opts.Profile == policy.ResourceAware || opts.Profile == policy.Learning {
		if cg, err := linux.NewCgroup(pid); err != nil {
			logger.Warn("cgroup setup failed", "err", err)
		} else if err := cg.AddProcess(pid); err != nil {
			logger.Warn("cgroup add process failed", "err", err)
		} else if err := cg.ApplyHardCaps(); err != nil {
			logger.Warn("cgroup cap apply failed", "err", err)
		} else {
			defer cg.Destroy()
		}
	}

	forwardDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = cmd.Process.Signal(syscall.SIGTERM)
		case <-forwardDone:
		}
	}()
	defer close(forwardDone)

	return runLoop(logger, pid, opts, cmd.Process)
}

// runLoop is the 100ms RUNNING/REAPING/DONE state machine. No test
// drives it directly, since it needs a real child process; tests
// instead cover the pure helpers it calls (timeline, reconciliation,
// adaptive thresholds).
func runLoop(logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}, pid int, opts Options, proc *os.Process) (*TerminationRecord, error) {
	t0 := time.Now()
	clockTickHz := metrics.ClockTickHz()
	cores := metrics.CoreCount()
	thresholds := newAdaptiveThresholds(clockTickHz)
	adaptivePolicyActive := opts.Profile.AdaptivePolicyActive()

	rec := &TerminationRecord{
		PID:     pid,
		Program: opts.Target,
		Profile: opts.Profile.String(),
	}

	var prevProc uint64
	var prevSys uint64
	haveBaseline := false

	var policyKillIssued bool
	st := stateRunning
	var waitStatus syscall.WaitStatus

	for st == stateRunning {
		var status syscall.WaitStatus
		wpid, err := syscall.Wait4(pid, &status, syscall.WNOHANG, nil)
		switch {
		case err == syscall.ECHILD:
			st = stateDone
			continue
		case wpid == pid && (status.Exited() || status.Signaled()):
			waitStatus = status
			st = stateReaping
			continue
		}

		snap := metrics.ReadProcessSnapshot(pid)
		sys := metrics.ReadSystemSnapshot()

		if snap.VMPeakKB > rec.PeakMemoryKB {
			rec.PeakMemoryKB = snap.VMPeakKB
		}
		rec.PageFaultsMinor = snap.MinFlt
		rec.PageFaultsMajor = snap.MajFlt
		rec.ReadSyscalls = snap.ReadSyscalls
		rec.WriteSyscalls = snap.WriteSyscalls

		cpuPercent := 0
		if haveBaseline && sys.TotalTicks > prevSys {
			deltaProc := snap.CPUTicks - prevProc
			deltaSys := sys.TotalTicks - prevSys
			cpuPercent = int((deltaProc * 100 * uint64(cores)) / deltaSys)
			if max := 100 * cores; cpuPercent > max {
				cpuPercent = max
			}
		}
		prevProc = snap.CPUTicks
		prevSys = sys.TotalTicks
		haveBaseline = true

		elapsed := time.Since(t0).Milliseconds()
		rec.Timeline.Append(TimelineSample{
			ElapsedMS:  elapsed,
			CPUPercent: cpuPercent,
			MemoryKB:   snap.VMPeakKB,
		})

		if adaptivePolicyActive && !policyKillIssued && thresholds.exceeded(snap.CPUTicks, snap.MajFlt) {
			logger.Warn("adaptive policy escalation: killing child",
				"cpu_ticks", snap.CPUTicks, "maj_flt", snap.MajFlt)
			if err := proc.Signal(syscall.SIGKILL); err == nil {
				policyKillIssued = true
			}
		}

		time.Sleep(tickInterval)
	}

	if st == stateReaping {
		reconcile(rec, waitStatus, policyKillIssued)
	} else {
		// ECHILD: the child vanished without a status we observed.
		rec.ExitReason = ExitReason{Kind: ReasonKilledByOS}
		if policyKillIssued {
			rec.ExitReason = ExitReason{Kind: ReasonPolicyAdaptationKill}
		}
	}

	rec.RuntimeMS = time.Since(t0).Milliseconds()
	rec.PeakCPU = rec.Timeline.PeakCPU()

	logger.Info("child reaped", "exit_reason", rec.ExitReason.String(), "runtime_ms", rec.RuntimeMS)

	return rec, nil
}

// reconcile derives the final ExitReason and its accompanying fields
// from the raw wait status, per the reap/reconciliation rules:
// POLICY_ADAPTATION_KILL always wins over KILLED_BY_OS when the
// supervisor itself issued the kill.
func reconcile(rec *TerminationRecord, status syscall.WaitStatus, policyKillIssued bool) {
	switch {
	case status.Exited():
		rec.ExitReason = ExitReason{Kind: ReasonExited, Code: status.ExitStatus()}
		return
	case status.Signaled():
		sig := status.Signal()
		rec.Termination = fmt.Sprintf("SIG%d", int(sig))

		switch {
		case sig == syscall.SIGSYS:
			rec.ExitReason = ExitReason{Kind: ReasonSecurityViolation}
			rec.BlockedSyscall = "Unknown(SIGSYS)"
			rec.BlockedSyscalls = 1
		case policyKillIssued:
			rec.ExitReason = ExitReason{Kind: ReasonPolicyAdaptationKill}
		case sig == syscall.SIGKILL:
			rec.ExitReason = ExitReason{Kind: ReasonKilledByOS}
		default:
			rec.ExitReason = ExitReason{Kind: ReasonSignaled, Signal: int(sig)}
		}
		return
	}
	rec.ExitReason = ExitReason{Kind: ReasonKilledByOS}
}
