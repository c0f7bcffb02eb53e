package metrics

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ClockTickHz returns the kernel's clock ticks per second. Go has no
// portable, cgo-free sysconf(_SC_CLK_TCK); Linux has used 100 on every
// mainstream architecture for decades, so that is the fallback. An
// env override exists purely so tests can exercise other values
// without requiring a different kernel.
func ClockTickHz() int {
	if v, err := strconv.Atoi(os.Getenv("SANDRUN_CLK_TCK")); err == nil && v > 0 {
		return v
	}
	return 100
}

// CoreCount reports the number of logical CPUs in the calling
// process's affinity mask, falling back to 1 if the mask can't be
// read. This equals the online CPU count only when the process is not
// confined to a subset of CPUs; online CPUs outside the mask are not
// counted.
func CoreCount() int {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(0, &set); err == nil {
		if n := set.Count(); n > 0 {
			return n
		}
	}
	return 1
}

// ReadProcessSnapshot reads /proc/<pid>/stat, /proc/<pid>/status, and
// /proc/<pid>/io for one child. Any of the three sources may be
// missing independently (the child may have just exited, or lack
// permission for one file); each failure degrades only the fields it
// covers to zero rather than failing the whole snapshot. If none of
// the three sources can be read at all, Unavailable is set.
func ReadProcessSnapshot(pid int) ProcessSnapshot {
	var snap ProcessSnapshot
	var ok bool

	if ticks, minflt, majflt, err := readProcStat(pid); err == nil {
		snap.CPUTicks = ticks
		snap.MinFlt = minflt
		snap.MajFlt = majflt
		ok = true
	}
	if peak, err := readVMPeak(pid); err == nil {
		snap.VMPeakKB = peak
		ok = true
	}
	if r, w, err := readProcIO(pid); err == nil {
		snap.ReadSyscalls = r
		snap.WriteSyscalls = w
		ok = true
	}

	snap.Unavailable = !ok
	return snap
}

// ReadSystemSnapshot parses /proc/stat for the aggregate "cpu" line
// and sums every time field (user, nice, system, idle, iowait, irq,
// softirq, steal). On parse failure it returns the zero snapshot; the
// derived CPU% for that interval then collapses to 0 by construction.
func ReadSystemSnapshot() SystemSnapshot {
	f, err := os.Open("/proc/stat")
	if err != nil {
		return SystemSnapshot{}
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] != "cpu" {
			continue
		}
		// Only the first eight time fields count; guest and guest_nice
		// are already included in user and nice.
		end := len(fields)
		if end > 9 {
			end = 9
		}
		var total uint64
		for _, s := range fields[1:end] {
			v, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return SystemSnapshot{}
			}
			total += v
		}
		return SystemSnapshot{TotalTicks: total}
	}
	return SystemSnapshot{}
}

// readProcStat parses /proc/<pid>/stat, returning cumulative CPU
// ticks (utime+stime+cutime+cstime) and cumulative minor/major page
// faults (self+children). The comm field (2nd, parenthesized) may
// itself contain spaces or parentheses, so parsing resumes after the
// *last* ')' in the line rather than splitting on whitespace blindly.
func readProcStat(pid int) (ticks, minflt, majflt uint64, err error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return 0, 0, 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return 0, 0, 0, fmt.Errorf("metrics: empty /proc/%d/stat", pid)
	}
	line := sc.Text()

	i := strings.LastIndex(line, ")")
	if i < 0 || i+2 > len(line) {
		return 0, 0, 0, fmt.Errorf("metrics: malformed /proc/%d/stat", pid)
	}
	fields := strings.Fields(line[i+1:])

	// fields[0] is state; the numeric fields we need start after it.
	// minflt=7 cminflt=8 majflt=9 cmajflt=10 utime=11 stime=12 cutime=13 cstime=14
	// (0-indexed relative to "state" at fields[0]).
	get := func(idx int) uint64 {
		if idx >= len(fields) {
			return 0
		}
		v, _ := strconv.ParseUint(fields[idx], 10, 64)
		return v
	}
	if len(fields) < 15 {
		return 0, 0, 0, fmt.Errorf("metrics: short /proc/%d/stat", pid)
	}

	minflt = get(7) + get(8)
	majflt = get(9) + get(10)
	ticks = get(11) + get(12) + get(13) + get(14)
	return ticks, minflt, majflt, nil
}

// readVMPeak parses /proc/<pid>/status for the VmPeak line (KiB).
func readVMPeak(pid int) (int64, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/status", pid))
	if err != nil {
		return 0, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "VmPeak:") {
			continue
		}
		fields := strings.Fields(strings.TrimPrefix(line, "VmPeak:"))
		if len(fields) == 0 {
			return 0, fmt.Errorf("metrics: malformed VmPeak line")
		}
		v, err := strconv.ParseInt(fields[0], 10, 64)
		return v, err
	}
	return 0, fmt.Errorf("metrics: no VmPeak in /proc/%d/status", pid)
}

// readProcIO parses /proc/<pid>/io for syscr/syscw (I/O read/write
// syscall counts, not byte counts).
func readProcIO(pid int) (readSyscalls, writeSyscalls uint64, err error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/io", pid))
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	var sawAny bool
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "syscr:"):
			readSyscalls, _ = strconv.ParseUint(strings.TrimSpace(strings.TrimPrefix(line, "syscr:")), 10, 64)
			sawAny = true
		case strings.HasPrefix(line, "syscw:"):
			writeSyscalls, _ = strconv.ParseUint(strings.TrimSpace(strings.TrimPrefix(line, "syscw:")), 10, 64)
			sawAny = true
		}
	}
	if !sawAny {
		return 0, 0, fmt.Errorf("metrics: no syscr/syscw in /proc/%d/io", pid)
	}
	return readSyscalls, writeSyscalls, nil
}
