package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"

	"sandrun/linux"
	"sandrun/logging"
	"sandrun/policy"
)

// childInitConfig mirrors supervisor's childConfig wire shape: the
// profile name, the resolved target path, and its argv. It travels
// over the inherited pipe fd (3), never through the environment, so
// it can never leak into the untrusted process once it execs.
type childInitConfig struct {
	Profile string   `json:"profile"`
	Target  string   `json:"target"`
	Args    []string `json:"args"`
}

// childInitFD is the file descriptor number of the inherited config
// pipe: fd 0-2 are stdio, ExtraFiles start at 3.
const childInitFD = 3

// childInitCmd is hidden: it exists only so the supervisor can
// re-exec itself into this path inside the freshly cloned namespaces.
// It is never meant to be invoked directly by a user.
var childInitCmd = &cobra.Command{
	Use:    "__childinit",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChildInit()
	},
}

func init() {
	rootCmd.AddCommand(childInitCmd)
}

// runChildInit performs the Child Environment Builder sequence: best
// -effort filesystem and resource isolation, then a fatal syscall
// filter install, then image replacement. Nothing after the seccomp
// install may run with weaker isolation than declared.
func runChildInit() error {
	// The seccomp filter and no_new_privs apply only to the calling OS
	// thread; stay on one thread through install and exec.
	runtime.LockOSThread()

	cfgFile := os.NewFile(childInitFD, "childinit-config")
	if cfgFile == nil {
		fmt.Fprintln(os.Stderr, "sandrun: __childinit: missing config fd")
		os.Exit(1)
	}
	data, err := io.ReadAll(cfgFile)
	cfgFile.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sandrun: __childinit: read config: %v\n", err)
		os.Exit(1)
	}

	var cfg childInitConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "sandrun: __childinit: parse config: %v\n", err)
		os.Exit(1)
	}

	profile, ok := policy.ParseProfile(cfg.Profile)
	if !ok {
		fmt.Fprintf(os.Stderr, "sandrun: __childinit: unknown profile %q, falling back to STRICT\n", cfg.Profile)
	}

	logger := logging.WithProfile(logging.Default(), profile.String())

	if err := linux.MakeRootPrivate(); err != nil {
		logger.Warn("mount private failed", "err", err)
	}

	if err := linux.RemountRootReadOnly(); err != nil {
		logger.Warn("remount read-only failed", "err", err)
	} else {
		logger.Info("filesystem locked")
	}

	for _, capErr := range linux.ApplyResourceCaps() {
		logger.Warn("resource cap failed", "err", capErr)
	}

	if err := linux.DropAllCapabilities(); err != nil {
		logger.Warn("capability drop failed", "err", err)
	}

	logger.Info("loading seccomp-bpf profile")
	if err := linux.SetupSeccomp(policy.PolicyFor(profile)); err != nil {
		fmt.Fprintf(os.Stderr, "sandrun: __childinit: seccomp install failed: %v\n", err)
		os.Exit(1)
	}

	if len(cfg.Args) == 0 {
		fmt.Fprintln(os.Stderr, "sandrun: __childinit: empty argv")
		os.Exit(1)
	}

	// Deliberately empty environment: the untrusted binary gets
	// nothing inherited from the supervisor or the sandbox
	// configuration, only what it sets up for itself.
	err = syscall.Exec(cfg.Target, cfg.Args, []string{})
	fmt.Fprintf(os.Stderr, "sandrun: __childinit: exec failed: %v\n", err)
	os.Exit(1)
	return nil
}
