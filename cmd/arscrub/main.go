package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	arscrub "github.com/mattkeenan/arscrub/pkg"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run scrubs every archive named in args and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	var (
		configPath   string
		variant      string
		globalHeader string
		atomic       bool
		useMmap      bool
		showDigest   bool
		verbose      int
		debug        string
		overrides    []string
	)

	flagSet := pflag.NewFlagSet("arscrub", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configPath, "config", "", "path to an ini configuration file")
	flagSet.StringVar(&variant, "variant", "", "archive variant: gnu, bsd, thin or custom")
	flagSet.StringVar(&globalHeader, "global-header", "", `global header for --variant=custom (escapes allowed, e.g. "!<arch>\n")`)
	flagSet.BoolVar(&atomic, "atomic", false, "scrub a copy and rename it over the original")
	flagSet.BoolVar(&useMmap, "mmap", false, "rewrite records through a shared memory mapping")
	flagSet.BoolVar(&showDigest, "digest", false, "print the digest of each scrubbed archive")
	flagSet.CountVarP(&verbose, "verbose", "v", "increase verbosity (repeatable)")
	flagSet.StringVar(&debug, "debug", "", "comma-separated debug flags (entries, io)")
	flagSet.StringArrayVar(&overrides, "set", nil, "configuration override key:value (repeatable)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stderr, flagSet)
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return 0
	}

	archives := flagSet.Args()
	if len(archives) == 0 {
		fmt.Fprintf(stderr, "Error: no archives given\n")
		printHelp(stderr, flagSet)
		return 2
	}

	config, err := arscrub.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	// Flags override the configuration file
	if variant != "" {
		overrides = append(overrides, "variant:"+variant)
	}
	if globalHeader != "" {
		overrides = append(overrides, "global_header:"+globalHeader)
	}
	if flagSet.Changed("atomic") {
		overrides = append(overrides, fmt.Sprintf("atomic:%t", atomic))
	}
	if useMmap {
		overrides = append(overrides, "backend:"+arscrub.BackendMmap)
	}
	if err := config.ApplyOverrides(overrides); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	opts, err := config.Options()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	verboseConfig := config.GetVerboseConfig()
	level := verboseConfig.Level + verbose
	if level > 3 {
		level = 3
	}
	if err := arscrub.ValidateVerboseLevel(level); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	arscrub.SetLogOutput(stderr)
	arscrub.SetVerboseLevel(level)
	if debug == "" {
		debug = verboseConfig.Debug
	}
	arscrub.InitDebugFlags(debug)

	shutdown, stop := setupSignalHandler()
	defer stop()

	return scrubArchives(archives, opts, showDigest, shutdown, stdout, stderr)
}

// scrubArchives scrubs each archive in turn, stopping before the next one once
// a signal has arrived on shutdown
func scrubArchives(archives []string, opts arscrub.Options, showDigest bool, shutdown <-chan os.Signal, stdout, stderr io.Writer) int {
	for _, archive := range archives {
		select {
		case sig := <-shutdown:
			fmt.Fprintf(stderr, "Received signal: %v, stopping before %s\n", sig, archive)
			return 130
		default:
		}

		report, err := arscrub.ScrubPath(archive, opts)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s: %v\n", archive, err)
			return 1
		}
		arscrub.VerboseLog(1, "%s: %d entries, %d changed", archive, report.Entries, report.Changed)

		if showDigest {
			dgst, err := arscrub.DigestPath(archive)
			if err != nil {
				fmt.Fprintf(stderr, "Error: %s: %v\n", archive, err)
				return 1
			}
			fmt.Fprintf(stdout, "%s  %s\n", dgst, archive)
		}
	}

	return 0
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `arscrub - remove timestamps, owner and group IDs from ar archives

Rewrites every member header in place so that identical inputs produce
byte-identical archives. Member data and file length are never changed.

Usage:
  arscrub [flags] archive.a...

Flags:
%s`, flagSet.FlagUsages())
}
