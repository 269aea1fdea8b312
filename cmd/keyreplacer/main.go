// Package main is the entry point for the keyreplacer text expander.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/kumar10248/keyreplacer/internal/app"
	"github.com/kumar10248/keyreplacer/internal/config"
	"github.com/kumar10248/keyreplacer/internal/mapping"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type cliFlags struct {
	configDir  string
	logLevel   string
	noFileLog  bool
	addPair    string
	removeKey  string
	list       bool
	exportPath string
	importPath string
	merge      bool
	getKey     string
	setPair    string
}

func run() int {
	flags := parseFlags()

	// One-shot mapping and settings commands run without the hook.
	if flags.isCommand() {
		if err := runCommand(flags); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	application, err := app.New(app.Options{
		ConfigDir:      flags.configDir,
		LogLevel:       flags.logLevel,
		DisableFileLog: flags.noFileLog,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() cliFlags {
	var flags cliFlags
	var showVersion bool
	var showHelp bool

	flag.StringVar(&flags.configDir, "config", "", "Configuration directory")
	flag.StringVar(&flags.configDir, "c", "", "Configuration directory (shorthand)")
	flag.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&flags.noFileLog, "no-file-log", false, "Disable logging to file")
	flag.StringVar(&flags.addPair, "add", "", "Add a mapping (SHORTCUT=EXPANSION) and exit")
	flag.StringVar(&flags.removeKey, "remove", "", "Remove a mapping and exit")
	flag.BoolVar(&flags.list, "list", false, "List mappings and exit")
	flag.StringVar(&flags.exportPath, "export", "", "Export mappings to FILE and exit")
	flag.StringVar(&flags.importPath, "import", "", "Import mappings from FILE and exit")
	flag.BoolVar(&flags.merge, "merge", true, "Merge on import instead of replacing")
	flag.StringVar(&flags.getKey, "get", "", "Print a setting and exit")
	flag.StringVar(&flags.setPair, "set", "", "Update a setting (KEY=VALUE) and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keyreplacer - system-wide text expander\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keyreplacer [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keyreplacer                        Run the expander\n")
		fmt.Fprintf(os.Stderr, "  keyreplacer -add em=me@mail.com    Add a shortcut\n")
		fmt.Fprintf(os.Stderr, "  keyreplacer -list                  Show all shortcuts\n")
		fmt.Fprintf(os.Stderr, "  keyreplacer -set injector=xdotool  Change a setting\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keyreplacer %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return flags
}

func (f cliFlags) isCommand() bool {
	return f.addPair != "" || f.removeKey != "" || f.list ||
		f.exportPath != "" || f.importPath != "" ||
		f.getKey != "" || f.setPair != ""
}

func runCommand(flags cliFlags) error {
	dir := flags.configDir
	if dir == "" {
		var err error
		dir, err = config.DefaultDir()
		if err != nil {
			return err
		}
	}

	settings, err := config.Load(config.SettingsPath(dir))
	if err != nil {
		return err
	}

	if flags.getKey != "" {
		value, err := settings.Get(flags.getKey)
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	}

	if flags.setPair != "" {
		key, value, err := splitPair(flags.setPair)
		if err != nil {
			return err
		}
		if err := settings.Set(key, value); err != nil {
			return err
		}
		return config.Save(config.SettingsPath(dir), settings)
	}

	store := mapping.NewStore(mapping.Config{
		Path:            config.MappingsPath(dir),
		CaseSensitive:   settings.CaseSensitive,
		MaxShortcutLen:  settings.MaxKeyLength,
		MaxExpansionLen: settings.MaxValueLength,
		AutoBackup:      settings.AutoBackup,
		MaxBackups:      settings.MaxBackupFiles,
	})
	if err := store.Load(); err != nil {
		return err
	}

	switch {
	case flags.addPair != "":
		shortcut, expansion, err := splitPair(flags.addPair)
		if err != nil {
			return err
		}
		if err := store.Add(shortcut, expansion); err != nil {
			return err
		}
		fmt.Printf("Added %q\n", shortcut)

	case flags.removeKey != "":
		if err := store.Remove(flags.removeKey); err != nil {
			return err
		}
		fmt.Printf("Removed %q\n", flags.removeKey)

	case flags.list:
		table := store.Current()
		shortcuts := table.Shortcuts()
		if len(shortcuts) == 0 {
			fmt.Println("No mappings defined")
			return nil
		}
		sort.Strings(shortcuts)
		for _, s := range shortcuts {
			expansion, _ := table.Lookup(s)
			fmt.Printf("%s = %s\n", s, displayValue(expansion))
		}

	case flags.exportPath != "":
		if err := store.Export(flags.exportPath); err != nil {
			return err
		}
		fmt.Printf("Exported %d mappings to %s\n", store.Current().Len(), flags.exportPath)

	case flags.importPath != "":
		n, err := store.Import(flags.importPath, flags.merge)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d mappings from %s\n", n, flags.importPath)
	}

	return nil
}

// splitPair splits KEY=VALUE on the first equals sign.
func splitPair(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("expected KEY=VALUE, got %q", s)
	}
	return key, value, nil
}

// displayValue keeps -list output to one line per mapping.
func displayValue(v string) string {
	v = strings.ReplaceAll(v, "\n", "\\n")
	if r := []rune(v); len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return v
}
