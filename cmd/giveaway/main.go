// giveaway - chat log driven number guessing giveaways
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ernie/giveaway-tracker/internal/auth"
	"github.com/ernie/giveaway-tracker/internal/collector"
	"github.com/ernie/giveaway-tracker/internal/config"
	"github.com/ernie/giveaway-tracker/internal/game"
	"github.com/ernie/giveaway-tracker/internal/logging"
	"github.com/ernie/giveaway-tracker/internal/notify"
	"github.com/ernie/giveaway-tracker/internal/ui"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var version = "dev"

const (
	defaultConfigPath = "giveaway.yaml"
	legacyConfigPath  = "config.txt"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "detect":
		cmdDetect(os.Args[2:])
	case "parse":
		cmdParse(os.Args[2:])
	case "version":
		fmt.Printf("giveaway %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: giveaway <command> [options] [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve [--headless] [--logs DIR]    Watch chat logs and run giveaways")
	fmt.Println("        [--minutes N] [--debug]")
	fmt.Println("  detect                             Show candidate chat log directories")
	fmt.Println("  parse <file>                       Decode and parse the last line of a chat log")
	fmt.Println("  version                            Show version")
	fmt.Println("  help                               Show this help")
	fmt.Println()
	fmt.Println("Global Options:")
	fmt.Println("  --config <path>    Configuration file (default giveaway.yaml, then config.txt)")
	fmt.Println()
	fmt.Println("Chat commands:")
	fmt.Println("  !pir <min>-<max>   Start a Price is Right round (admins)")
	fmt.Println("  !gtn <min>-<max>   Start a Guess the Number round (admins)")
	fmt.Println("  !stop              End the round and pick the winner (admins)")
	fmt.Println("  !status            Show the current round (admins)")
	fmt.Println("  !clear             Discard the current round (admins)")
	fmt.Println("  ?<number>          Enter a guess")
}

// resolveConfigPath picks the explicit path, else giveaway.yaml, else a
// legacy config.txt. A path that does not exist loads as defaults.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	if _, err := os.Stat(legacyConfigPath); err == nil {
		return legacyConfigPath
	}
	return defaultConfigPath
}

// cmdServe runs the watcher and the game engine until interrupted
func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	headless := fs.Bool("headless", false, "print notifications instead of running the terminal UI")
	logsDir := fs.String("logs", "", "chat log directory (default: auto-detect)")
	minutes := fs.Int("minutes", 0, "round length in minutes")
	debug := fs.Bool("debug", false, "verbose logging")
	fs.Parse(args)

	cfg, err := config.Load(resolveConfigPath(*configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if fs.Changed("logs") {
		cfg.Logs.Path = *logsDir
	}
	if fs.Changed("minutes") && *minutes > 0 {
		cfg.Game.RoundMinutes = *minutes
	}
	if fs.Changed("debug") {
		cfg.Debug = *debug
	}

	useTUI := !*headless && term.IsTerminal(int(os.Stdout.Fd()))
	logOpts := logging.Options{Debug: cfg.Debug}
	if useTUI {
		logOpts.Path = cfg.UI.LogFile
	}
	log, err := logging.New(logOpts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dir := cfg.Logs.Path
	if dir == "" {
		dir, err = config.DetectLogDir(config.CandidateLogDirs())
		if errors.Is(err, config.ErrNoLogDir) {
			log.Warnf("No chat log directory found, using default %s", dir)
		}
	}

	log.Infof("Giveaway %s starting", version)
	log.Infof("Watching %s for *%s*%s, rounds last %s", dir, cfg.Logs.FileMarker, cfg.Logs.FileExt, cfg.RoundDuration())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	admins := auth.NewAdminList(cfg.Admins.Path, log)
	if path, err := admins.Resolve(); err != nil {
		log.Warnf("No admin list found (looked for %s), admin commands are disabled until one is created", cfg.Admins.Path)
	} else {
		log.Infof("Admin list: %s", path)
	}

	hub := notify.NewHub(log)
	engine := game.New(game.Options{
		Duration:  cfg.RoundDuration(),
		Admins:    admins,
		Presenter: hub,
		Logger:    log,
	})
	dispatcher := collector.NewDispatcher(engine, log)
	tailer := collector.NewLogTailer(collector.TailerOptions{
		Dir:        dir,
		FileMarker: cfg.Logs.FileMarker,
		FileExt:    cfg.Logs.FileExt,
		Rescan:     cfg.Logs.RescanInterval,
		Handle:     dispatcher.Dispatch,
		Logger:     log,
	})

	hubCtx, stopHub := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		hub.Run(hubCtx)
		close(hubDone)
	}()

	if useTUI {
		err = runTUI(ctx, log, hub, engine, tailer, dir)
	} else {
		err = runHeadless(ctx, log, hub, tailer)
	}

	log.Info("Shutting down...")
	tailer.Stop()
	engine.Close()
	stopHub()
	<-hubDone

	if err != nil {
		log.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "giveaway: %v\n", err)
		os.Exit(1)
	}
	log.Info("Shutdown complete")
}

func runHeadless(ctx context.Context, log *zap.SugaredLogger, hub *notify.Hub, tailer *collector.LogTailer) error {
	hub.Register(notify.NewConsole(os.Stdout))
	if err := tailer.Start(); err != nil {
		return fmt.Errorf("starting log watcher: %w", err)
	}
	log.Info("Watching for chat commands, press Ctrl+C to stop")
	<-ctx.Done()
	return nil
}

func runTUI(ctx context.Context, log *zap.SugaredLogger, hub *notify.Hub, engine *game.Engine, tailer *collector.LogTailer, dir string) error {
	model := ui.New(ui.Options{
		Snapshot: engine.Snapshot,
		LogDir:   dir,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	hub.Register(ui.NewSink(p))

	if err := tailer.Start(); err != nil {
		return fmt.Errorf("starting log watcher: %w", err)
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	log.Debug("Terminal UI exited")
	return nil
}

// cmdDetect lists the chat log directories that are searched
func cmdDetect(args []string) {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	fs.Parse(args)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIRECTORY\tEXISTS")
	candidates := config.CandidateLogDirs()
	for _, dir := range candidates {
		exists := "no"
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			exists = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\n", dir, exists)
	}
	w.Flush()

	dir, err := config.DetectLogDir(candidates)
	fmt.Println()
	if err != nil {
		fmt.Printf("No chat log directory found, default would be %s\n", dir)
		os.Exit(1)
	}
	fmt.Printf("Using %s\n", dir)
}

// cmdParse runs a file through the decode, normalize and parse steps
func cmdParse(args []string) {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: giveaway parse <file>")
		os.Exit(1)
	}

	line, err := collector.ReadLastLine(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Encoding:\t%s\n", line.Encoding)
	fmt.Fprintf(w, "Raw:\t%q\n", line.Raw)
	fmt.Fprintf(w, "Normalized:\t%q\n", line.Normalized)
	if line.Parsed {
		fmt.Fprintf(w, "Timestamp:\t%s\n", line.Message.Timestamp)
		fmt.Fprintf(w, "Speaker:\t%s\n", line.Message.Speaker)
		fmt.Fprintf(w, "Content:\t%s\n", line.Message.Content)
		fmt.Fprintf(w, "Command:\t%s\n", collector.Classify(line.Message.Content))
	} else {
		fmt.Fprintln(w, "Parsed:\tno")
	}
	w.Flush()
}
