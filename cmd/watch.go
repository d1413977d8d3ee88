package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/edaloom-cli/internal/utils"
)

var (
	watchFlags    reportFlags
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-run the inspect and clean reports whenever a dataset is written",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("stat input: %w", err)
		}
		opt := reportOptions(&watchFlags, cmd)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		run := func() {
			md, err := buildReport(path, &watchFlags.loadFlags, opt)
			if err != nil {
				level.Error(logger).Log("msg", "report failed", "file", filepath.Base(path), "err", err)
				return
			}
			if watchFlags.outputPath != "" {
				if err := utils.SafeWriteFile(watchFlags.outputPath, []byte(md)); err != nil {
					level.Error(logger).Log("msg", "write report", "path", watchFlags.outputPath, "err", err)
					return
				}
				fmt.Printf("✓ Updated %s (%s)\n", watchFlags.outputPath, time.Now().Format(time.TimeOnly))
				return
			}
			if err := writeReport(os.Stdout, md); err != nil {
				level.Error(logger).Log("msg", "write report", "err", err)
			}
		}
		run()
		if !watchFlags.quiet {
			fmt.Fprintf(os.Stderr, "Watching %s (Ctrl+C to stop)\n", path)
		}
		return watchFile(ctx, path, watchDebounce, run)
	},
}

// watchFile calls fn once writes to path settle for debounce, until ctx is
// done. fn runs on the calling goroutine.
func watchFile(ctx context.Context, path string, debounce time.Duration, fn func()) error {
	path = filepath.Clean(path)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	// The directory is watched so editors that replace the file are still seen.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	var lastMod time.Time
	var lastSize int64
	if info, err := os.Stat(path); err == nil {
		lastMod, lastSize = info.ModTime(), info.Size()
	}
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if info.ModTime().Equal(lastMod) && info.Size() == lastSize {
				continue
			}
			lastMod, lastSize = info.ModTime(), info.Size()
			level.Debug(logger).Log("msg", "dataset changed", "file", filepath.Base(path), "size", lastSize)
			fn()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchFlags.loadFlags.register(watchCmd)
	watchCmd.Flags().StringVarP(&watchFlags.outputPath, "output", "o", "", "rewrite this file instead of printing each report")
	watchCmd.Flags().IntVar(&watchFlags.head, "head", 5, "number of preview rows (default from config)")
	watchCmd.Flags().BoolVar(&watchFlags.quiet, "quiet", false, "suppress non-essential output")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "wait for writes to settle before re-running")
}
