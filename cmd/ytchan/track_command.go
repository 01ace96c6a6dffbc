package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/eiannone/keyboard"
	"github.com/spf13/cobra"

	"github.com/rubpy/crawly/clog"

	youtube "github.com/rubpy/crawly-channel-youtube"
)

const logHeader = "[track] "

func newTrackCommand(ctx *commandContext) *cobra.Command {
	var noKeys bool

	cmd := &cobra.Command{
		Use:   "track <input>...",
		Short: "Track channels, refreshing their records and latest uploads",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(cmd.Context(), ctx, cmd.OutOrStdout(), args, !noKeys)
		},
	}

	cmd.Flags().BoolVar(&noKeys, "no-keys", false, "Disable keyboard controls (stop with Ctrl+C)")
	return cmd
}

func runTrack(parent context.Context, cctx *commandContext, out io.Writer, inputs []string, keys bool) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver, feed, closeResolver, err := cctx.newResolver(ctx, resolverOverrides{})
	defer closeResolver()
	if err != nil {
		return err
	}

	tr, err := youtube.NewTracker(resolver,
		youtube.WithTrackerLogger(cctx.logger().WithGroup("tracker")),
		youtube.WithFeed(feed),
		youtube.WithTrackerSettings(cfg.TrackerSettings()),
	)
	if err != nil {
		return fmt.Errorf("youtube.NewTracker: %w", err)
	}

	refs := make([]youtube.Reference, 0, len(inputs))
	for _, input := range inputs {
		ref := resolver.Classify(input)
		if ref.Platform() != youtube.Platform {
			return fmt.Errorf("%q is not a %s reference", input, youtube.Platform)
		}

		if _, err := tr.Track(ctx, ref); err != nil {
			return fmt.Errorf("track %q: %w", input, err)
		}
		refs = append(refs, ref)
	}

	go listenResults(ctx, tr, out)

	printHelp(out, refs, keys)

	if err := tr.Start(ctx, cfg.SessionSettings()); err != nil {
		return fmt.Errorf("Tracker.Start: %w", err)
	}
	defer tr.Stop(context.Background())

	if !keys {
		<-ctx.Done()
		return nil
	}

	ui := newTrackUI(ctx, tr, out, stop)
	defer ui.Close()

	go func() {
		if err := ui.Listen(ctx); err != nil && ctx.Err() == nil {
			tr.Log(ctx, clog.Params{
				Message: logHeader + "keyboard controls unavailable",
				Level:   slog.LevelWarn,
				Err:     err,
			})
		}
	}()

	<-ctx.Done()
	return nil
}

func listenResults(ctx context.Context, tr *youtube.Tracker, out io.Writer) {
	l := tr.Listen()
	defer l.Discard()

	ch := l.Channel()
	for {
		select {
		case <-ctx.Done():
			return

		case result, ok := <-ch:
			if !ok {
				// Result channel has been closed.

				return
			}

			orders := map[string]string{}
			for _, or := range result.Orders {
				order := or.Order.Value

				orders[fmt.Sprint(order.Handle)] = order.Command.String()
			}

			var rows [][]string
			for _, er := range result.Entities {
				entity := er.Entity.Value

				data, ok := entity.Data.(youtube.EntityData)
				if !ok || data.Channel == nil {
					continue
				}

				rows = append(rows, []string{data.Channel.ID, data.Channel.Title, "", ""})
				for _, upload := range data.Uploads {
					rows = append(rows, []string{"", "", upload.ID, upload.Title})
				}
			}

			tr.Log(ctx, clog.Params{
				Message: logHeader + "result",
				Level:   slog.LevelInfo,

				Values: clog.ParamGroup{
					"sessionID": result.SessionID,
					"orders":    orders,
					"entities":  len(result.Entities),
				},
			})

			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable([]string{"Channel", "Title", "Upload", "Upload title"}, rows, nil))
			}
		}
	}
}

func newTrackUI(ctx context.Context, tr *youtube.Tracker, out io.Writer, quit context.CancelFunc) *UI {
	ui := NewUI()

	ui.BindKey(UIKeySubject{Key: keyboard.KeySpace}, func(_ *UI, e *UIKeyEvent) error {
		var verb string
		if tr.Paused() {
			tr.Resume(ctx)
			verb = "resumed"
		} else {
			tr.Pause(ctx)
			verb = "paused"
		}

		tr.Log(ctx, clog.Params{
			Message: logHeader + verb,
			Level:   slog.LevelInfo,
		})
		return nil
	})
	ui.BindKey(UIKeySubject{Rune: 'q'}, func(_ *UI, e *UIKeyEvent) error {
		e.StopPropagation()

		tr.Log(ctx, clog.Params{
			Message: logHeader + "quitting",
			Level:   slog.LevelInfo,
		})

		quit()
		return nil
	})
	ui.BindKey(UIKeySubject{Rune: 'i'}, func(_ *UI, e *UIKeyEvent) error {
		lp := clog.Params{
			Message: logHeader + "immediate",
			Level:   slog.LevelInfo,
		}

		_, lp.Err = tr.Immediate(ctx, 0)

		tr.Log(ctx, lp)
		return nil
	})
	ui.BindKey(UIKeySubject{Rune: 'u'}, func(_ *UI, e *UIKeyEvent) error {
		lp := clog.Params{
			Message: logHeader + "untracking all",
			Level:   slog.LevelInfo,
		}

		_, lp.Err = tr.UntrackAll(ctx)

		tr.Log(ctx, lp)
		return nil
	})
	ui.BindKey(UIKeySubject{Key: keyboard.KeyEnter}, func(_ *UI, e *UIKeyEvent) error {
		fmt.Fprintln(out)
		return nil
	})
	ui.BindKey(UIKeySubject{Key: keyboard.KeyCtrlC}, func(_ *UI, e *UIKeyEvent) error {
		e.StopPropagation()
		quit()
		return nil
	})

	return ui
}

func printHelp(out io.Writer, refs []youtube.Reference, keys bool) {
	rule := strings.Repeat("=", 40)

	fmt.Fprintln(out, rule)
	if keys {
		fmt.Fprintln(out, " Controls:")
		fmt.Fprintln(out, "   Q     --- quit")
		fmt.Fprintln(out, "   Space --- pause/resume")
		fmt.Fprintln(out, "   I     --- trigger an immediate crawl")
		fmt.Fprintln(out, "   U     --- untrack all channels")
		fmt.Fprintln(out, rule)
	}

	fmt.Fprintln(out, " Tracked references:")
	for _, ref := range refs {
		fmt.Fprintln(out, "  ", ref.String())
	}

	fmt.Fprintln(out, rule)
	fmt.Fprintln(out)
}
