package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iTrooz/cryo-dash/internal/dashboard"
	"github.com/iTrooz/cryo-dash/internal/market"
)

const clearScreen = "\033[H\033[2J"

func newWatchCmd(a *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch [symbol]",
		Short: "Keep the market panel of a pair up to date",
		Long: `Poll the selected pair and redraw its panel after every refresh.

Type another symbol (e.g. "eth") and press enter to switch pairs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			symbol, err := a.symbolArg(args)
			if err != nil {
				return err
			}
			service, err := a.newService()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("interval") {
				if interval, err = a.cfg.GetRefreshInterval(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			redraw := isTerminal(out)
			watcher := dashboard.NewWatcher(service, symbol, interval)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return watcher.Run(ctx)
			})
			go readSelections(cmd.InOrStdin(), watcher, cmd.ErrOrStderr())

			draw(out, redraw, dashboard.RenderCoin(dashboard.LoadingCoinView(symbol), service.Now(), interval))
			g.Go(func() error {
				for {
					select {
					case <-ctx.Done():
						return nil
					case update := <-watcher.Updates():
						draw(out, redraw, dashboard.RenderCoin(update.View, service.Now(), interval))
					}
				}
			})
			return g.Wait()
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Refresh interval (overrides dashboard.refresh_interval)")
	return cmd
}

// readSelections switches the watched pair for every symbol typed on in
func readSelections(in io.Reader, watcher *dashboard.Watcher, errOut io.Writer) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		symbol, err := market.Resolve(input)
		if err != nil {
			fmt.Fprintln(errOut, err)
			continue
		}
		logrus.Debugf("Switching to %s", symbol)
		watcher.Select(symbol)
	}
}

func draw(out io.Writer, redraw bool, panel string) {
	if redraw {
		fmt.Fprint(out, clearScreen)
	}
	fmt.Fprintln(out, panel)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
