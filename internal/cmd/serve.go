package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arko-chat/webuicall/internal/server"
	"github.com/arko-chat/webuicall/internal/webview"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
	"github.com/toqueteos/webbrowser"
)

var (
	serveAddr     string
	serveBrowser  bool
	serveHeadless bool
	serveQR       bool
	serveDevURL   string
	serveDebug    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo host and open the calculator UI",
	Long: `Serve starts the host on a local port, binds the calculator functions
(add, add2) and opens the UI.

By default the UI opens in a native window whose page talks to the host
through a direct binding. With --browser it opens in the system browser
and talks over a websocket instead. With --headless nothing is opened.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, e.g. 127.0.0.1:8080")
	serveCmd.Flags().BoolVar(&serveBrowser, "browser", false, "open the UI in the system browser")
	serveCmd.Flags().BoolVar(&serveHeadless, "headless", false, "do not open any UI")
	serveCmd.Flags().BoolVar(&serveQR, "qr", false, "print the UI address as a QR code")
	serveCmd.Flags().StringVar(&serveDevURL, "dev-url", "", "proxy the UI to a frontend dev server")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "enable webview developer tools")
	serveCmd.MarkFlagsMutuallyExclusive("browser", "headless")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}
	if serveDevURL != "" {
		cfg.DevURL = serveDevURL
	}

	srv, err := server.Start(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			log.Warn("shutdown", "err", err)
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s\n", srv.URL)
	if serveQR {
		qr, err := qrcode.New(srv.URL, qrcode.Medium)
		if err != nil {
			return fmt.Errorf("encoding qr code: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), qr.ToSmallString(false))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case serveHeadless:
	case serveBrowser:
		openBrowser(srv.URL, log)
	default:
		err := webview.Open(ctx, webview.Options{
			URL:    srv.URL,
			Title:  cfg.Title,
			Width:  cfg.Width,
			Height: cfg.Height,
			Debug:  serveDebug,
		}, srv.Registry)
		if err == nil {
			log.Info("window closed, shutting down")
			return nil
		}
		if !errors.Is(err, webview.ErrUnavailable) {
			return err
		}
		log.Warn("native window unavailable, using the system browser", "err", err)
		openBrowser(srv.URL, log)
	}

	<-ctx.Done()
	log.Info("interrupted, shutting down")
	return nil
}

func openBrowser(url string, log *slog.Logger) {
	if err := webbrowser.Open(url); err != nil {
		log.Warn("could not open browser", "url", url, "err", err)
	}
}
