package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"salestrack/internal/api"
	"salestrack/internal/server"
	"salestrack/internal/util"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		port int
		open bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 接口",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(root, true)
			if err != nil {
				return err
			}
			defer a.Close()

			// config.toml 中显式配置的端口优先
			if port > 0 && !a.portSpecified {
				a.cfg.Server.Port = port
			}

			handler := api.NewHandler(a.cfg, a.coordinator, a.store, a.logger)
			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", a.cfg.Server.Port),
				Handler: server.NewServer(a.cfg, handler, a.logger).Handler(),
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info().Int("port", a.cfg.Server.Port).Msg("server started")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			if open {
				url := fmt.Sprintf("http://localhost:%d/api/status", a.cfg.Server.Port)
				if err := util.OpenBrowser(url); err != nil {
					a.logger.Warn().Err(err).Str("url", url).Msg("无法自动打开浏览器，请手动访问")
				}
			}

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			a.logger.Info().Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "服务端口（仅当 config.toml 未显式配置 port 时生效）")
	cmd.Flags().BoolVar(&open, "open", false, "启动后在浏览器中打开状态页")
	return cmd
}
