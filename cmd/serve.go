package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syllascope/syllascope/internal/server"
	"github.com/syllascope/syllascope/internal/utils"
	"github.com/syllascope/syllascope/pkg/cache"
	"github.com/syllascope/syllascope/pkg/dataset"
	"github.com/syllascope/syllascope/pkg/refresher"
	"github.com/syllascope/syllascope/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a JSON API with background refresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := datasetURL(cmd)
		if err != nil {
			return err
		}
		store, err := cache.Open(cachePath(cmd))
		if err != nil {
			return err
		}
		defer store.Close()

		loader := dataset.New(store, url, utils.Log)
		sess := session.New(loader)

		// A failed initial load is not fatal: the API stays up and an
		// explicit POST /api/refresh can retry.
		if err := sess.Refresh(cmd.Context(), false); err != nil {
			utils.Log.Errorf("initial load failed: %v", err)
		}

		intervalMinutes, _ := cmd.Flags().GetInt("refresh-interval")
		var r *refresher.Refresher
		if intervalMinutes > 0 {
			r = refresher.New(loader, time.Duration(intervalMinutes)*time.Minute, utils.Log)
			r.Start()
			go func() {
				for u := range r.Updates() {
					utils.Log.Infof("dataset changed upstream (hash %s), re-rendering", u.Hash)
					sess.ApplyUpdate(u)
				}
			}()
		}

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigs
			if r != nil {
				r.Stop()
				<-r.Done()
			}
			utils.Log.Info("shutting down")
			os.Exit(0)
		}()

		listen, _ := cmd.Flags().GetString("listen")
		srv := server.New(sess, viper.GetString("server.username"), viper.GetString("server.password"))
		return srv.Start(listen)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Int("refresh-interval", 5, "Minutes between background refresh cycles (0 to disable)")
}
