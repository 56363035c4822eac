package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fuzzyjson/fuzzyjson"
)

func newServeCmd() *cobra.Command {
	var (
		serveAddr   string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an HTTP server exposing /repair and /metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile, cmd.Flags())
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if serveAddr == "" {
				serveAddr = cfg.ServeAddr
			}
			if metricsAddr == "" {
				metricsAddr = cfg.MetricsAddr
			}

			log := logrus.StandardLogger()
			if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
				log.SetLevel(lvl)
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector())
			registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			recorder := fuzzyjson.NewPrometheusRecorder(registry)

			opts := fuzzyjson.NewBuilder().
				WithTrailingCommas(cfg.AllowTrailingCommas).
				WithSingleQuotes(cfg.AllowSingleQuotes).
				WithUnquotedKeys(cfg.AllowUnquotedKeys).
				WithComments(cfg.AllowComments).
				WithMaxRepairAttempts(cfg.MaxRepairAttempts).
				WithLogger(log).
				WithRecorder(recorder).
				Build()
			parser := fuzzyjson.New(opts)

			mux := http.NewServeMux()
			mux.HandleFunc("/repair", repairHandler(parser, log))

			metricsMux := http.NewServeMux()
			metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

			srv := &http.Server{Addr: serveAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
			metricsSrv := &http.Server{Addr: metricsAddr, Handler: metricsMux, ReadHeaderTimeout: 10 * time.Second}

			errCh := make(chan error, 2)
			go func() { errCh <- srv.ListenAndServe() }()
			go func() { errCh <- metricsSrv.ListenAndServe() }()

			log.WithField("repair_addr", serveAddr).WithField("metrics_addr", metricsAddr).Info("fuzzyjson server started")
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "address to serve /repair on (overrides config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve /metrics on (overrides config)")
	cmd.Flags().Bool("allow-trailing-commas", true, "tolerate a trailing comma before a closing brace or bracket")
	cmd.Flags().Bool("allow-single-quotes", true, "tolerate single-quoted strings")
	cmd.Flags().Bool("allow-unquoted-keys", false, "tolerate bare identifier object keys")
	cmd.Flags().Bool("allow-comments", true, "reserved; comment stripping is not currently implemented")
	cmd.Flags().Int("max-repair-attempts", 1500, "give up after this many repair steps")

	return cmd
}

type repairRequest struct {
	Text string `json:"text"`
}

type repairResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func repairHandler(parser *fuzzyjson.Parser, log logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, 8<<20))
		if err != nil {
			http.Error(w, "reading body: "+err.Error(), http.StatusBadRequest)
			return
		}

		var req repairRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeRepairResponse(w, http.StatusBadRequest, repairResponse{Error: "request body must be {\"text\": \"...\"}"})
			return
		}

		val, err := parser.Parse(req.Text)
		if err != nil {
			log.WithError(err).Debug("repair request failed")
			writeRepairResponse(w, http.StatusUnprocessableEntity, repairResponse{Error: err.Error()})
			return
		}

		raw, err := val.MarshalJSON()
		if err != nil {
			writeRepairResponse(w, http.StatusInternalServerError, repairResponse{Error: err.Error()})
			return
		}

		writeRepairResponse(w, http.StatusOK, repairResponse{Result: raw})
	}
}

func writeRepairResponse(w http.ResponseWriter, status int, resp repairResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
