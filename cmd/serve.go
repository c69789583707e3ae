package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/leadscope-jp/shop-resolver/internal/model"
	"github.com/leadscope-jp/shop-resolver/pkg/sheets"
)

var servePort int

// resolveFunc runs one resolution with per-request oracle overrides.
// Indirection keeps the handlers testable without a live pipeline.
type resolveFunc func(ctx context.Context, query model.ShopQuery, apiKey, oracleModel string) (*model.ResolutionResult, error)

type server struct {
	resolve       resolveFunc
	newSheets     func(token string) sheets.Client
	spreadsheetID string
}

type resolveRequest struct {
	ShopName    string `json:"shop_name"`
	ShopAddress string `json:"shop_address"`
	APIKey      string `json:"api_key"`
	Model       string `json:"model,omitempty"`
}

type sheetRequest struct {
	resolveRequest
	SpreadsheetID string `json:"spreadsheet_id,omitempty"`
	SheetID       int    `json:"sheet_id"`
	Row           int    `json:"row"`
	Token         string `json:"token"`
}

func (s *server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/api/resolve", s.handleResolve)
	r.Post("/api/sheet", s.handleSheet)
	return r
}

func (s *server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ShopName == "" || req.ShopAddress == "" || req.APIKey == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "shop_name, shop_address, and api_key are required"})
		return
	}

	query := model.ShopQuery{Name: req.ShopName, Address: req.ShopAddress}
	result, err := s.resolve(r.Context(), query, req.APIKey, req.Model)
	if err != nil {
		zap.L().Error("resolve request failed", zap.String("shop", query.Name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "resolution failed"})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleSheet(w http.ResponseWriter, r *http.Request) {
	var req sheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.ShopName == "" || req.ShopAddress == "" || req.APIKey == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "shop_name, shop_address, and api_key are required"})
		return
	}
	if req.Row <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "row is required"})
		return
	}
	if req.Token == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token is required"})
		return
	}
	spreadsheetID := req.SpreadsheetID
	if spreadsheetID == "" {
		spreadsheetID = s.spreadsheetID
	}
	if spreadsheetID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "spreadsheet_id is required"})
		return
	}

	ctx := r.Context()
	sheetClient := s.newSheets(req.Token)

	// Mark the row in progress before the slow part starts.
	if err := sheetClient.FormatRows(ctx, spreadsheetID, req.SheetID, req.Row, req.Row, sheets.ColorInProgress); err != nil {
		zap.L().Warn("sheet in-progress mark failed", zap.Int("row", req.Row), zap.Error(err))
	}

	query := model.ShopQuery{Name: req.ShopName, Address: req.ShopAddress}
	result, err := s.resolve(ctx, query, req.APIKey, req.Model)
	if err != nil {
		zap.L().Error("sheet resolve failed", zap.String("shop", query.Name), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "resolution failed"})
		return
	}

	values := [][]string{{
		sheets.SafeCell(result.CompanyName),
		sheets.SafeCell(result.Representative),
		sheets.SafeCell(result.RepresentativeTitle),
		sheets.SafeCell(result.InvoiceNumber),
		sheets.SafeCell(string(result.Route)),
		sheets.SafeCell(result.SourceURL),
	}}
	writeRange := fmt.Sprintf("C%d:H%d", req.Row, req.Row)

	sheetWrite := map[string]any{"status": "success", "range": writeRange}
	if err := sheetClient.UpdateRange(ctx, spreadsheetID, writeRange, values); err != nil {
		zap.L().Error("sheet write failed", zap.String("range", writeRange), zap.Error(err))
		sheetWrite = map[string]any{"status": "error", "range": writeRange, "error": err.Error()}
	}

	if err := sheetClient.FormatRows(ctx, spreadsheetID, req.SheetID, req.Row, req.Row, sheets.ColorDone); err != nil {
		zap.L().Warn("sheet done mark failed", zap.Int("row", req.Row), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result":      result,
		"sheet_write": sheetWrite,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the resolution HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer closeStore(st)
		if st != nil {
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
		}

		srv := &server{
			resolve: func(ctx context.Context, query model.ShopQuery, apiKey, oracleModel string) (*model.ResolutionResult, error) {
				resolver, err := buildResolver(apiKey, oracleModel)
				if err != nil {
					return nil, err
				}
				return resolveAndRecord(ctx, st, resolver, query)
			},
			newSheets: func(token string) sheets.Client {
				return sheets.NewClient(token, sheets.WithBaseURL(cfg.Sheets.BaseURL))
			},
			spreadsheetID: cfg.Sheets.SpreadsheetID,
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           srv.router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
