// cmd/loanform/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"loanform/internal/common/config"
	"loanform/internal/common/database"
	apperrors "loanform/internal/common/errors"
	"loanform/internal/common/logger"
	"loanform/internal/common/observability"
	"loanform/internal/finance"
	"loanform/internal/models"
	"loanform/internal/payload"
	"loanform/internal/predictor"
	"loanform/internal/store"
	"loanform/internal/validation"
	"loanform/pkg/catalog"
)

// application is the on-disk input format: the applicant profile plus
// the loan request, exactly as a draft is stored.
type application struct {
	Profile models.ApplicantProfile `json:"profile"`
	Request models.LoanRequest      `json:"request"`
}

func main() {
	var (
		inputPath   = flag.String("input", "", "path to an application JSON file to submit")
		healthOnly  = flag.Bool("health", false, "probe the prediction service and exit")
		showHistory = flag.Bool("history", false, "print the stored submission history and exit")
		showLast    = flag.Bool("last", false, "print the last stored result and exit")
		deleteEntry = flag.String("delete", "", "delete one history entry by its id and exit")
		clearHist   = flag.Bool("clear-history", false, "delete the entire submission history and exit")
		saveDraft   = flag.Bool("save-draft", false, "save -input as a draft instead of submitting")
		resumeDraft = flag.Bool("resume", false, "submit the stored draft")
	)
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		cat, err = catalog.Load(cfg.Catalog.Path)
		if err != nil {
			zapLog.Fatal("catalog load failed", zap.Error(err))
		}
	}

	client := predictor.NewClient(cfg.API.BaseURL, config.GetDuration(cfg.API.RequestTimeout), log)

	// Root context cancelled on SIGINT/SIGTERM so an in-flight submission
	// aborts cleanly instead of being killed mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *healthOnly {
		probeHealth(ctx, client, cfg, zapLog)
		return
	}

	// --- Init Redis-backed store; degrade to memory if it never answers ---
	var st store.Store
	if cfg.Store.Redis.Address != "" {
		rdb, err := database.NewRedis(cfg.Store.Redis)
		if err != nil {
			zapLog.Warn("redis unavailable, drafts and history will not persist", zap.Error(err))
		} else {
			defer rdb.Close()
			rs := store.NewRedisStore(rdb, cfg.Store.Namespace, cfg.History.MaxEntries, log)

			waitCtx, cancelWait := context.WithTimeout(ctx, 10*time.Second)
			err = rs.WaitReady(waitCtx)
			cancelWait()
			if err != nil {
				zapLog.Warn("redis unavailable, drafts and history will not persist", zap.Error(err))
			} else {
				st = rs
				zapLog.Info("Redis connected successfully")
			}
		}
	}
	if st == nil {
		st = store.NewMemoryStore(cfg.History.MaxEntries)
	}

	// --- Metrics server ---
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	switch {
	case *showHistory:
		printHistory(ctx, st, zapLog)
		return
	case *showLast:
		printLastResult(ctx, st, zapLog)
		return
	case *deleteEntry != "":
		if err := st.DeleteHistoryEntry(ctx, *deleteEntry); err != nil {
			zapLog.Fatal("history delete failed", zap.Error(err))
		}
		zapLog.Info("History entry deleted", zap.String("id", *deleteEntry))
		return
	case *clearHist:
		if err := st.ClearHistory(ctx); err != nil {
			zapLog.Fatal("history clear failed", zap.Error(err))
		}
		zapLog.Info("History cleared")
		return
	}

	// --- Resolve the application to submit ---
	var app application
	switch {
	case *resumeDraft:
		draft, err := st.LoadDraft(ctx)
		if err != nil {
			zapLog.Fatal("draft load failed", zap.Error(err))
		}
		if draft == nil {
			zapLog.Fatal("no draft stored")
		}
		app = application{Profile: draft.Profile, Request: draft.Request}
	case *inputPath != "":
		raw, err := os.ReadFile(*inputPath)
		if err != nil {
			zapLog.Fatal("input read failed", zap.Error(err))
		}
		if err := json.Unmarshal(raw, &app); err != nil {
			zapLog.Fatal("input parse failed", zap.Error(err))
		}
		app.Request.NormalizeVariant()
	default:
		flag.Usage()
		os.Exit(2)
	}

	if *saveDraft {
		if err := st.SaveDraft(ctx, store.Draft{Profile: app.Profile, Request: app.Request}); err != nil {
			zapLog.Fatal("draft save failed", zap.Error(err))
		}
		zapLog.Info("Draft saved")
		return
	}

	submitter := predictor.NewSubmitter(predictor.SubmitterOptions{
		Client:         client,
		Estimator:      predictor.NewEstimator(cfg.Offline, cat),
		Store:          st,
		Mapper:         payload.New(cat),
		Engine:         validation.New(cat),
		Logger:         log,
		Observability:  obs,
		Timeout:        config.GetDuration(cfg.API.RequestTimeout),
		OfflineEnabled: cfg.Offline.Enabled,
		MinDelay:       config.GetDuration(cfg.Offline.MinDelay),
		MaxDelay:       config.GetDuration(cfg.Offline.MaxDelay),
	})

	outcome, err := submitter.Submit(ctx, app.Profile, app.Request)
	if err != nil {
		if apperrors.IsCancelled(err) {
			zapLog.Info("Submission cancelled")
			return
		}
		stdErr := apperrors.AsStandard(err)
		if len(stdErr.Fields) > 0 {
			printFieldErrors(stdErr.Fields)
		}
		zapLog.Fatal("submission failed",
			zap.String("code", string(stdErr.Code)),
			zap.String("message", stdErr.Message),
		)
	}

	if !outcome.FieldErrors.Valid() {
		printFieldErrors(outcome.FieldErrors)
		os.Exit(1)
	}

	// Successful submissions consume the draft.
	if *resumeDraft {
		if err := st.ClearDraft(ctx); err != nil {
			zapLog.Warn("draft clear failed", zap.Error(err))
		}
	}

	printResult(outcome, app.Request, cat)
}

func probeHealth(ctx context.Context, client *predictor.Client, cfg *config.Config, zapLog *zap.Logger) {
	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(cfg.API.HealthTimeout))
	defer cancel()

	status, err := client.Health(ctx)
	if err != nil {
		zapLog.Fatal("health probe failed", zap.Error(err))
	}
	fmt.Printf("status: %s\nmodel_loaded: %v\nversion: %s\n", status.Status, status.ModelLoaded, status.Version)
	if !status.ModelLoaded {
		os.Exit(1)
	}
}

func printHistory(ctx context.Context, st store.Store, zapLog *zap.Logger) {
	entries, err := st.History(ctx)
	if err != nil {
		zapLog.Fatal("history load failed", zap.Error(err))
	}
	if len(entries) == 0 {
		fmt.Println("no submissions recorded")
		return
	}
	for _, e := range entries {
		verdict := "rejected"
		if e.Result.Approved {
			verdict = "approved"
		}
		fmt.Printf("%s  %s  %-12s %-10s %s  requested=%.0f sanctioned=%.0f\n",
			e.ID, e.Timestamp.Format(time.RFC3339), e.Result.LoanType, verdict,
			e.Result.Status, e.Result.LoanAmountRequested, e.Result.SanctionedAmount)
	}
}

func printLastResult(ctx context.Context, st store.Store, zapLog *zap.Logger) {
	last, err := st.LoadLastResult(ctx)
	if err != nil {
		zapLog.Fatal("last result load failed", zap.Error(err))
	}
	if last == nil {
		fmt.Println("no result stored")
		return
	}
	out, _ := json.MarshalIndent(last, "", "  ")
	fmt.Println(string(out))
}

func printFieldErrors(fields map[string]string) {
	fmt.Fprintln(os.Stderr, "the application has errors:")
	for field, msg := range fields {
		fmt.Fprintf(os.Stderr, "  %-20s %s\n", field, msg)
	}
}

func printResult(outcome *predictor.Outcome, req models.LoanRequest, cat *catalog.LoanCatalog) {
	r := outcome.Result

	verdict := "REJECTED"
	if r.Approved {
		verdict = "APPROVED"
	}
	fmt.Printf("%s  (%s, probability %.1f%%)\n", verdict, outcome.Source, r.ApprovalProbability)
	if r.Status == models.StatusMock {
		fmt.Println("note: offline estimate, the prediction service was unreachable")
	}
	if line, ok := ltvLine(r.LoanAmountRequested, req); ok {
		fmt.Println(line)
	}
	if r.Approved {
		fmt.Printf("sanctioned: %.0f of %.0f requested, EMI %.2f/month\n",
			r.SanctionedAmount, r.LoanAmountRequested, r.MonthlyEMI)
		fmt.Print(tenureTable(r.SanctionedAmount, req, cat))
	}
	for _, reason := range r.RejectionReasons {
		fmt.Printf("reason: %s\n", reason)
	}

	out, _ := json.MarshalIndent(r.Breakdown, "", "  ")
	fmt.Println(string(out))
}

// assetValue is the collateral backing a secured loan, 0 for unsecured.
func assetValue(req models.LoanRequest) float64 {
	switch v := req.Variant.(type) {
	case models.PropertyDetails:
		return models.ParseAmount(v.Value)
	case models.VehicleDetails:
		return models.ParseAmount(v.Price)
	}
	return 0
}

// ltvLine renders the loan-to-value line for collateralized requests,
// flagging ratios above the documentation threshold.
func ltvLine(loanAmount float64, req models.LoanRequest) (string, bool) {
	asset := assetValue(req)
	ltv, ok := finance.LoanToValue(loanAmount, asset)
	if !ok {
		return "", false
	}
	line := fmt.Sprintf("loan-to-value: %s%%", ltv)
	if loanAmount/asset*100 > finance.HighLTVThreshold {
		line += "  (above 80%, lenders usually ask for extra documentation)"
	}
	return line, true
}

// tenureTable renders the EMI comparison grid for the sanctioned amount,
// at the user's custom rate or the product default.
func tenureTable(principal float64, req models.LoanRequest, cat *catalog.LoanCatalog) string {
	product, ok := cat.Product(string(req.Type))
	if !ok {
		return ""
	}
	rate := product.DefaultRate
	if req.InterestRate != "" {
		if v := models.ParseAmount(req.InterestRate); v > 0 {
			rate = v
		}
	}
	rows := finance.Schedule(principal, rate, product.MaxTenureYears, models.ParseCount(req.TenureYears))

	var b strings.Builder
	fmt.Fprintf(&b, "tenure options at %.2f%%:\n", rate)
	for _, row := range rows {
		marker := " "
		if row.Selected {
			marker = "*"
		}
		fmt.Fprintf(&b, " %s %2dy  EMI %10.2f  interest %12.2f (%.1f%%)\n",
			marker, row.TenureYears, row.MonthlyEMI, row.TotalInterest, row.InterestPercent)
	}
	return b.String()
}
