package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/loan-ledger/internal/cache"
	"github.com/iwvelando/loan-ledger/internal/config"
	"github.com/iwvelando/loan-ledger/internal/simulation"
	"github.com/iwvelando/loan-ledger/pkg/constants"
	"github.com/iwvelando/loan-ledger/pkg/datetime"
	"github.com/iwvelando/loan-ledger/pkg/format"
	"github.com/iwvelando/loan-ledger/pkg/output"
	"github.com/iwvelando/loan-ledger/pkg/paymentbook"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Options wires the collaborators of the HTTP handler. Zero values select
// defaults: no cache, an empty payment book, the en-IN formatter and the
// wall clock.
type Options struct {
	MaxUploadSize  int64
	Version        string
	Book           *paymentbook.Book
	Cache          cache.Cache
	CacheTTL       time.Duration
	Formatter      *format.Formatter
	AllowedOrigins []string
	Now            func() time.Time
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	book          *paymentbook.Book
	cache         cache.Cache
	cacheTTL      time.Duration
	formatter     *format.Formatter
	now           func() time.Time
}

// NewHandler constructs the HTTP handler that serves the loan ledger API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}
	if opts.Book == nil {
		opts.Book = paymentbook.New()
	}
	if opts.Formatter == nil {
		opts.Formatter = format.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = cache.DefaultTTL
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: opts.MaxUploadSize,
		version:       trimmedVersion,
		book:          opts.Book,
		cache:         opts.Cache,
		cacheTTL:      opts.CacheTTL,
		formatter:     opts.Formatter,
		now:           opts.Now,
	}

	mux := http.NewServeMux()

	// Simulation for an edited loan
	mux.HandleFunc("POST /api/simulate", h.handleSimulate)

	// Payment book
	mux.HandleFunc("GET /api/payments", h.handleListPayments)
	mux.HandleFunc("POST /api/payments", h.handleAddPayment)
	mux.HandleFunc("DELETE /api/payments/{id}", h.handleRemovePayment)

	// Config serialization endpoint for editor downloads
	mux.HandleFunc("POST /api/export", h.handleConfigExport)

	mux.HandleFunc("GET /api/version", h.handleVersion)
	mux.HandleFunc("GET /healthz", h.handleHealth)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	})
	return c.Handler(mux)
}

type simulateRequest struct {
	Loan                    config.Loan       `json:"loan"`
	Payments                *[]config.Payment `json:"payments,omitempty"`
	EvaluationDate          string            `json:"evaluationDate,omitempty"`
	MaxRecurringOccurrences int               `json:"maxRecurringOccurrences,omitempty"`
}

type simulateResponse struct {
	Name               string           `json:"name,omitempty"`
	EvaluatedAt        string           `json:"evaluatedAt"`
	Status             string           `json:"status"`
	OutstandingBalance float64          `json:"outstandingBalance"`
	TotalInterest      float64          `json:"totalInterest"`
	TotalPaid          float64          `json:"totalPaid"`
	Formatted          formattedTotals  `json:"formatted"`
	Ledger             []ledgerRow      `json:"ledger"`
	Payments           []config.Payment `json:"payments"`
	CSV                string           `json:"csv"`
	Stats              statsResponse    `json:"stats"`
	Warnings           []string         `json:"warnings,omitempty"`
	Duration           string           `json:"duration"`
	Cached             bool             `json:"cached"`
}

type formattedTotals struct {
	OutstandingBalance string `json:"outstandingBalance"`
	TotalInterest      string `json:"totalInterest"`
	TotalPaid          string `json:"totalPaid"`
}

type ledgerRow struct {
	Date        string  `json:"date"`
	DisplayDate string  `json:"displayDate"`
	Description string  `json:"description"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
	Balance     float64 `json:"balance"`
	DebitText   string  `json:"debitText"`
	CreditText  string  `json:"creditText"`
	BalanceText string  `json:"balanceText"`
}

type statsResponse struct {
	InterestEvents  int      `json:"interestEvents"`
	PaymentEvents   int      `json:"paymentEvents"`
	ClampedPayments int      `json:"clampedPayments"`
	SkippedPayments int      `json:"skippedPayments"`
	TruncatedSeries []string `json:"truncatedSeries,omitempty"`
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSimulate"
	start := time.Now()

	var req simulateRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	conf := config.Configuration{
		Loan:                    req.Loan,
		EvaluationDate:          req.EvaluationDate,
		MaxRecurringOccurrences: req.MaxRecurringOccurrences,
	}
	if req.Payments != nil {
		conf.Payments = *req.Payments
	} else {
		for _, spec := range h.book.Snapshot() {
			conf.Payments = append(conf.Payments, config.FromPaymentSpec(spec))
		}
	}
	conf.ApplyDefaults()

	// Without an explicit date the ledger is evaluated as of the start of the
	// current UTC day so responses can be shared for the rest of the day.
	now := datetime.StartOfDay(h.now().UTC())

	key, err := cacheKey(conf, now)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to build cache key: %v", err), op)
		return
	}
	if resp, ok := h.cachedResponse(r.Context(), key, op); ok {
		resp.Cached = true
		resp.Duration = time.Since(start).String()
		h.writeJSON(w, http.StatusOK, resp)
		return
	}

	report, err := simulation.Run(h.logger, conf, now)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	resp := h.buildResponse(report)
	h.storeResponse(r.Context(), key, resp, op)

	elapsed := time.Since(start)
	resp.Duration = elapsed.String()

	h.logger.Info("simulation computed",
		zap.String("op", op),
		zap.Int("rows", len(resp.Ledger)),
		zap.Int("payments", len(resp.Payments)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) buildResponse(report *simulation.Report) simulateResponse {
	result := report.Result
	f := h.formatter

	resp := simulateResponse{
		Name:               report.Name,
		EvaluatedAt:        report.EvaluatedAt.Format(constants.DateLayout),
		Status:             result.Status(),
		OutstandingBalance: result.OutstandingBalance,
		TotalInterest:      result.TotalInterest,
		TotalPaid:          result.TotalPaid,
		Formatted: formattedTotals{
			OutstandingBalance: f.Currency(result.OutstandingBalance),
			TotalInterest:      f.Currency(result.TotalInterest),
			TotalPaid:          f.Currency(result.TotalPaid),
		},
		Ledger:   make([]ledgerRow, 0, len(result.Ledger)),
		Payments: make([]config.Payment, 0, len(report.Input.Payments)),
		CSV:      output.CsvString(result.Ledger),
		Stats: statsResponse{
			InterestEvents:  result.Stats.InterestEvents,
			PaymentEvents:   result.Stats.PaymentEvents,
			ClampedPayments: result.Stats.ClampedPayments,
			SkippedPayments: result.Stats.SkippedPayments,
			TruncatedSeries: result.Stats.TruncatedSeries,
		},
		Warnings: report.Warnings,
	}

	for _, row := range result.Ledger {
		resp.Ledger = append(resp.Ledger, ledgerRow{
			Date:        row.Date.Format(constants.DateLayout),
			DisplayDate: format.Date(row.Date),
			Description: row.Description,
			Debit:       row.Debit,
			Credit:      row.Credit,
			Balance:     row.Balance,
			DebitText:   f.Debit(row.Debit),
			CreditText:  f.Credit(row.Credit),
			BalanceText: f.Currency(row.Balance),
		})
	}

	payments := slices.Clone(report.Input.Payments)
	paymentbook.SortByDate(payments)
	for _, p := range payments {
		resp.Payments = append(resp.Payments, config.FromPaymentSpec(p))
	}
	return resp
}

// cacheKey hashes everything that influences a simulation result.
func cacheKey(conf config.Configuration, now time.Time) (string, error) {
	evaluatedAt, err := conf.EvaluationTime(now)
	if err != nil {
		// Run reports the error; skip the cache.
		return "", nil
	}
	data, err := json.Marshal(struct {
		Loan        config.Loan      `json:"loan"`
		Payments    []config.Payment `json:"payments"`
		EvaluatedAt string           `json:"evaluatedAt"`
		Cap         int              `json:"cap"`
	}{conf.Loan, conf.Payments, evaluatedAt.Format(time.RFC3339), conf.MaxRecurringOccurrences})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return "simulate:" + hex.EncodeToString(sum[:]), nil
}

func (h *handler) cachedResponse(ctx context.Context, key, op string) (simulateResponse, bool) {
	if h.cache == nil || key == "" {
		return simulateResponse{}, false
	}
	data, ok, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Warn("cache lookup failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return simulateResponse{}, false
	}
	if !ok {
		return simulateResponse{}, false
	}
	var resp simulateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		h.logger.Warn("discarding unreadable cache entry",
			zap.String("op", op),
			zap.Error(err),
		)
		return simulateResponse{}, false
	}
	h.logger.Debug("cache hit", zap.String("op", op), zap.String("key", key))
	return resp, true
}

func (h *handler) storeResponse(ctx context.Context, key string, resp simulateResponse, op string) {
	if h.cache == nil || key == "" {
		return
	}
	data, err := json.Marshal(resp)
	if err == nil {
		err = h.cache.Set(ctx, key, data, h.cacheTTL)
	}
	if err != nil {
		h.logger.Warn("failed to cache simulation",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	list := h.book.List()
	payments := make([]config.Payment, 0, len(list))
	for _, p := range list {
		payments = append(payments, config.FromPaymentSpec(p))
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"payments": payments,
	})
}

func (h *handler) handleAddPayment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAddPayment"

	var payment config.Payment
	if !h.decodeJSON(w, r, &payment, op) {
		return
	}
	spec, err := payment.Spec()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid payment: %v", err), op)
		return
	}
	spec.ID = ""
	stored := h.book.Add(spec)

	h.logger.Info("payment added",
		zap.String("op", op),
		zap.String("id", stored.ID),
		zap.String("payment", stored.Label()),
		zap.Float64("amount", stored.Amount),
	)
	h.writeJSON(w, http.StatusCreated, config.FromPaymentSpec(stored))
}

func (h *handler) handleRemovePayment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRemovePayment"

	id := r.PathValue("id")
	if !h.book.Remove(id) {
		h.respondErrorWithOp(w, http.StatusNotFound, fmt.Sprintf("payment %s not found", id), op)
		return
	}
	h.logger.Info("payment removed",
		zap.String("op", op),
		zap.String("id", id),
	)
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.cache.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			h.respondErrorWithOp(w, http.StatusServiceUnavailable, fmt.Sprintf("cache unavailable: %v", err), "server.handleHealth")
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	var payload map[string]interface{}
	if !h.decodeJSONWith(w, r, &payload, op, true) {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// exportKeyOrder matches the layout of loan.yaml.example.
var exportKeyOrder = []string{"loan", "payments", "evaluationDate", "maxRecurringOccurrences", "logging", "output", "display"}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range exportKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: plainNumbers(value)})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: plainNumbers(payload[key])})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

// plainNumbers replaces json.Number values with YAML scalars carrying the
// number as written, so 2500000 is not exported as 2.5e+06.
func plainNumbers(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		for k, val := range x {
			x[k] = plainNumbers(val)
		}
		return x
	case []interface{}:
		for i, val := range x {
			x[i] = plainNumbers(val)
		}
		return x
	case json.Number:
		tag := "!!int"
		if _, err := x.Int64(); err != nil {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: x.String()}
	}
	return v
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

// decodeJSON reads a size-limited JSON body into dst and answers the
// request itself when that fails.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	return h.decodeJSONWith(w, r, dst, op, false)
}

// decodeJSONWith is decodeJSON with optional json.Number decoding.
func (h *handler) decodeJSONWith(w http.ResponseWriter, r *http.Request, dst interface{}, op string, useNumber bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	dec := json.NewDecoder(r.Body)
	if useNumber {
		dec.UseNumber()
	}
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
