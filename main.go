package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Bharatsaini2/alpha-sub002/classifier"
	"github.com/Bharatsaini2/alpha-sub002/config"
	"github.com/Bharatsaini2/alpha-sub002/store"
	"github.com/Bharatsaini2/alpha-sub002/txadapter"
)

const rpcTimeout = 10 * time.Second

type classifyReq struct {
	Signature string `json:"signature"`
	USDValue  string `json:"usdValue,omitempty"`
}

type classifyResp struct {
	Kind      string                    `json:"kind"` // parsed | split | rejected
	Swap      *classifier.SwapLeg       `json:"swap,omitempty"`
	Split     *classifier.SplitSwapPair `json:"split,omitempty"`
	Rejection *rejectionBody            `json:"rejection,omitempty"`
	Persisted bool                      `json:"persisted"`
	Duplicate bool                      `json:"duplicate,omitempty"`
}

type rejectionBody struct {
	Reason    classifier.RejectionReason `json:"reason"`
	DebugInfo map[string]any             `json:"debugInfo,omitempty"`
}

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type transactionFetcher interface {
	GetTransaction(ctx context.Context, sig solana.Signature, opts *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error)
}

type signatureDeduper interface {
	MarkSeen(ctx context.Context, signature string) (alreadySeen bool, err error)
}

type server struct {
	log     *logrus.Logger
	rpc     transactionFetcher
	engine  *classifier.Engine
	storage *store.SwapStorage
	dedup   signatureDeduper
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}
	if cfg.RPCUrl == "" {
		log.Fatal("RPC_HTTP_URL is required")
	}

	srv := &server{
		log:    log,
		rpc:    rpc.New(cfg.RPCUrl),
		engine: classifier.NewWithLogger(cfg.Classifier, log),
	}

	if cfg.MySQLDSN != "" {
		if err := store.InitMySQLClient(cfg.MySQLDSN); err != nil {
			log.Fatalf("failed to initialize MySQL: %s", err)
		}
		db, _ := store.GetMySQLClient()
		srv.storage = store.NewSwapStorage(db)
	}

	if cfg.RedisAddr != "" {
		dedup, err := store.NewSignatureDedup(cfg.RedisAddr, cfg.RedisPassword, 24*time.Hour)
		if err != nil {
			log.Fatalf("failed to initialize Redis: %s", err)
		}
		srv.dedup = dedup
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/classify", srv.handleClassify)
	r.Post("/classify", srv.handleClassify)

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Infof("listening on %s (rpc=%s)", cfg.ListenAddr, cfg.RPCUrl)
	log.Fatal(httpSrv.ListenAndServe())
}

func (s *server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyReq
	switch r.Method {
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{Error: "bad_request", Details: "invalid JSON body"})
			return
		}
	default:
		req.Signature = r.URL.Query().Get("signature")
		req.USDValue = r.URL.Query().Get("usd_value")
	}

	if req.Signature == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "bad_request", Details: "signature is required"})
		return
	}

	sig, err := solana.SignatureFromBase58(req.Signature)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "bad_request", Details: "invalid signature (base58)"})
		return
	}

	usdValue := decimal.Zero
	if req.USDValue != "" {
		usdValue, err = decimal.NewFromString(req.USDValue)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, apiError{Error: "bad_request", Details: "invalid usd_value"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), rpcTimeout)
	defer cancel()

	tx, err := s.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: pointer.ToUint64(0),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			writeJSON(w, http.StatusGatewayTimeout, apiError{Error: "rpc_timeout"})
			return
		}
		writeJSON(w, http.StatusBadGateway, apiError{Error: "rpc_error", Details: err.Error()})
		return
	}
	if tx == nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "not_found", Details: "transaction not found"})
		return
	}

	builder, err := txadapter.NewBuilder(tx)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: "adapter_error", Details: err.Error()})
		return
	}
	raw, err := builder.Build()
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: "adapter_error", Details: err.Error()})
		return
	}

	result, err := s.engine.Classify(raw)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, apiError{Error: "classify_error", Details: err.Error()})
		return
	}

	// The signature is consumed only once a result exists; a transient
	// fetch failure leaves it retryable.
	if s.dedup != nil {
		seen, err := s.dedup.MarkSeen(ctx, sig.String())
		if err != nil {
			s.log.Warnf("dedup check failed: %s", err)
		} else if seen {
			writeJSON(w, http.StatusConflict, apiError{Error: "duplicate", Details: "signature already classified by this instance"})
			return
		}
	}

	if req.USDValue != "" {
		result = s.engine.ApplyMinimumValueGate(result, usdValue)
	}

	resp := classifyResp{}
	switch res := result.(type) {
	case classifier.Parsed:
		resp.Kind = "parsed"
		resp.Swap = &res.Leg
		// Storage amounts are USD-denominated, so persistence requires the
		// caller-supplied price.
		if s.storage != nil && req.USDValue != "" {
			rec := store.MapSwap(res.Leg, store.PricedAmounts{AmountUSD: usdValue})
			rec.Timestamp = raw.Timestamp
			if err := s.storage.SaveSwap(ctx, rec); err != nil {
				s.log.Errorf("failed to persist swap %s: %s", rec.Signature, err)
			} else {
				resp.Persisted = true
			}
		}

	case classifier.Split:
		resp.Kind = "split"
		resp.Split = &res.Pair
		if s.storage != nil && req.USDValue != "" {
			priced := store.PricedAmounts{AmountUSD: usdValue}
			sell, buy := store.MapSplitPair(res.Pair, priced, priced)
			sell.Timestamp, buy.Timestamp = raw.Timestamp, raw.Timestamp
			if err := s.storage.SaveSplitPair(ctx, sell, buy); err != nil {
				s.log.Errorf("failed to persist split pair %s: %s", sell.Signature, err)
			} else {
				resp.Persisted = true
			}
		}

	case classifier.Rejected:
		resp.Kind = "rejected"
		resp.Rejection = &rejectionBody{Reason: res.Reason, DebugInfo: res.DebugInfo}
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
