// Package handler wires the rights ledger's HTTP surface to the service
// layer. Reads are public; every mutating route requires an authenticated
// caller, whose account supplies creator/buyer identity.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mostokey/internal/rights/models"
	"mostokey/pkg/domain"
	dErrors "mostokey/pkg/domain-errors"
	"mostokey/pkg/platform/httputil"
	"mostokey/pkg/requestcontext"
)

// Service defines the ledger operations the HTTP surface exposes.
type Service interface {
	CreateToken(ctx context.Context, creator domain.AccountID, name, symbol string, totalSupply, pricePerToken uint64, videoURL, attestation string) (*models.TokenRecord, error)
	GetTokenInfo(ctx context.Context, id domain.RecordID) (*models.TokenRecord, error)
	GetAllTokens(ctx context.Context) ([]domain.RecordID, error)
	AllTokens(ctx context.Context, index uint64) (domain.RecordID, error)
	GetTokensByCreator(ctx context.Context, creator domain.AccountID) ([]domain.RecordID, error)
	PurchaseTokens(ctx context.Context, recordID domain.RecordID, amount, paidValue uint64, buyer domain.AccountID) (*models.PurchaseReceipt, error)
	BalanceOf(ctx context.Context, recordID domain.RecordID, holder domain.AccountID) (uint64, error)
	GetCreatorEarnings(ctx context.Context, creator domain.AccountID) (uint64, error)
	WithdrawEarnings(ctx context.Context, creator domain.AccountID) (uint64, error)
	DeactivateToken(ctx context.Context, id domain.RecordID, caller domain.AccountID) error
}

// Handler wires rights endpoints to the ledger service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a rights handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the rights endpoints. requireAuth guards the mutating
// routes and the caller-scoped earnings routes.
func (h *Handler) Register(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/tokens", h.HandleListTokens)
		r.Get("/tokens/index/{index}", h.HandleTokenAt)
		r.Get("/tokens/{recordID}", h.HandleGetToken)
		r.Get("/tokens/{recordID}/balances/{holder}", h.HandleBalance)
		r.Get("/creators/{creator}/tokens", h.HandleTokensByCreator)
		r.Get("/creators/{creator}/earnings", h.HandleCreatorEarnings)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/tokens", h.HandleCreateToken)
			r.Post("/tokens/{recordID}/purchase", h.HandlePurchase)
			r.Post("/tokens/{recordID}/deactivate", h.HandleDeactivate)
			r.Get("/earnings", h.HandleMyEarnings)
			r.Post("/earnings/withdraw", h.HandleWithdraw)
		})
	})
}

// HandleCreateToken handles POST /v1/tokens.
func (h *Handler) HandleCreateToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateTokenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec, err := h.service.CreateToken(ctx, caller, req.Name, req.Symbol, req.TotalSupply, req.PricePerToken, req.VideoURL, req.Attestation)
	if err != nil {
		h.logger.WarnContext(ctx, "token creation failed",
			"request_id", requestID,
			"creator", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromRecord(rec))
}

// HandleListTokens handles GET /v1/tokens.
func (h *Handler) HandleListTokens(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.GetAllTokens(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Records: ids})
}

// HandleTokenAt handles GET /v1/tokens/index/{index}.
func (h *Handler) HandleTokenAt(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.ParseUint(chi.URLParam(r, "index"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "index must be a non-negative integer"))
		return
	}
	id, err := h.service.AllTokens(r.Context(), index)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, IndexResponse{Index: index, Record: id})
}

// HandleGetToken handles GET /v1/tokens/{recordID}.
func (h *Handler) HandleGetToken(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	rec, err := h.service.GetTokenInfo(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRecord(rec))
}

// HandleBalance handles GET /v1/tokens/{recordID}/balances/{holder}.
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	holder, err := domain.ParseAccountID(chi.URLParam(r, "holder"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid holder account"))
		return
	}
	units, err := h.service.BalanceOf(r.Context(), id, holder)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BalanceResponse{RecordID: id, Holder: holder, Units: units})
}

// HandleTokensByCreator handles GET /v1/creators/{creator}/tokens.
func (h *Handler) HandleTokensByCreator(w http.ResponseWriter, r *http.Request) {
	creator, err := domain.ParseAccountID(chi.URLParam(r, "creator"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid creator account"))
		return
	}
	ids, err := h.service.GetTokensByCreator(r.Context(), creator)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Records: ids})
}

// HandlePurchase handles POST /v1/tokens/{recordID}/purchase.
func (h *Handler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	buyer, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PurchaseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	receipt, err := h.service.PurchaseTokens(ctx, id, req.Amount, req.PaidValue, buyer)
	if err != nil {
		h.logger.WarnContext(ctx, "purchase failed",
			"request_id", requestID,
			"record_id", id,
			"buyer", buyer,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, receipt)
}

// HandleDeactivate handles POST /v1/tokens/{recordID}/deactivate.
func (h *Handler) HandleDeactivate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeactivateToken(ctx, id, caller); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMyEarnings handles GET /v1/earnings.
func (h *Handler) HandleMyEarnings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	h.writeEarnings(w, ctx, caller)
}

// HandleCreatorEarnings handles GET /v1/creators/{creator}/earnings.
func (h *Handler) HandleCreatorEarnings(w http.ResponseWriter, r *http.Request) {
	creator, err := domain.ParseAccountID(chi.URLParam(r, "creator"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid creator account"))
		return
	}
	h.writeEarnings(w, r.Context(), creator)
}

// HandleWithdraw handles POST /v1/earnings/withdraw.
func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, ok := h.caller(w, ctx)
	if !ok {
		return
	}
	paid, err := h.service.WithdrawEarnings(ctx, caller)
	if err != nil {
		h.logger.WarnContext(ctx, "withdrawal failed",
			"request_id", requestID,
			"creator", caller,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, WithdrawResponse{Creator: caller, AmountPaid: paid})
}

func (h *Handler) writeEarnings(w http.ResponseWriter, ctx context.Context, creator domain.AccountID) {
	balance, err := h.service.GetCreatorEarnings(ctx, creator)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, EarningsResponse{Creator: creator, Balance: balance})
}

func (h *Handler) caller(w http.ResponseWriter, ctx context.Context) (domain.AccountID, bool) {
	caller := requestcontext.CallerID(ctx)
	if caller.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return "", false
	}
	return caller, true
}

func (h *Handler) recordID(w http.ResponseWriter, r *http.Request) (domain.RecordID, bool) {
	id, err := domain.ParseRecordID(chi.URLParam(r, "recordID"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid record id"))
		return domain.RecordID{}, false
	}
	return id, true
}
