package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"google.golang.org/grpc"

	pricingv1 "github.com/dwikikusuma/shoping-pricing/api/pricingv1"
	"github.com/dwikikusuma/shoping-pricing/pkg/metrics"
)

// userHeader is set by the authentication proxy in front of the gateway.
const userHeader = "X-User-ID"

type handlers struct {
	cart    pricingv1.CartServiceClient
	catalog pricingv1.CatalogServiceClient
	pricing pricingv1.PricingServiceClient
	log     *slog.Logger
	timeout time.Duration
}

type productView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	BasePrice    string `json:"basePrice"`
	DynamicPrice string `json:"dynamicPrice"`
}

type lineView struct {
	ProductID string `json:"productId"`
	Quantity  int32  `json:"quantity"`
}

type cartView struct {
	UserID    string     `json:"userId"`
	Lines     []lineView `json:"lines"`
	UpdatedAt int64      `json:"updatedAt"`
}

type cartMutationBody struct {
	ProductID string `json:"productId"`
}

type reconcileBody struct {
	ProductID string `json:"productId"`
	Direction string `json:"direction"`
}

func newRouter(h *handlers, m *metrics.ServerMetrics, ready func() bool) *mux.Router {
	r := mux.NewRouter()
	r.Use(instrument(m))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }).Methods(http.MethodGet)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if ready != nil && !ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", h.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.getProduct).Methods(http.MethodGet)

	cart := api.PathPrefix("/cart").Subrouter()
	cart.Use(requireUser)
	cart.HandleFunc("", h.getCart).Methods(http.MethodGet)
	cart.HandleFunc("/add", h.addUnit).Methods(http.MethodPost)
	cart.HandleFunc("/remove", h.removeUnit).Methods(http.MethodPost)

	pricing := api.PathPrefix("/pricing").Subrouter()
	pricing.Use(requireUser)
	pricing.HandleFunc("/reconcile", h.reconcile).Methods(http.MethodPost)
	pricing.HandleFunc("/reset", h.resetAll).Methods(http.MethodPost)
	return r
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get(userHeader)) == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "missing "+userHeader)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func instrument(m *metrics.ServerMetrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}
			route := "unmatched"
			if cur := mux.CurrentRoute(r); cur != nil {
				if tpl, err := cur.GetPathTemplate(); err == nil {
					route = tpl
				}
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			m.Requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
			m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
		})
	}
}

func (h *handlers) ctx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.timeout)
}

func (h *handlers) addUnit(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, h.cart.AddUnit)
}

func (h *handlers) removeUnit(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, h.cart.RemoveUnit)
}

type cartCall func(context.Context, *pricingv1.CartMutationRequest, ...grpc.CallOption) (*pricingv1.CartMutationResponse, error)

func (h *handlers) mutateCart(w http.ResponseWriter, r *http.Request, call cartCall) {
	var body cartMutationBody
	if !decode(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.ProductID) == "" {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "productId is required")
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()

	resp, err := call(ctx, &pricingv1.CartMutationRequest{
		UserId:    r.Header.Get(userHeader),
		ProductId: body.ProductID,
	})
	if err != nil {
		h.log.WarnContext(ctx, "cart mutation failed", slog.String("path", r.URL.Path), slog.Any("err", err))
		if saved, ok := pricingv1.PartialApplyResult(err); ok {
			writePartialApply(w, err, saved)
			return
		}
		writeGRPCError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"cart":            toCartView(resp.Cart),
		"updatedProducts": toProductViews(resp.UpdatedProducts),
		"reset":           resp.Reset,
	})
}

func (h *handlers) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	resp, err := h.cart.GetCart(ctx, &pricingv1.GetCartRequest{UserId: r.Header.Get(userHeader)})
	if err != nil {
		writeGRPCError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": toCartView(resp.Cart)})
}

func (h *handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	resp, err := h.catalog.ListProducts(ctx, &pricingv1.ListProductsRequest{Category: r.URL.Query().Get("category")})
	if err != nil {
		writeGRPCError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": toProductViews(resp.Products)})
}

func (h *handlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	resp, err := h.catalog.GetProduct(ctx, &pricingv1.GetProductRequest{Id: mux.Vars(r)["id"]})
	if err != nil {
		writeGRPCError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": toProductView(resp.Product)})
}

func (h *handlers) reconcile(w http.ResponseWriter, r *http.Request) {
	var body reconcileBody
	if !decode(w, r, &body) {
		return
	}

	ctx, cancel := h.ctx(r)
	defer cancel()

	resp, err := h.pricing.Adjust(ctx, &pricingv1.AdjustRequest{ProductId: body.ProductID, Direction: body.Direction})
	if err != nil {
		writeGRPCError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updatedProducts": toProductViews(resp.Products)})
}

func (h *handlers) resetAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	resp, err := h.pricing.ResetAll(ctx, &pricingv1.ResetAllRequest{})
	if err != nil {
		writeGRPCError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updatedProducts": toProductViews(resp.Products), "reset": true})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid JSON body")
		return false
	}
	return true
}

func toProductView(p *pricingv1.Product) productView {
	if p == nil {
		return productView{}
	}
	return productView{
		ID:           p.Id,
		Name:         p.Name,
		Category:     p.Category,
		BasePrice:    p.BasePrice,
		DynamicPrice: p.DynamicPrice,
	}
}

func toProductViews(products []*pricingv1.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	return out
}

func toCartView(c *pricingv1.Cart) cartView {
	if c == nil {
		return cartView{Lines: []lineView{}}
	}
	lines := make([]lineView, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, lineView{ProductID: l.ProductId, Quantity: l.Quantity})
	}
	return cartView{UserID: c.UserId, Lines: lines, UpdatedAt: c.UpdatedAtUnix}
}
