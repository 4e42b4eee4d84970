package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pricingv1 "github.com/dwikikusuma/shoping-pricing/api/pricingv1"
	"github.com/dwikikusuma/shoping-pricing/internal/cart/app"
	"github.com/dwikikusuma/shoping-pricing/internal/cart/domain"
	catalogrpc "github.com/dwikikusuma/shoping-pricing/internal/catalog/grpc"
	pricingapp "github.com/dwikikusuma/shoping-pricing/internal/pricing/app"
	"github.com/dwikikusuma/shoping-pricing/internal/storage"
	"github.com/dwikikusuma/shoping-pricing/pkg/logger"
)

type Server struct {
	pricingv1.UnimplementedCartServiceServer
	svc *app.Service
	log *slog.Logger
}

func NewServer(svc *app.Service, log *slog.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{svc: svc, log: log}
}

func (s *Server) AddUnit(ctx context.Context, req *pricingv1.CartMutationRequest) (*pricingv1.CartMutationResponse, error) {
	res, err := s.svc.AddUnit(ctx, req.GetUserId(), req.GetProductId())
	if err != nil {
		return nil, s.mutationErr(ctx, res, err)
	}
	return toMutationResponse(res), nil
}

func (s *Server) RemoveUnit(ctx context.Context, req *pricingv1.CartMutationRequest) (*pricingv1.CartMutationResponse, error) {
	res, err := s.svc.RemoveUnit(ctx, req.GetUserId(), req.GetProductId())
	if err != nil {
		return nil, s.mutationErr(ctx, res, err)
	}
	return toMutationResponse(res), nil
}

func (s *Server) GetCart(ctx context.Context, req *pricingv1.GetCartRequest) (*pricingv1.GetCartResponse, error) {
	cart, err := s.svc.GetCart(ctx, req.GetUserId())
	if err != nil {
		return nil, s.mapErr(ctx, err)
	}
	return &pricingv1.GetCartResponse{Cart: toProto(cart)}, nil
}

func toMutationResponse(res app.Result) *pricingv1.CartMutationResponse {
	return &pricingv1.CartMutationResponse{
		Cart:            toProto(res.Cart),
		UpdatedProducts: catalogrpc.ToProtoList(res.Products),
		Reset:           res.Reset,
	}
}

func toProto(cart domain.Cart) *pricingv1.Cart {
	lines := make([]*pricingv1.CartLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, &pricingv1.CartLine{
			ProductId: l.ProductID,
			Quantity:  l.Quantity,
		})
	}

	return &pricingv1.Cart{
		UserId:        cart.UserID,
		Lines:         lines,
		CreatedAtUnix: cart.CreatedAt.Unix(),
		UpdatedAtUnix: cart.UpdatedAt.Unix(),
	}
}

// mutationErr keeps the saved cart on a partial apply; the cart write is
// durable even though the price move failed.
func (s *Server) mutationErr(ctx context.Context, res app.Result, err error) error {
	var partial *app.PartialApplyError
	if !errors.As(err, &partial) {
		return s.mapErr(ctx, err)
	}
	return pricingv1.PartialApplyStatus(partial.Error(), toMutationResponse(res)).Err()
}

// mapErr checks partial apply first: it wraps the underlying pricing error,
// which would otherwise match below.
func (s *Server) mapErr(ctx context.Context, err error) error {
	var partial *app.PartialApplyError
	switch {
	case errors.As(err, &partial):
		return status.Error(codes.Aborted, partial.Error())
	case errors.Is(err, app.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, app.ErrProductNotFound),
		errors.Is(err, app.ErrCartNotFound),
		errors.Is(err, pricingapp.ErrCategoryNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, storage.ErrPersistence):
		s.log.ErrorContext(ctx, "cart store failure", slog.Any("err", err))
		return status.Error(codes.Unavailable, "store unavailable")
	}
	s.log.ErrorContext(ctx, "cart request failed", slog.Any("err", err))
	return status.Error(codes.Internal, "internal error")
}
