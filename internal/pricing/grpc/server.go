package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pricingv1 "github.com/dwikikusuma/shoping-pricing/api/pricingv1"
	catalogapp "github.com/dwikikusuma/shoping-pricing/internal/catalog/app"
	catalog "github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
	catalogrpc "github.com/dwikikusuma/shoping-pricing/internal/catalog/grpc"
	"github.com/dwikikusuma/shoping-pricing/internal/pricing/app"
	"github.com/dwikikusuma/shoping-pricing/internal/pricing/domain"
	"github.com/dwikikusuma/shoping-pricing/internal/storage"
	"github.com/dwikikusuma/shoping-pricing/pkg/logger"
)

// ProductLookup resolves the category a reconciliation applies to.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
}

// Server exposes the engine so a client can retry the pricing half of a
// cart mutation that was only partially applied.
type Server struct {
	pricingv1.UnimplementedPricingServiceServer
	engine   *app.Engine
	products ProductLookup
	log      *slog.Logger
}

func NewServer(engine *app.Engine, products ProductLookup, log *slog.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{engine: engine, products: products, log: log}
}

func (s *Server) Adjust(ctx context.Context, req *pricingv1.AdjustRequest) (*pricingv1.AdjustResponse, error) {
	dir, err := domain.ParseDirection(req.GetDirection())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	p, err := s.products.GetProduct(ctx, req.GetProductId())
	if err != nil {
		return nil, s.mapErr(ctx, err)
	}

	updated, err := s.engine.Adjust(ctx, p.Category, p.ID, dir)
	if err != nil {
		return nil, s.mapErr(ctx, err)
	}
	s.log.InfoContext(ctx, "prices reconciled",
		slog.String("product_id", p.ID),
		slog.String("category", p.Category),
		slog.String("direction", dir.String()),
	)
	return &pricingv1.AdjustResponse{Products: catalogrpc.ToProtoList(updated)}, nil
}

func (s *Server) ResetAll(ctx context.Context, _ *pricingv1.ResetAllRequest) (*pricingv1.ResetAllResponse, error) {
	all, err := s.engine.ResetAll(ctx)
	if err != nil {
		return nil, s.mapErr(ctx, err)
	}
	return &pricingv1.ResetAllResponse{Products: catalogrpc.ToProtoList(all)}, nil
}

func (s *Server) mapErr(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, app.ErrInvalidInput), errors.Is(err, catalogapp.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, catalogapp.ErrNotFound):
		return status.Error(codes.NotFound, "product not found")
	case errors.Is(err, app.ErrCategoryNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, storage.ErrPersistence):
		s.log.ErrorContext(ctx, "price store failure", slog.Any("err", err))
		return status.Error(codes.Unavailable, "store unavailable")
	}
	s.log.ErrorContext(ctx, "pricing request failed", slog.Any("err", err))
	return status.Error(codes.Internal, "internal error")
}
