package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pricingv1 "github.com/dwikikusuma/shoping-pricing/api/pricingv1"
	"github.com/dwikikusuma/shoping-pricing/internal/catalog/app"
	"github.com/dwikikusuma/shoping-pricing/internal/catalog/domain"
	"github.com/dwikikusuma/shoping-pricing/internal/storage"
)

type Server struct {
	pricingv1.UnimplementedCatalogServiceServer
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func (s *Server) GetProduct(ctx context.Context, req *pricingv1.GetProductRequest) (*pricingv1.GetProductResponse, error) {
	p, err := s.svc.GetProduct(ctx, req.GetId())
	if err != nil {
		return nil, mapErr(err)
	}
	return &pricingv1.GetProductResponse{Product: ToProto(p)}, nil
}

func (s *Server) ListProducts(ctx context.Context, req *pricingv1.ListProductsRequest) (*pricingv1.ListProductsResponse, error) {
	products, err := s.svc.ListProducts(ctx, req.GetCategory())
	if err != nil {
		return nil, mapErr(err)
	}
	return &pricingv1.ListProductsResponse{Products: ToProtoList(products)}, nil
}

func ToProto(p domain.Product) *pricingv1.Product {
	return &pricingv1.Product{
		Id:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		BasePrice:     p.BasePrice.String(),
		DynamicPrice:  p.DynamicPrice.String(),
		CreatedAtUnix: p.CreatedAt.Unix(),
		UpdatedAtUnix: p.UpdatedAt.Unix(),
	}
}

func ToProtoList(products []domain.Product) []*pricingv1.Product {
	out := make([]*pricingv1.Product, 0, len(products))
	for _, p := range products {
		out = append(out, ToProto(p))
	}
	return out
}

func mapErr(err error) error {
	if errors.Is(err, app.ErrInvalidInput) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if errors.Is(err, app.ErrNotFound) {
		return status.Error(codes.NotFound, "product not found")
	}
	if errors.Is(err, storage.ErrPersistence) {
		return status.Error(codes.Unavailable, "store unavailable")
	}
	return status.Error(codes.Internal, "internal error")
}
