package pricingv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dwikikusuma/shoping-pricing/pkg/grpcjson"
)

const (
	CartService_AddUnit_FullMethodName         = "/pricing.v1.CartService/AddUnit"
	CartService_RemoveUnit_FullMethodName      = "/pricing.v1.CartService/RemoveUnit"
	CartService_GetCart_FullMethodName         = "/pricing.v1.CartService/GetCart"
	CatalogService_GetProduct_FullMethodName   = "/pricing.v1.CatalogService/GetProduct"
	CatalogService_ListProducts_FullMethodName = "/pricing.v1.CatalogService/ListProducts"
	PricingService_Adjust_FullMethodName       = "/pricing.v1.PricingService/Adjust"
	PricingService_ResetAll_FullMethodName     = "/pricing.v1.PricingService/ResetAll"
)

// unary adapts a typed method to grpc.MethodHandler, running interceptors
// the same way generated code does.
func unary[S any, Req any, Resp any](fullMethod string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(grpcjson.Name)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CartService

type CartServiceServer interface {
	AddUnit(context.Context, *CartMutationRequest) (*CartMutationResponse, error)
	RemoveUnit(context.Context, *CartMutationRequest) (*CartMutationResponse, error)
	GetCart(context.Context, *GetCartRequest) (*GetCartResponse, error)
}

type UnimplementedCartServiceServer struct{}

func (UnimplementedCartServiceServer) AddUnit(context.Context, *CartMutationRequest) (*CartMutationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddUnit not implemented")
}
func (UnimplementedCartServiceServer) RemoveUnit(context.Context, *CartMutationRequest) (*CartMutationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveUnit not implemented")
}
func (UnimplementedCartServiceServer) GetCart(context.Context, *GetCartRequest) (*GetCartResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCart not implemented")
}

var CartService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "pricing.v1.CartService",
	HandlerType: (*CartServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AddUnit", Handler: unary(CartService_AddUnit_FullMethodName, CartServiceServer.AddUnit)},
		{MethodName: "RemoveUnit", Handler: unary(CartService_RemoveUnit_FullMethodName, CartServiceServer.RemoveUnit)},
		{MethodName: "GetCart", Handler: unary(CartService_GetCart_FullMethodName, CartServiceServer.GetCart)},
	},
	Metadata: "pricing/v1/pricing.proto",
}

func RegisterCartServiceServer(s grpc.ServiceRegistrar, srv CartServiceServer) {
	s.RegisterService(&CartService_ServiceDesc, srv)
}

type CartServiceClient interface {
	AddUnit(ctx context.Context, in *CartMutationRequest, opts ...grpc.CallOption) (*CartMutationResponse, error)
	RemoveUnit(ctx context.Context, in *CartMutationRequest, opts ...grpc.CallOption) (*CartMutationResponse, error)
	GetCart(ctx context.Context, in *GetCartRequest, opts ...grpc.CallOption) (*GetCartResponse, error)
}

type cartServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCartServiceClient(cc grpc.ClientConnInterface) CartServiceClient {
	return &cartServiceClient{cc: cc}
}

func (c *cartServiceClient) AddUnit(ctx context.Context, in *CartMutationRequest, opts ...grpc.CallOption) (*CartMutationResponse, error) {
	return invoke[CartMutationResponse](ctx, c.cc, CartService_AddUnit_FullMethodName, in, opts)
}

func (c *cartServiceClient) RemoveUnit(ctx context.Context, in *CartMutationRequest, opts ...grpc.CallOption) (*CartMutationResponse, error) {
	return invoke[CartMutationResponse](ctx, c.cc, CartService_RemoveUnit_FullMethodName, in, opts)
}

func (c *cartServiceClient) GetCart(ctx context.Context, in *GetCartRequest, opts ...grpc.CallOption) (*GetCartResponse, error) {
	return invoke[GetCartResponse](ctx, c.cc, CartService_GetCart_FullMethodName, in, opts)
}

// CatalogService

type CatalogServiceServer interface {
	GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error)
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
}

type UnimplementedCatalogServiceServer struct{}

func (UnimplementedCatalogServiceServer) GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProduct not implemented")
}
func (UnimplementedCatalogServiceServer) ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListProducts not implemented")
}

var CatalogService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "pricing.v1.CatalogService",
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetProduct", Handler: unary(CatalogService_GetProduct_FullMethodName, CatalogServiceServer.GetProduct)},
		{MethodName: "ListProducts", Handler: unary(CatalogService_ListProducts_FullMethodName, CatalogServiceServer.ListProducts)},
	},
	Metadata: "pricing/v1/pricing.proto",
}

func RegisterCatalogServiceServer(s grpc.ServiceRegistrar, srv CatalogServiceServer) {
	s.RegisterService(&CatalogService_ServiceDesc, srv)
}

type CatalogServiceClient interface {
	GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*GetProductResponse, error)
	ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error)
}

type catalogServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogServiceClient(cc grpc.ClientConnInterface) CatalogServiceClient {
	return &catalogServiceClient{cc: cc}
}

func (c *catalogServiceClient) GetProduct(ctx context.Context, in *GetProductRequest, opts ...grpc.CallOption) (*GetProductResponse, error) {
	return invoke[GetProductResponse](ctx, c.cc, CatalogService_GetProduct_FullMethodName, in, opts)
}

func (c *catalogServiceClient) ListProducts(ctx context.Context, in *ListProductsRequest, opts ...grpc.CallOption) (*ListProductsResponse, error) {
	return invoke[ListProductsResponse](ctx, c.cc, CatalogService_ListProducts_FullMethodName, in, opts)
}

// PricingService

type PricingServiceServer interface {
	Adjust(context.Context, *AdjustRequest) (*AdjustResponse, error)
	ResetAll(context.Context, *ResetAllRequest) (*ResetAllResponse, error)
}

type UnimplementedPricingServiceServer struct{}

func (UnimplementedPricingServiceServer) Adjust(context.Context, *AdjustRequest) (*AdjustResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Adjust not implemented")
}
func (UnimplementedPricingServiceServer) ResetAll(context.Context, *ResetAllRequest) (*ResetAllResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ResetAll not implemented")
}

var PricingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "pricing.v1.PricingService",
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Adjust", Handler: unary(PricingService_Adjust_FullMethodName, PricingServiceServer.Adjust)},
		{MethodName: "ResetAll", Handler: unary(PricingService_ResetAll_FullMethodName, PricingServiceServer.ResetAll)},
	},
	Metadata: "pricing/v1/pricing.proto",
}

func RegisterPricingServiceServer(s grpc.ServiceRegistrar, srv PricingServiceServer) {
	s.RegisterService(&PricingService_ServiceDesc, srv)
}

type PricingServiceClient interface {
	Adjust(ctx context.Context, in *AdjustRequest, opts ...grpc.CallOption) (*AdjustResponse, error)
	ResetAll(ctx context.Context, in *ResetAllRequest, opts ...grpc.CallOption) (*ResetAllResponse, error)
}

type pricingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPricingServiceClient(cc grpc.ClientConnInterface) PricingServiceClient {
	return &pricingServiceClient{cc: cc}
}

func (c *pricingServiceClient) Adjust(ctx context.Context, in *AdjustRequest, opts ...grpc.CallOption) (*AdjustResponse, error) {
	return invoke[AdjustResponse](ctx, c.cc, PricingService_Adjust_FullMethodName, in, opts)
}

func (c *pricingServiceClient) ResetAll(ctx context.Context, in *ResetAllRequest, opts ...grpc.CallOption) (*ResetAllResponse, error) {
	return invoke[ResetAllResponse](ctx, c.cc, PricingService_ResetAll_FullMethodName, in, opts)
}
