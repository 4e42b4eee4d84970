// Package pricingv1 is the wire contract of the pricing API. Messages are
// plain structs carried by the JSON gRPC codec.
package pricingv1

type Product struct {
	Id            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	BasePrice     string `json:"base_price"`
	DynamicPrice  string `json:"dynamic_price"`
	CreatedAtUnix int64  `json:"created_at_unix"`
	UpdatedAtUnix int64  `json:"updated_at_unix"`
}

type CartLine struct {
	ProductId string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type Cart struct {
	UserId        string      `json:"user_id"`
	Lines         []*CartLine `json:"lines"`
	CreatedAtUnix int64       `json:"created_at_unix"`
	UpdatedAtUnix int64       `json:"updated_at_unix"`
}

type CartMutationRequest struct {
	UserId    string `json:"user_id"`
	ProductId string `json:"product_id"`
}

func (r *CartMutationRequest) GetUserId() string {
	if r == nil {
		return ""
	}
	return r.UserId
}

func (r *CartMutationRequest) GetProductId() string {
	if r == nil {
		return ""
	}
	return r.ProductId
}

// CartMutationResponse carries the updated category, or the whole catalog
// when Reset is set.
type CartMutationResponse struct {
	Cart            *Cart      `json:"cart"`
	UpdatedProducts []*Product `json:"updated_products"`
	Reset           bool       `json:"reset"`
}

type GetCartRequest struct {
	UserId string `json:"user_id"`
}

func (r *GetCartRequest) GetUserId() string {
	if r == nil {
		return ""
	}
	return r.UserId
}

type GetCartResponse struct {
	Cart *Cart `json:"cart"`
}

type GetProductRequest struct {
	Id string `json:"id"`
}

func (r *GetProductRequest) GetId() string {
	if r == nil {
		return ""
	}
	return r.Id
}

type GetProductResponse struct {
	Product *Product `json:"product"`
}

// ListProductsRequest with an empty category lists the whole catalog.
type ListProductsRequest struct {
	Category string `json:"category"`
}

func (r *ListProductsRequest) GetCategory() string {
	if r == nil {
		return ""
	}
	return r.Category
}

type ListProductsResponse struct {
	Products []*Product `json:"products"`
}

// AdjustRequest reapplies a price move for a product's category. Direction
// is "increase" or "decrease".
type AdjustRequest struct {
	ProductId string `json:"product_id"`
	Direction string `json:"direction"`
}

func (r *AdjustRequest) GetProductId() string {
	if r == nil {
		return ""
	}
	return r.ProductId
}

func (r *AdjustRequest) GetDirection() string {
	if r == nil {
		return ""
	}
	return r.Direction
}

type AdjustResponse struct {
	Products []*Product `json:"products"`
}

type ResetAllRequest struct{}

type ResetAllResponse struct {
	Products []*Product `json:"products"`
}
