package pricingv1

import (
	"encoding/json"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// PartialApplyStatus builds the Aborted status returned when a cart write
// succeeded but the price move did not. The saved cart rides along as a
// status detail so clients can still render it.
func PartialApplyStatus(msg string, saved *CartMutationResponse) *status.Status {
	st := status.New(codes.Aborted, msg)
	if saved == nil {
		return st
	}
	body, err := json.Marshal(saved)
	if err != nil {
		return st
	}
	withCart, err := st.WithDetails(wrapperspb.Bytes(body))
	if err != nil {
		return st
	}
	return withCart
}

// PartialApplyResult extracts the saved cart from an error built by
// PartialApplyStatus.
func PartialApplyResult(err error) (*CartMutationResponse, bool) {
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Aborted {
		return nil, false
	}
	for _, d := range st.Details() {
		b, ok := d.(*wrapperspb.BytesValue)
		if !ok {
			continue
		}
		var saved CartMutationResponse
		if err := json.Unmarshal(b.GetValue(), &saved); err != nil {
			return nil, false
		}
		return &saved, true
	}
	return nil, false
}
