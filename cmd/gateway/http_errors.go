package main

import (
	"encoding/json"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pricingv1 "github.com/dwikikusuma/shoping-pricing/api/pricingv1"
)

// httpStatusFromGRPC maps an upstream error to an HTTP status, a stable
// error code and a message safe to show to clients.
func httpStatusFromGRPC(err error) (int, string, string) {
	st, ok := status.FromError(err)
	if !ok {
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "INVALID_ARGUMENT", st.Message()
	case codes.NotFound:
		return http.StatusNotFound, "NOT_FOUND", st.Message()
	case codes.Aborted:
		return http.StatusConflict, "PARTIAL_APPLY", st.Message()
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "UNAUTHENTICATED", st.Message()
	case codes.Unavailable, codes.DeadlineExceeded:
		return http.StatusServiceUnavailable, "UNAVAILABLE", "service unavailable"
	default:
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, httpStatus int, code, msg string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = msg
	writeJSON(w, httpStatus, body)
}

func writeGRPCError(w http.ResponseWriter, err error) {
	httpStatus, code, msg := httpStatusFromGRPC(err)
	writeError(w, httpStatus, code, msg)
}

// writePartialApply answers 409 with the cart that was saved before the
// price move failed.
func writePartialApply(w http.ResponseWriter, err error, saved *pricingv1.CartMutationResponse) {
	httpStatus, code, msg := httpStatusFromGRPC(err)
	var body partialApplyBody
	body.Error.Code = code
	body.Error.Message = msg
	body.Cart = toCartView(saved.Cart)
	writeJSON(w, httpStatus, body)
}

type partialApplyBody struct {
	errorBody
	Cart cartView `json:"cart"`
}

func writeJSON(w http.ResponseWriter, httpStatus int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(v)
}
