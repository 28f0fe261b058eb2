package remote

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// CheckFunc decides a single remote check.
type CheckFunc func(ctx context.Context, object *structpb.Struct) (bool, error)

// NewHandler serves fn at CheckProcedure. It returns the path to mount the
// handler on, like generated Connect handlers do.
func NewHandler(fn CheckFunc, opts ...connect.HandlerOption) (string, http.Handler) {
	h := connect.NewUnaryHandler(
		CheckProcedure,
		func(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[wrapperspb.BoolValue], error) {
			ok, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, err
			}
			return connect.NewResponse(wrapperspb.Bool(ok)), nil
		},
		opts...,
	)
	return CheckProcedure, h
}
