package grpc

import (
	"encoding/json"
	"errors"
	"net"
	"strconv"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeJamon/carbond/internal/core/ledger/service"
	"github.com/LeJamon/carbond/internal/core/principal"
	"github.com/LeJamon/carbond/internal/core/tx"
)

// stringField returns a required string field of req.
func stringField(req *structpb.Struct, name string) (string, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return "", status.Errorf(codes.InvalidArgument, "missing field %q", name)
	}
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok || s.StringValue == "" {
		return "", status.Errorf(codes.InvalidArgument, "field %q must be a non-empty string", name)
	}
	return s.StringValue, nil
}

func principalField(req *structpb.Struct, name string) (principal.Principal, error) {
	s, err := stringField(req, name)
	if err != nil {
		return "", err
	}
	p := principal.Principal(s)
	if err := p.Validate(); err != nil {
		return "", status.Errorf(codes.InvalidArgument, "field %q: %v", name, err)
	}
	return p, nil
}

// jsonField returns a field as JSON. A struct is re-encoded; a string is
// taken as already-encoded JSON so large integers keep their precision.
func jsonField(req *structpb.Struct, name string) ([]byte, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "missing field %q", name)
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return []byte(k.StringValue), nil
	case *structpb.Value_StructValue:
		return json.Marshal(k.StructValue.AsMap())
	default:
		return nil, status.Errorf(codes.InvalidArgument, "field %q must be an object or a JSON string", name)
	}
}

// amount encodes a credit quantity. Values a double cannot hold exactly
// are sent as decimal strings.
func amount(v uint64) interface{} {
	if v > 1<<53 {
		return strconv.FormatUint(v, 10)
	}
	return float64(v)
}

func newStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return s, nil
}

// toStatus maps a ledger service error to a gRPC status.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, service.ErrInvalidArgument), errors.Is(err, tx.ErrMissingRequiredField),
		errors.Is(err, tx.ErrUnknownTransactionType):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, tx.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, service.ErrNotStarted):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// parseNetworks turns CIDRs and bare IPs into networks, skipping entries
// that parse as neither.
func parseNetworks(nets []string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(nets))
	for _, n := range nets {
		if !strings.Contains(n, "/") {
			if ip := net.ParseIP(n); ip != nil && ip.To4() != nil {
				n += "/32"
			} else {
				n += "/128"
			}
		}
		if _, ipnet, err := net.ParseCIDR(n); err == nil {
			out = append(out, ipnet)
		}
	}
	return out
}
