package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "carbond.v1.CreditLedger"

// CreditLedgerServer is the server API for the CreditLedger service.
// Requests and responses are google.protobuf.Struct messages.
type CreditLedgerServer interface {
	GetCreditBalance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTotalCreditsRetired(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetIssuerData(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCreditPrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Submit(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(CreditLedgerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CreditLedgerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(CreditLedgerServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// CreditLedgerServiceDesc describes the CreditLedger service for grpc.Server.RegisterService.
var CreditLedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CreditLedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("GetCreditBalance", CreditLedgerServer.GetCreditBalance),
		unaryHandler("GetTotalCreditsRetired", CreditLedgerServer.GetTotalCreditsRetired),
		unaryHandler("GetIssuerData", CreditLedgerServer.GetIssuerData),
		unaryHandler("GetCreditPrice", CreditLedgerServer.GetCreditPrice),
		unaryHandler("Submit", CreditLedgerServer.Submit),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "carbond/v1/credit_ledger.proto",
}

// CreditLedgerClient calls a CreditLedger service.
type CreditLedgerClient struct {
	cc grpc.ClientConnInterface
}

// NewCreditLedgerClient wraps cc.
func NewCreditLedgerClient(cc grpc.ClientConnInterface) *CreditLedgerClient {
	return &CreditLedgerClient{cc: cc}
}

// Call invokes method with req and returns the response struct.
func (c *CreditLedgerClient) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
