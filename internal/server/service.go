package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "po.v1.PurchaseOrders"

// PurchaseOrdersServer is the server API for po.v1.PurchaseOrders. Messages are
// structpb.Struct documents keyed like the JSON export.
type PurchaseOrdersServer interface {
	ExtractItems(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPurchaseOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportPurchaseOrder(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
	IngestFile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	IngestDirectory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterPurchaseOrdersServer(s grpc.ServiceRegistrar, srv PurchaseOrdersServer) {
	s.RegisterService(&PurchaseOrdersServiceDesc, srv)
}

// PurchaseOrdersServiceDesc is the grpc.ServiceDesc for po.v1.PurchaseOrders.
var PurchaseOrdersServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PurchaseOrdersServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ExtractItems", Handler: unaryHandler("ExtractItems", PurchaseOrdersServer.ExtractItems)},
		{MethodName: "GetPurchaseOrder", Handler: unaryHandler("GetPurchaseOrder", PurchaseOrdersServer.GetPurchaseOrder)},
		{MethodName: "ExportPurchaseOrder", Handler: unaryHandler("ExportPurchaseOrder", PurchaseOrdersServer.ExportPurchaseOrder)},
		{MethodName: "IngestFile", Handler: unaryHandler("IngestFile", PurchaseOrdersServer.IngestFile)},
		{MethodName: "IngestDirectory", Handler: unaryHandler("IngestDirectory", PurchaseOrdersServer.IngestDirectory)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "po/v1/purchase_orders.proto",
}

func unaryHandler[Resp any](method string, call func(PurchaseOrdersServer, context.Context, *structpb.Struct) (Resp, error)) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PurchaseOrdersServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(PurchaseOrdersServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// PurchaseOrdersClient is the client API for po.v1.PurchaseOrders.
type PurchaseOrdersClient struct {
	cc grpc.ClientConnInterface
}

func NewPurchaseOrdersClient(cc grpc.ClientConnInterface) *PurchaseOrdersClient {
	return &PurchaseOrdersClient{cc: cc}
}

func (c *PurchaseOrdersClient) ExtractItems(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	return out, c.cc.Invoke(ctx, "/"+ServiceName+"/ExtractItems", in, out, opts...)
}

func (c *PurchaseOrdersClient) GetPurchaseOrder(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	return out, c.cc.Invoke(ctx, "/"+ServiceName+"/GetPurchaseOrder", in, out, opts...)
}

func (c *PurchaseOrdersClient) ExportPurchaseOrder(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	return out, c.cc.Invoke(ctx, "/"+ServiceName+"/ExportPurchaseOrder", in, out, opts...)
}

func (c *PurchaseOrdersClient) IngestFile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	return out, c.cc.Invoke(ctx, "/"+ServiceName+"/IngestFile", in, out, opts...)
}

func (c *PurchaseOrdersClient) IngestDirectory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	return out, c.cc.Invoke(ctx, "/"+ServiceName+"/IngestDirectory", in, out, opts...)
}
