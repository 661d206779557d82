package menu

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "menu.v1.MenuService"

// Method names of menu.v1.MenuService. Every request and reply body is a
// google.protobuf.Struct carrying the JSON shape of the dto package.
const (
	MethodResolveMenu   = "ResolveMenu"
	MethodGetStatus     = "GetStatus"
	MethodListProducts  = "ListProducts"
	MethodComposeOrder  = "ComposeOrder"
	MethodLoadTenant    = "LoadTenant"
	MethodUpdateDesign  = "UpdateDesign"
	MethodUpdateConfig  = "UpdateConfig"
	MethodAddProduct    = "AddProduct"
	MethodEditProduct   = "EditProduct"
	MethodRemoveProduct = "RemoveProduct"
	MethodAddOption     = "AddOption"
)

// MenuServiceServer is the server API of menu.v1.MenuService.
type MenuServiceServer interface {
	ResolveMenu(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListProducts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComposeOrder(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LoadTenant(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateDesign(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateConfig(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EditProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveProduct(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddOption(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(MenuServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MenuServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(MenuServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes menu.v1.MenuService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MenuServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodResolveMenu, MenuServiceServer.ResolveMenu),
		unary(MethodGetStatus, MenuServiceServer.GetStatus),
		unary(MethodListProducts, MenuServiceServer.ListProducts),
		unary(MethodComposeOrder, MenuServiceServer.ComposeOrder),
		unary(MethodLoadTenant, MenuServiceServer.LoadTenant),
		unary(MethodUpdateDesign, MenuServiceServer.UpdateDesign),
		unary(MethodUpdateConfig, MenuServiceServer.UpdateConfig),
		unary(MethodAddProduct, MenuServiceServer.AddProduct),
		unary(MethodEditProduct, MenuServiceServer.EditProduct),
		unary(MethodRemoveProduct, MenuServiceServer.RemoveProduct),
		unary(MethodAddOption, MenuServiceServer.AddOption),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "menu/v1/menu.proto",
}

func RegisterMenuServiceServer(s grpc.ServiceRegistrar, srv MenuServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// FullMethod returns the invocation path of method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Client is a thin caller for menu.v1.MenuService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with in as the request body.
func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
