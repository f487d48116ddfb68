// Package api описывает gRPC-сервис accounts.AccountService.
//
// Сообщения передаются как google.protobuf.Struct, поля совпадают с JSON
// HTTP API: id, name, username, password, token, status, creationDate, birthday.
// Описание сервиса и клиент написаны вручную в том же виде, что и код protoc-gen-go-grpc.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName — полное имя gRPC-сервиса.
const ServiceName = "accounts.AccountService"

// Полные имена методов.
const (
	MethodCreate = "/" + ServiceName + "/Create"
	MethodLogin  = "/" + ServiceName + "/Login"
	MethodLogout = "/" + ServiceName + "/Logout"
	MethodGet    = "/" + ServiceName + "/Get"
	MethodList   = "/" + ServiceName + "/List"
	MethodEdit   = "/" + ServiceName + "/Edit"
)

// AccountServiceServer — серверная часть accounts.AccountService.
type AccountServiceServer interface {
	Create(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Logout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Get(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	List(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Edit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv AccountServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccountServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc — описание accounts.AccountService для grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Create", Handler: unaryHandler(MethodCreate, AccountServiceServer.Create)},
		{MethodName: "Login", Handler: unaryHandler(MethodLogin, AccountServiceServer.Login)},
		{MethodName: "Logout", Handler: unaryHandler(MethodLogout, AccountServiceServer.Logout)},
		{MethodName: "Get", Handler: unaryHandler(MethodGet, AccountServiceServer.Get)},
		{MethodName: "List", Handler: unaryHandler(MethodList, AccountServiceServer.List)},
		{MethodName: "Edit", Handler: unaryHandler(MethodEdit, AccountServiceServer.Edit)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accounts.proto",
}

// RegisterAccountServiceServer регистрирует реализацию сервиса на сервере.
func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// AccountServiceClient — клиентская часть accounts.AccountService.
type AccountServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAccountServiceClient создает клиента поверх соединения cc.
func NewAccountServiceClient(cc grpc.ClientConnInterface) *AccountServiceClient {
	return &AccountServiceClient{cc: cc}
}

func (c *AccountServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AccountServiceClient) Create(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCreate, in, opts...)
}

func (c *AccountServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodLogin, in, opts...)
}

func (c *AccountServiceClient) Logout(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodLogout, in, opts...)
}

func (c *AccountServiceClient) Get(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGet, in, opts...)
}

func (c *AccountServiceClient) List(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodList, in, opts...)
}

func (c *AccountServiceClient) Edit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodEdit, in, opts...)
}
