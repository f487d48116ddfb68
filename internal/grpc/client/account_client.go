// Package client содержит типизированный клиент gRPC-сервиса аккаунтов.
package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/magabrotheeeer/account-service/internal/grpc/api"
	"github.com/magabrotheeeer/account-service/internal/models"
)

// AccountClient оборачивает api.AccountServiceClient и работает с моделями вместо Struct.
type AccountClient struct {
	conn   *grpc.ClientConn
	client *api.AccountServiceClient
}

// NewAccountClient создает клиента для адреса addr. Соединение устанавливается лениво.
func NewAccountClient(addr string, opts ...grpc.DialOption) (*AccountClient, error) {
	const op = "client.NewAccountClient"

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AccountClient{conn: conn, client: api.NewAccountServiceClient(conn)}, nil
}

func (a *AccountClient) Close() error {
	return a.conn.Close()
}

func (a *AccountClient) Create(ctx context.Context, name, username, password string) (models.Account, error) {
	return decode(a.client.Create(ctx, api.NewStruct(map[string]*string{
		api.FieldName:     &name,
		api.FieldUsername: &username,
		api.FieldPassword: &password,
	})))
}

func (a *AccountClient) Login(ctx context.Context, username, password string) (models.Account, error) {
	return decode(a.client.Login(ctx, api.NewStruct(map[string]*string{
		api.FieldUsername: &username,
		api.FieldPassword: &password,
	})))
}

func (a *AccountClient) Logout(ctx context.Context, username string) (models.Account, error) {
	return decode(a.client.Logout(ctx, api.NewStruct(map[string]*string{
		api.FieldUsername: &username,
	})))
}

func (a *AccountClient) LogoutByID(ctx context.Context, id int64) (models.Account, error) {
	return decode(a.client.Logout(ctx, idStruct(id)))
}

func (a *AccountClient) Get(ctx context.Context, id int64) (models.Account, error) {
	return decode(a.client.Get(ctx, idStruct(id)))
}

func (a *AccountClient) List(ctx context.Context) ([]models.Account, error) {
	out, err := a.client.List(ctx, &structpb.Struct{})
	if err != nil {
		return nil, err
	}
	return api.AccountsFromStruct(out)
}

// Edit передает только заданные поля. birthday — строка YYYY-MM-DD.
func (a *AccountClient) Edit(ctx context.Context, id int64, username, birthday *string) (models.Account, error) {
	req := api.NewStruct(map[string]*string{
		api.FieldUsername: username,
		api.FieldBirthday: birthday,
	})
	req.Fields[api.FieldID] = structpb.NewNumberValue(float64(id))
	return decode(a.client.Edit(ctx, req))
}

func idStruct(id int64) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		api.FieldID: structpb.NewNumberValue(float64(id)),
	}}
}

func decode(out *structpb.Struct, err error) (models.Account, error) {
	if err != nil {
		return models.Account{}, err
	}
	return api.AccountFromStruct(out)
}
