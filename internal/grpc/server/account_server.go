// Package server реализует gRPC-сервер accounts.AccountService.
//
// AccountServer разбирает запросы google.protobuf.Struct, делегирует их сервису
// аккаунтов и переводит типизированные ошибки сервиса в коды gRPC.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/magabrotheeeer/account-service/internal/grpc/api"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/services/account"
)

// AccountService — операции сервиса аккаунтов, доступные по gRPC.
type AccountService interface {
	Create(ctx context.Context, in models.CreateInput) (models.Account, error)
	Login(ctx context.Context, in models.LoginInput) (models.Account, error)
	Logout(ctx context.Context, username string) (models.Account, error)
	LogoutByID(ctx context.Context, id int64) (models.Account, error)
	Edit(ctx context.Context, in models.EditInput) (models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	GetByID(ctx context.Context, id int64) (models.Account, error)
}

// AccountServer реализует api.AccountServiceServer.
type AccountServer struct {
	service AccountService
	log     *slog.Logger
}

var _ api.AccountServiceServer = (*AccountServer)(nil)

// NewAccountServer создает новый экземпляр AccountServer.
func NewAccountServer(service AccountService, logger *slog.Logger) *AccountServer {
	return &AccountServer{
		service: service,
		log:     logger,
	}
}

// Create регистрирует аккаунт и возвращает его вместе с токеном.
func (s *AccountServer) Create(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := models.CreateInput{}
	in.Name, _ = api.StringField(req, api.FieldName)
	in.Username, _ = api.StringField(req, api.FieldUsername)
	in.Password, _ = api.StringField(req, api.FieldPassword)
	s.log.Info("Create request", slog.String("username", in.Username))

	acc, err := s.service.Create(ctx, in)
	if err != nil {
		return nil, s.toStatus("Create", err)
	}
	return api.AccountToStruct(acc, true), nil
}

// Login проверяет пароль и выдает новый токен.
func (s *AccountServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in := models.LoginInput{}
	in.Username, _ = api.StringField(req, api.FieldUsername)
	in.Password, _ = api.StringField(req, api.FieldPassword)
	s.log.Info("Login request", slog.String("username", in.Username))

	acc, err := s.service.Login(ctx, in)
	if err != nil {
		return nil, s.toStatus("Login", err)
	}
	return api.AccountToStruct(acc, true), nil
}

// Logout переводит аккаунт в OFFLINE. Аккаунт задается полем id или username.
func (s *AccountServer) Logout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, hasID, err := api.Int64Field(req, api.FieldID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	var acc models.Account
	if hasID {
		s.log.Info("Logout request", slog.Int64("id", id))
		acc, err = s.service.LogoutByID(ctx, id)
	} else {
		username, _ := api.StringField(req, api.FieldUsername)
		s.log.Info("Logout request", slog.String("username", username))
		acc, err = s.service.Logout(ctx, username)
	}
	if err != nil {
		return nil, s.toStatus("Logout", err)
	}
	return api.AccountToStruct(acc, false), nil
}

// Get возвращает аккаунт по id.
func (s *AccountServer) Get(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}

	acc, err := s.service.GetByID(ctx, id)
	if err != nil {
		return nil, s.toStatus("Get", err)
	}
	return api.AccountToStruct(acc, false), nil
}

// List возвращает все аккаунты в поле accounts.
func (s *AccountServer) List(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	accs, err := s.service.List(ctx)
	if err != nil {
		return nil, s.toStatus("List", err)
	}
	return api.AccountsToStruct(accs), nil
}

// Edit меняет username и/или birthday. Отсутствующие поля не трогаются.
func (s *AccountServer) Edit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}

	in := models.EditInput{ID: id}
	if username, ok := api.StringField(req, api.FieldUsername); ok {
		in.Username = &username
	}
	if raw, ok := api.StringField(req, api.FieldBirthday); ok {
		b, err := models.ParseBirthday(raw)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "field %s is not a valid date", api.FieldBirthday)
		}
		in.Birthday = &b
	}
	s.log.Info("Edit request", slog.Int64("id", id))

	acc, err := s.service.Edit(ctx, in)
	if err != nil {
		return nil, s.toStatus("Edit", err)
	}
	return api.AccountToStruct(acc, false), nil
}

func requireID(req *structpb.Struct) (int64, error) {
	id, ok, err := api.Int64Field(req, api.FieldID)
	if err != nil {
		return 0, status.Error(codes.InvalidArgument, err.Error())
	}
	if !ok {
		return 0, status.Error(codes.InvalidArgument, fmt.Sprintf("field %s is required", api.FieldID))
	}
	return id, nil
}

// toStatus переводит ошибку сервиса в статус gRPC. Текст инфраструктурных ошибок наружу не уходит.
func (s *AccountServer) toStatus(method string, err error) error {
	var code codes.Code
	switch account.KindOf(err) {
	case account.KindValidation:
		code = codes.InvalidArgument
	case account.KindConflict:
		code = codes.AlreadyExists
	case account.KindNotFound:
		code = codes.NotFound
	case account.KindUnauthorized:
		code = codes.Unauthenticated
	default:
		s.log.Error(method+" failed", sl.Err(err))
		return status.Error(codes.Internal, "internal error")
	}
	s.log.Info(method+" rejected", slog.String("code", code.String()), sl.Err(err))
	return status.Error(code, err.Error())
}
