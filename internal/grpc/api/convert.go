package api

import (
	"errors"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/magabrotheeeer/account-service/internal/models"
)

// Ключи полей сообщений.
const (
	FieldID           = "id"
	FieldName         = "name"
	FieldUsername     = "username"
	FieldPassword     = "password"
	FieldToken        = "token"
	FieldStatus       = "status"
	FieldCreationDate = "creationDate"
	FieldBirthday     = "birthday"
	FieldAccounts     = "accounts"
)

// ErrFieldType возвращается, когда поле сообщения имеет неподходящий тип.
var ErrFieldType = errors.New("unexpected field type")

// AccountToStruct кодирует аккаунт без пароля. Токен добавляется только при withToken.
func AccountToStruct(acc models.Account, withToken bool) *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldID:           structpb.NewNumberValue(float64(acc.ID)),
		FieldName:         structpb.NewStringValue(acc.Name),
		FieldUsername:     structpb.NewStringValue(acc.Username),
		FieldStatus:       structpb.NewStringValue(string(acc.Status)),
		FieldCreationDate: structpb.NewStringValue(acc.CreationDate.Format(time.RFC3339Nano)),
		FieldBirthday:     structpb.NewNullValue(),
	}
	if acc.Birthday != nil {
		fields[FieldBirthday] = structpb.NewStringValue(acc.Birthday.Format(time.RFC3339))
	}
	if withToken && acc.Token != "" {
		fields[FieldToken] = structpb.NewStringValue(acc.Token)
	}
	return &structpb.Struct{Fields: fields}
}

// AccountsToStruct кодирует список аккаунтов в поле accounts.
func AccountsToStruct(accs []models.Account) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(accs))
	for _, acc := range accs {
		values = append(values, structpb.NewStructValue(AccountToStruct(acc, false)))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldAccounts: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}
}

// AccountFromStruct декодирует аккаунт из ответа сервера.
func AccountFromStruct(s *structpb.Struct) (models.Account, error) {
	const op = "api.AccountFromStruct"

	var acc models.Account
	id, _, err := Int64Field(s, FieldID)
	if err != nil {
		return acc, fmt.Errorf("%s: %w", op, err)
	}
	acc.ID = id
	acc.Name, _ = StringField(s, FieldName)
	acc.Username, _ = StringField(s, FieldUsername)
	acc.Token, _ = StringField(s, FieldToken)
	status, _ := StringField(s, FieldStatus)
	acc.Status = models.Status(status)

	if created, ok := StringField(s, FieldCreationDate); ok && created != "" {
		acc.CreationDate, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return acc, fmt.Errorf("%s: creationDate: %w", op, err)
		}
	}
	if birthday, ok := StringField(s, FieldBirthday); ok && birthday != "" {
		b, err := models.ParseBirthday(birthday)
		if err != nil {
			return acc, fmt.Errorf("%s: birthday: %w", op, err)
		}
		acc.Birthday = &b
	}
	return acc, nil
}

// AccountsFromStruct декодирует ответ List.
func AccountsFromStruct(s *structpb.Struct) ([]models.Account, error) {
	const op = "api.AccountsFromStruct"

	v, ok := s.GetFields()[FieldAccounts]
	if !ok {
		return []models.Account{}, nil
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("%s: %s: %w", op, FieldAccounts, ErrFieldType)
	}
	accs := make([]models.Account, 0, len(list.GetValues()))
	for _, item := range list.GetValues() {
		st := item.GetStructValue()
		if st == nil {
			return nil, fmt.Errorf("%s: %s: %w", op, FieldAccounts, ErrFieldType)
		}
		acc, err := AccountFromStruct(st)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		accs = append(accs, acc)
	}
	return accs, nil
}

// StringField возвращает строковое поле. Отсутствующее или null поле даёт ok=false.
func StringField(s *structpb.Struct, key string) (string, bool) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", false
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", false
	}
	return sv.StringValue, true
}

// Int64Field возвращает целочисленное поле. Число с дробной частью или
// строка вместо числа считаются ошибкой, отсутствующее поле даёт ok=false.
func Int64Field(s *structpb.Struct, key string) (int64, bool, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, false, nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return 0, false, nil
	}
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false, fmt.Errorf("%s: %w", key, ErrFieldType)
	}
	n := nv.NumberValue
	// float64(math.MaxInt64) округляется до 2^63, которое в int64 уже не помещается.
	if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
		return 0, false, fmt.Errorf("%s: %w", key, ErrFieldType)
	}
	return int64(n), true, nil
}

// NewStruct собирает сообщение из строковых полей, пропуская nil-значения.
func NewStruct(fields map[string]*string) *structpb.Struct {
	out := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for k, v := range fields {
		if v != nil {
			out.Fields[k] = structpb.NewStringValue(*v)
		}
	}
	return out
}
