package transport

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/fastygo/breaks/domain"
)

// FormReader is satisfied by *fasthttp.RequestCtx.
type FormReader interface {
	FormValue(key string) []byte
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("form"); name != "" {
			return name
		}
		return f.Name
	})
	_ = validate.RegisterValidation("localpath", validateLocalPath)
}

func validateLocalPath(fl validator.FieldLevel) bool {
	return IsLocalPath(fl.Field().String())
}

// IsLocalPath accepts same-site absolute paths only, so "//evil.example" is rejected.
func IsLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.ContainsAny(p, "\\\r\n")
}

type CreateBreakRequest struct {
	ActivityID int64 `form:"activity_id" validate:"gt=0"`
}

type UpdateBreakRequest struct {
	BreakID int64  `form:"break_id" validate:"gt=0"`
	IsDone  string `form:"is_done" validate:"required,boolean"`
}

// Done returns the coerced flag; only valid after a successful parse.
func (r UpdateBreakRequest) Done() bool {
	done, _ := strconv.ParseBool(r.IsDone)
	return done
}

type SkipBreakRequest struct {
	BreakID int64 `form:"break_id" validate:"gt=0"`
}

type LoginRequest struct {
	Username string `form:"username" validate:"required,max=150"`
	Password string `form:"password" validate:"required,max=128"`
	Next     string `form:"next" validate:"omitempty,localpath"`
}

func ParseCreateBreak(form FormReader) (CreateBreakRequest, error) {
	id, err := formID(form, "activity_id")
	if err != nil {
		return CreateBreakRequest{}, err
	}
	req := CreateBreakRequest{ActivityID: id}
	return req, check(req)
}

func ParseUpdateBreak(form FormReader) (UpdateBreakRequest, error) {
	id, err := formID(form, "break_id")
	if err != nil {
		return UpdateBreakRequest{}, err
	}
	req := UpdateBreakRequest{
		BreakID: id,
		IsDone:  strings.TrimSpace(string(form.FormValue("is_done"))),
	}
	return req, check(req)
}

func ParseSkipBreak(form FormReader) (SkipBreakRequest, error) {
	id, err := formID(form, "break_id")
	if err != nil {
		return SkipBreakRequest{}, err
	}
	req := SkipBreakRequest{BreakID: id}
	return req, check(req)
}

func ParseLogin(form FormReader) (LoginRequest, error) {
	req := LoginRequest{
		Username: strings.TrimSpace(string(form.FormValue("username"))),
		Password: string(form.FormValue("password")),
		Next:     string(form.FormValue("next")),
	}
	return req, check(req)
}

func formID(form FormReader, field string) (int64, error) {
	raw := strings.TrimSpace(string(form.FormValue(field)))
	if raw == "" {
		return 0, domain.NewError(domain.ErrCodeInvalid, field+" is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.WrapError(domain.ErrCodeInvalid, field+" must be an integer", err)
	}
	return id, nil
}

func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return domain.WrapError(domain.ErrCodeInvalid, describe(fe), err)
	}
	return domain.WrapError(domain.ErrCodeInvalid, "invalid payload", err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be a positive integer", fe.Field())
	case "boolean":
		return fmt.Sprintf("%s must be a boolean", fe.Field())
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "localpath":
		return fmt.Sprintf("%s must be a local path", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
