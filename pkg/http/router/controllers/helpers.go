package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lintang-b-s/cityroute/pkg/geo"
	helper "github.com/lintang-b-s/cityroute/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/cityroute/pkg/util"
	"go.uber.org/zap"
)

const maxRequestBodyBytes = 1 << 20

type envelope = helper.Envelope

// requestValidator validator + english translator, safe for concurrent use after construction.
type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() *requestValidator {
	validate := validator.New()
	_ = validate.RegisterValidation("latlng", validateLatLng)

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)
	_ = validate.RegisterTranslation("latlng", trans, func(ut ut.Translator) error {
		return ut.Add("latlng", "{0} must be a [lat, lng] pair within [-90, 90] x [-180, 180]", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("latlng", fe.Field())
		return t
	})

	return &requestValidator{validate: validate, trans: trans}
}

// validateLatLng [lat, lng] pair.
func validateLatLng(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Array && field.Kind() != reflect.Slice {
		return false
	}
	if field.Len() != 2 {
		return false
	}
	return geo.NewCoordinate(field.Index(0).Float(), field.Index(1).Float()).IsValid()
}

// Struct validates req, the error lists every translated violation.
func (rv *requestValidator) Struct(req interface{}) error {
	err := rv.validate.Struct(req)
	if err == nil {
		return nil
	}
	vv := translateError(err, rv.trans)
	vvString := make([]string, 0, len(vv))
	for _, v := range vv {
		vvString = append(vvString, v.Error())
	}
	return fmt.Errorf("validation error: %v", vvString)
}

func translateError(err error, trans ut.Translator) []error {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	errs := make([]error, 0, len(validatorErrs))
	for _, e := range validatorErrs {
		errs = append(errs, errors.New(e.Translate(trans)))
	}
	return errs
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return fmt.Errorf("body contains unknown key %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

type baseAPI struct {
	log       *zap.Logger
	validator *requestValidator
}

func (api *baseAPI) writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	return helper.WriteJSON(w, status, data, headers)
}

func (api *baseAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	if err := helper.WriteError(w, status, message); err != nil {
		api.log.Error("writing error response", zap.Error(err), zap.String("path", r.URL.Path))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *baseAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (api *baseAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.log.Error("internal server error", zap.Error(err), zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	api.errorResponse(w, r, http.StatusInternalServerError, util.MessageInternalServerError)
}

// StatusCode picks the http status from the error code set by the usecases.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, util.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, util.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, util.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, util.ErrBadGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (api *baseAPI) getStatusCode(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	if status == http.StatusInternalServerError {
		api.ServerErrorResponse(w, r, err)
		return
	}
	api.log.Debug("request failed", zap.Error(err), zap.Int("status", status), zap.String("path", r.URL.Path))
	api.errorResponse(w, r, status, err.Error())
}
