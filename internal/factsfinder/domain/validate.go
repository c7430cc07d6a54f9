package domain

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	tenDigitPattern = regexp.MustCompile(`^\d{10}$`)
	draftValidator  = newDraftValidator()

	// 電話番号は画面上の表記でメッセージを出す。
	contactTitles = map[string]string{
		"contactNo1": "Contact No.1",
		"contactNo2": "Contact No.2",
	}
)

// ValidationError is a single field-level violation.
type ValidationError struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationErrors はフィールド順に並んだ違反の一覧。
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Message
	}
	return strings.Join(messages, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold.
func (ve ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// First returns the earliest violation.
func (ve ValidationErrors) First() ValidationError {
	if len(ve) == 0 {
		return ValidationError{}
	}
	return ve[0]
}

func newDraftValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "tendigits", func(fl validator.FieldLevel) bool {
		return tenDigitPattern.MatchString(fl.Field().String())
	})
	// 空白のみは数値扱い（未入力）とする。
	mustRegister(v, "numberish", func(fl validator.FieldLevel) bool {
		text := strings.TrimSpace(fl.Field().String())
		if text == "" {
			return true
		}
		n, err := strconv.ParseFloat(text, 64)
		return err == nil && !math.IsNaN(n)
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

// Validate は送信前の Draft を検証する。副作用はなく、入力途中でも何度でも呼べる。
// 違反があれば ValidationErrors を返す。
func Validate(draft Draft) error {
	err := draftValidator.Struct(draft)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	result := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		key := fe.Field()
		result = append(result, ValidationError{
			Field:   key,
			Label:   FieldLabel(key),
			Rule:    fe.Tag(),
			Message: violationMessage(key, fe.Tag()),
		})
	}
	return result
}

func violationMessage(key, rule string) string {
	switch rule {
	case "notblank":
		return fmt.Sprintf("Please fill the %s", FieldLabel(key))
	case "tendigits":
		title, ok := contactTitles[key]
		if !ok {
			title = FieldLabel(key)
		}
		return fmt.Sprintf("%s must be a valid 10-digit number", title)
	case "numberish":
		return fmt.Sprintf("%s must be a valid number", FieldLabel(key))
	}
	return fmt.Sprintf("%s is invalid", FieldLabel(key))
}

// FieldLabel はフィールド識別子の大文字の前に空白を入れた表示名を返す（contactNo1 → "contact No1"）。
func FieldLabel(key string) string {
	var b strings.Builder
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
