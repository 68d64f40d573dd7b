package integrity

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate 字段约束校验器
// 约束以 `validate` tag 的形式声明在实体上，这里只负责解释。
// validator.Validate 内部缓存结构体元数据，并发安全。
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// 错误中的字段名使用json名（first_name 而非 FirstName）
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// notblank: 去除首尾空白后不能为空
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// ValidateFields 按实体上声明的约束校验候选值，返回全部失败字段
func ValidateFields(candidate any) []Violation {
	err := validate.Struct(candidate)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []Violation{{Message: err.Error()}}
	}

	out := make([]Violation, 0, len(errs))
	for _, fe := range errs {
		out = append(out, Violation{
			Field:   fe.Field(),
			Message: describe(fe),
		})
	}
	return out
}

// describe 把validator的tag翻译成提示信息
func describe(fe validator.FieldError) string {
	kind := fe.Kind()
	isText := kind == reflect.String
	isList := kind == reflect.Slice || kind == reflect.Array

	switch fe.Tag() {
	case "required", "notblank":
		return "不能为空"
	case "min", "gte":
		switch {
		case isText:
			return fmt.Sprintf("长度不能少于%s个字符", fe.Param())
		case isList:
			return fmt.Sprintf("至少需要%s项", fe.Param())
		default:
			return fmt.Sprintf("不能小于%s", fe.Param())
		}
	case "max", "lte":
		switch {
		case isText:
			return fmt.Sprintf("长度不能超过%s个字符", fe.Param())
		case isList:
			return fmt.Sprintf("最多%s项", fe.Param())
		default:
			return fmt.Sprintf("不能大于%s", fe.Param())
		}
	case "gt":
		return fmt.Sprintf("必须大于%s", fe.Param())
	case "unique":
		return "不能包含重复项"
	default:
		return fmt.Sprintf("不满足约束 %s", fe.Tag())
	}
}

// NormalizeKey 自然键规范化：去除首尾空白并转大写
// 重复检测与数据库唯一索引使用同一规范化结果。
func NormalizeKey(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
