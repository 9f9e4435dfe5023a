package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BindError 将请求绑定失败映射为 400 响应，字段级校验错误全部汇总后一次返回
func BindError(c *gin.Context, err error) {
	BadRequest(c, ValidationMessage(err))
}

// ValidationMessage 汇总绑定错误的全部字段消息，非字段级错误退化为通用提示
func ValidationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Bad Request"
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		messages = append(messages, fieldMessage(fieldErr))
	}
	return strings.Join(messages, ",")
}

func fieldMessage(fieldErr validator.FieldError) string {
	field := snakeCase(fieldErr.Field())
	switch fieldErr.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s length must be at least %s characters long", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s length must be less than or equal to %s characters long", field, fieldErr.Param())
	case "len":
		return fmt.Sprintf("%s length must be %s characters long", field, fieldErr.Param())
	default:
		return field + " is invalid"
	}
}

// snakeCase 将结构体字段名转换为请求体里的蛇形字段名
func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
