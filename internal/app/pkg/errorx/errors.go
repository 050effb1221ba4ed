package errorx

import "errors"

// 定义业务错误
var (
	ErrPONotFound       = errors.New("purchase order not found")
	ErrDataUnavailable  = errors.New("erp data unavailable")
	ErrEmptyQuery       = errors.New("query text is empty")
	ErrUnresolvedIntent = errors.New("intent could not be resolved")
)

// BusinessError 业务错误结构
type BusinessError struct {
	Code    int
	Message string
}

// Error 实现 error 接口
func (e *BusinessError) Error() string {
	return e.Message
}

// NewBusinessError 创建业务错误
func NewBusinessError(code int, message string) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
	}
}

// IsDataUnavailable 判断是否为数据源不可用错误
func IsDataUnavailable(err error) bool {
	return errors.Is(err, ErrDataUnavailable)
}
