package core

import "fmt"

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//
// 使用场景：
//   - Matrix 错误：EMPTY_LOG
//   - Recommend 错误：INVALID_K, UNKNOWN_USER, CANDIDATE_EXHAUSTED
//   - Model 错误：NOT_FITTED, NOT_SUPPORTED
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "EMPTY_LOG", "INVALID_K"）
	Message string // 错误消息
	Module  string // 模块名称（如 "matrix", "recommend", "store"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeEmptyLog           = "EMPTY_LOG"           // 日志中没有任何交互记录
	ErrorCodeInvalidK           = "INVALID_K"           // k <= 0
	ErrorCodeUnknownUser        = "UNKNOWN_USER"        // 严格模式下用户不在拟合矩阵中
	ErrorCodeCandidateExhausted = "CANDIDATE_EXHAUSTED" // 过滤后用户没有任何可推荐物品
	ErrorCodeNotFitted          = "NOT_FITTED"          // 模型尚未拟合
	ErrorCodeNotFound           = "NOT_FOUND"           // 资源不存在
	ErrorCodeNotSupported       = "NOT_SUPPORTED"       // 操作不支持
	ErrorCodeInvalidInput       = "INVALID_INPUT"       // 输入无效
	ErrorCodeInternalError      = "INTERNAL_ERROR"      // 内部错误
)

// 模块名称常量
const (
	ModuleMatrix    = "matrix"    // 稀疏矩阵构建
	ModuleModel     = "model"     // 因子模型
	ModuleRecommend = "recommend" // 推荐编排
	ModuleCandidate = "candidate" // 候选集
	ModuleStore     = "store"     // 存储
)

// 常用错误实例

var (
	// ErrEmptyLog 表示日志为空，无法构建稀疏矩阵
	ErrEmptyLog = NewDomainError(ModuleMatrix, ErrorCodeEmptyLog, "matrix: interaction log is empty")

	// ErrInvalidK 表示请求的 k 不是正整数
	ErrInvalidK = NewDomainError(ModuleRecommend, ErrorCodeInvalidK, "recommend: k must be positive")

	// ErrNotFitted 表示模型尚未拟合，不能用于预测
	ErrNotFitted = NewDomainError(ModuleModel, ErrorCodeNotFitted, "model: not fitted")
)

// NewUnknownUserError 构造严格模式下用户不存在的错误。
func NewUnknownUserError(userID int64) *DomainError {
	return NewDomainError(ModuleRecommend, ErrorCodeUnknownUser,
		fmt.Sprintf("recommend: user %d has no row in the fitted matrix", userID))
}

// NewCandidateExhaustedError 构造候选集耗尽错误（可选的严格上报）。
func NewCandidateExhaustedError(userID int64) *DomainError {
	return NewDomainError(ModuleRecommend, ErrorCodeCandidateExhausted,
		fmt.Sprintf("recommend: user %d has no eligible items after filtering", userID))
}

// 通用错误检查函数

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsEmptyLog 检查错误是否为 EMPTY_LOG
func IsEmptyLog(err error) bool {
	return hasCode(err, ErrorCodeEmptyLog)
}

// IsInvalidK 检查错误是否为 INVALID_K
func IsInvalidK(err error) bool {
	return hasCode(err, ErrorCodeInvalidK)
}

// IsUnknownUser 检查错误是否为 UNKNOWN_USER
func IsUnknownUser(err error) bool {
	return hasCode(err, ErrorCodeUnknownUser)
}

// IsCandidateExhausted 检查错误是否为 CANDIDATE_EXHAUSTED
func IsCandidateExhausted(err error) bool {
	return hasCode(err, ErrorCodeCandidateExhausted)
}

// IsNotFitted 检查错误是否为 NOT_FITTED
func IsNotFitted(err error) bool {
	return hasCode(err, ErrorCodeNotFitted)
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	return hasCode(err, ErrorCodeNotSupported)
}
