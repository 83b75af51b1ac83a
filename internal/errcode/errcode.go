package errcode

// 错误码约定：
// - 0：无错误
// - 4xxx：调用方可修正的业务错误（参数缺失、资源不存在、唯一键冲突）
// - 5xxx：系统错误（需要中断流程）
const (
	OK              = 0
	Validation      = 4000
	ResourceMissing = 4004
	Conflict        = 4009
	SystemError     = 5000
)
