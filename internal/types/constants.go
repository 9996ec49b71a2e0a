package types

const (
	// APIPrefix 是API路由的统一前缀。
	APIPrefix = "/api/v1"
	// DefaultCompleteLimit 是补全查询中的默认返回条数。
	DefaultCompleteLimit = 10
	// DefaultPageSize 是分页与临近查询中的默认条数。
	DefaultPageSize = 20
	// MaxPageSize 是单次查询允许的最大条数。
	MaxPageSize = 1000
	// WatchBufferSize 是每个变更订阅连接的事件缓冲，写满后丢弃新事件。
	WatchBufferSize = 64
)

const (
	// EnvConfigPath 是存储配置文件路径的环境变量键。
	EnvConfigPath = "LEXIRANK_CONFIG_PATH"
	// EnvLogLevel 是控制日志级别的环境变量键。
	EnvLogLevel = "LEXIRANK_LOG_LEVEL"
	// EnvServerPort 是配置服务器端口的环境变量键。
	EnvServerPort = "LEXIRANK_SERVER_PORT"
	// EnvDataDir 是配置数据目录的环境变量键。
	EnvDataDir = "LEXIRANK_DATA_DIR"
)

const (
	// CodeSuccess 表示操作成功的错误码。
	CodeSuccess = 0
	// CodeInvalidParams 表示参数无效的错误码。
	CodeInvalidParams = 10001
	// CodeNotFound 表示字符串未存储的错误码。
	CodeNotFound = 10002
	// CodeInternalError 表示内部错误的错误码。
	CodeInternalError = 10003
	// CodeOutOfRange 表示排名越界的错误码。
	CodeOutOfRange = 10006
	// CodeNoNeighbor 表示不存在前驱/后继的错误码。
	CodeNoNeighbor = 10007
	// CodeEmptyIndex 表示索引为空的错误码。
	CodeEmptyIndex = 10008
)

// ErrorMessages 是错误码到错误消息的映射。
var ErrorMessages = map[int]string{
	CodeSuccess:       "成功",
	CodeInvalidParams: "参数错误",
	CodeNotFound:      "字符串不存在",
	CodeInternalError: "内部错误",
	CodeOutOfRange:    "排名越界",
	CodeNoNeighbor:    "不存在相邻字符串",
	CodeEmptyIndex:    "索引为空",
}
