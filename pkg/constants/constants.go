package constants

// HTTP Header
const (
	HeaderAuthorization = "Authorization"
	HeaderBearerPrefix  = "Bearer "
	HeaderBasicPrefix   = "Basic "
)

// JWT Token类型
const (
	JWTTypeAccess  = "access"
	JWTTypeRefresh = "refresh"
)

// 认证类型
const (
	AuthTypeLDAP  = "ldap"
	AuthTypeLocal = "local"
)

// 用户状态
const (
	StatusEnabled  int8 = 1
	StatusDisabled int8 = 0
)

// HostType 主机类型
const (
	HostTypeOracleDB       = "oracledb"
	HostTypeVirtualization = "virtualization"
	HostTypeExadata        = "exadata"
)

// 默认值
const (
	DefaultAgentVersion = "unknown"
	DefaultPageSize     = 20
	MaxPageSize         = 200
)

// IngestResult 快照入库结果
const (
	IngestInserted = "inserted"
	IngestUpdated  = "updated"
	IngestRejected = "rejected"
	IngestError    = "error"
)
