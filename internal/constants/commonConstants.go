package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixSnapshot CachePrefix = "ENV_SNAPSHOT_"
)

const (
	DefaultSortieListLimit = 100
	MaxSortieListLimit     = 500
)
