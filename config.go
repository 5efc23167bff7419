package langmanager

import "github.com/toolvizion/go-language-manager/internal/runtimeconfig"

var (
	ErrStorageDriverUnknown    = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrRetentionInvalid        = runtimeconfig.ErrRetentionInvalid
	ErrDefaultLanguageRequired = runtimeconfig.ErrDefaultLanguageRequired
	ErrLanguageEmpty           = runtimeconfig.ErrLanguageEmpty
	ErrContentTypeRequired     = runtimeconfig.ErrContentTypeRequired
)

type (
	Config          = runtimeconfig.Config
	StorageConfig   = runtimeconfig.StorageConfig
	CacheConfig     = runtimeconfig.CacheConfig
	RetentionConfig = runtimeconfig.RetentionConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
