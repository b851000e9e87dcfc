package config

// Config carries every packer-wide constant. It is built once in main and
// passed explicitly down to the codecs instead of living in package globals.
type Config struct {
	// ToolVersion is written into every bundle header.
	ToolVersion int32
	// CacheVersion is the layout version of the map registry cache file.
	CacheVersion int32
	// HeaderBanner prefixes every patched bundle.
	HeaderBanner string
	// CopyBlockSize is the block size used by the bundle patcher copy loop.
	CopyBlockSize int
	// CreatorName is embedded in the cache file and bundle headers.
	CreatorName string

	CacheFileName string
	BuildDirName  string
	// BundleExtension includes the leading dot.
	BundleExtension string
}

const (
	DefaultToolVersion  = 100
	DefaultCacheVersion = 100

	DefaultHeaderBanner = "KNMAPBUNDLE"

	DefaultCopyBlockSize = 0x1000

	DefaultCacheFileName   = "maps.knmcache"
	DefaultBuildDirName    = "Build"
	DefaultBundleExtension = ".knmap"
)

func NewDefaultConfig(creatorName string) *Config {
	return &Config{
		ToolVersion:     DefaultToolVersion,
		CacheVersion:    DefaultCacheVersion,
		HeaderBanner:    DefaultHeaderBanner,
		CopyBlockSize:   DefaultCopyBlockSize,
		CreatorName:     creatorName,
		CacheFileName:   DefaultCacheFileName,
		BuildDirName:    DefaultBuildDirName,
		BundleExtension: DefaultBundleExtension,
	}
}
