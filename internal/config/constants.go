package config

const (
	// Version is the statecheck release version.
	Version = "0.3.1"
	// TestsDirname is the reserved directory inside a unit directory that holds test files.
	TestsDirname = "statecheck-tests"
	// TestFileSuffix is the file extension for test declaration files.
	TestFileSuffix = ".tst"
	// FilesDirname is the subtree of the cache directory holding synced file roots.
	FilesDirname = "files"
	// BaseEnvironment is the environment every agent always searches.
	BaseEnvironment = "base"
	// TopFileName is the file mapping environments to their active units.
	TopFileName = "top.yaml"
	// DefaultCacheDir is the cache directory used when STATECHECK_CACHE_DIR is unset.
	DefaultCacheDir = "/var/cache/statecheck"
	// DefaultFileRoot is the file root used when STATECHECK_FILE_ROOTS is unset.
	DefaultFileRoot = "/srv/statecheck"
)
