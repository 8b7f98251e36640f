package pkgconfig

// Config abstracts read access to application configuration.
//
// Business code should depend on this interface instead of a concrete
// implementation so values can come from a file, the environment, or a
// test double.
type Config interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetFloat(key string) float64
	GetString(key string) string
	GetBinary(key string) []byte
	GetArray(key string) []string
	GetMap(key string) map[string]string
	Close() error
}
