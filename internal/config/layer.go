package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// fileLayer is the secondary configuration store consulted when an explicit
// environment variable is not set. First non-empty value wins.
type fileLayer struct {
	v *viper.Viper
}

func newFileLayer() *fileLayer {
	v := viper.New()

	v.SetConfigName("digitalkontroll")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/digitalkontroll/config") // volume-mounted config
	v.AddConfigPath("/etc/digitalkontroll")            // system config
	v.AddConfigPath(".")                               // current directory (dev mode)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// unreadable config file falls back to env-only resolution
			return &fileLayer{}
		}
	}

	return &fileLayer{v: v}
}

func (l *fileLayer) resolve(envKey, fileKey, def string) string {
	if value := strings.TrimSpace(os.Getenv(envKey)); value != "" {
		return value
	}
	if l != nil && l.v != nil {
		if value := strings.TrimSpace(l.v.GetString(fileKey)); value != "" {
			return value
		}
	}
	return def
}
