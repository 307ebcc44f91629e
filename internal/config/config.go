package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// ListenPortKey is the port where the HTTP interface will listen on.
	ListenPortKey = "LISTEN_PORT"
	// DatadirKey is the local data directory to store the internal state of
	// the daemon.
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the
	// values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	// (badger, inmemory).
	DBTypeKey = "DB_TYPE"
	// ComplianceAddrKey is the base url of the compliance service. When
	// empty the daemon runs with the dev-mode provider that verifies
	// everyone.
	ComplianceAddrKey = "COMPLIANCE_ADDR"
	// CustodianAddrKey is the base url of the escrow custodian. When empty
	// the daemon runs with the in-memory custodian.
	CustodianAddrKey = "CUSTODIAN_ADDR"
	// CollaboratorTimeoutKey is the timeout in seconds applied to every
	// compliance and custodian call.
	CollaboratorTimeoutKey = "COLLABORATOR_TIMEOUT"
	// WebhookRateLimitKey is the max number of webhook deliveries per
	// second.
	WebhookRateLimitKey = "WEBHOOK_RATE_LIMIT"

	DBBadger   = "badger"
	DBInMemory = "inmemory"

	DbLocation = "db"
)

var vip *viper.Viper

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("TRADELANE")
	vip.AutomaticEnv()

	vip.SetDefault(ListenPortKey, 9945)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir())
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(ComplianceAddrKey, "")
	vip.SetDefault(CustodianAddrKey, "")
	vip.SetDefault(CollaboratorTimeoutKey, 5)
	vip.SetDefault(WebhookRateLimitKey, 10)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return time.Duration(vip.GetInt(key)) * time.Second
}

// GetDatadir returns the data directory of the daemon.
func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the db directory inside the datadir, or an empty string
// when running on the inmemory db type.
func GetDbDir() string {
	if GetString(DBTypeKey) == DBInMemory {
		return ""
	}
	return filepath.Join(GetDatadir(), DbLocation)
}

func GetLogLevel() log.Level {
	return log.Level(GetInt(LogLevelKey))
}

func validate() error {
	switch db := GetString(DBTypeKey); db {
	case DBBadger, DBInMemory:
	default:
		return fmt.Errorf("unsupported db type %s", db)
	}
	if port := GetInt(ListenPortKey); port <= 0 || port > 65535 {
		return fmt.Errorf("invalid listen port %d", GetInt(ListenPortKey))
	}
	if GetInt(CollaboratorTimeoutKey) <= 0 {
		return fmt.Errorf("collaborator timeout must be positive")
	}
	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(datadir); err != nil {
		return err
	}
	if GetString(DBTypeKey) == DBBadger {
		return makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation))
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

func defaultDatadir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tradelane-daemon"
	}
	return filepath.Join(home, ".tradelane-daemon")
}
