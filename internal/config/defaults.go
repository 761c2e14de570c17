package config

import (
	"time"

	"github.com/spf13/viper"
)

const DefaultConfigFile = "carbond.toml"

// setDefaults registers every key so that environment overrides apply
// even when the file omits a section.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.bind", "127.0.0.1")
	v.SetDefault("server.port", 5005)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.websocket", true)
	v.SetDefault("server.admin", []string{"127.0.0.0/8", "::1/128"})

	v.SetDefault("grpc.enabled", false)
	v.SetDefault("grpc.address", "127.0.0.1:50051")
	v.SetDefault("grpc.max_recv_msg_size", 4*1024*1024)
	v.SetDefault("grpc.max_send_msg_size", 4*1024*1024)

	v.SetDefault("ledger.admin", "")
	v.SetDefault("ledger.standalone", true)
	v.SetDefault("ledger.close_interval", 5*time.Second)
	v.SetDefault("ledger.require_signatures", false)
	v.SetDefault("ledger.default_credit_price", 0)
	v.SetDefault("ledger.max_label_length", 256)
	v.SetDefault("ledger.history_size", 256)

	v.SetDefault("node_db.type", "memory")
	v.SetDefault("node_db.path", "")
	v.SetDefault("node_db.compression", "lz4")
	v.SetDefault("node_db.cache_size", 4096)

	v.SetDefault("database.driver", "")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.path", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("metrics.enabled", true)
}
