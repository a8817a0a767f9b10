package config

// Replica configures the optional secondary Postgres backend. Every mutation
// against the primary is mirrored to the replica on a best-effort basis; the
// replica is never read from.
type Replica struct {
	Enabled  bool   `env:"REPLICA_ENABLED" envDefault:"false"`
	URL      string `env:"REPLICA_DATABASE_URL"`
	MaxConns int32  `env:"REPLICA_MAX_CONNS" envDefault:"4"`
}
