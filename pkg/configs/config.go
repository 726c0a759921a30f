package configs

type Config struct {
	HttpAddr   string
	DebugAddr  string
	Datastore  string
	CounterKey string
	File       FileConfig
	Redis      RedisConfig
	Cassandra  CassandraConfig
	LogLevel   string
}

type FileConfig struct {
	Path string
}

type RedisConfig struct {
	Address  string
	Database int
	Password string
}

type CassandraConfig struct {
	Hosts    string
	Keyspace string
}
