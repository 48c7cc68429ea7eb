package config

// PostgresConfig содержит настройки подключения к базе данных.
// DSN обязателен: без него процесс завершается при старте.
type PostgresConfig struct {
	DSN            string `yaml:"dsn" env:"POSTGRES_DSN" env-required:"true"`
	MinConn        int    `yaml:"min_conn" env:"POSTGRES_MIN_CONN" env-default:"1"`
	MaxConn        int    `yaml:"max_conn" env:"POSTGRES_MAX_CONN" env-default:"10"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"file://migrations"`
}
