package config

// UploadsConfig представляет конфигурацию временного хранения загрузок.
type UploadsConfig struct {
	Dir                    string `yaml:"dir" env:"UPLOAD_DIR" env-default:"uploads"`
	MaxConcurrentSummaries int    `yaml:"max_concurrent_summaries" env:"MAX_CONCURRENT_SUMMARIES" env-default:"4"`
}
