package config

import "time"

// GroqConfig представляет конфигурацию клиента Groq API.
// Пустой ключ не блокирует старт: ошибка проявится при вызове конвейера.
type GroqConfig struct {
	APIKey  string        `yaml:"api_key" env:"GROQ_API_KEY" env-default:""`
	APIURL  string        `yaml:"api_url" env:"GROQ_API_URL" env-default:""`
	Timeout time.Duration `yaml:"timeout" env:"GROQ_TIMEOUT" env-default:"5m"`
}
