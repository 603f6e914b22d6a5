// internal/utils/logger/config.go
package logger

type Config struct {
	LogFile     string // пусто - без записи в файл
	MaxSize     int    // мегабайты
	MaxAge      int    // дни
	MaxBackups  int    // количество файлов
	Compress    bool
	Development bool
}

// DefaultConfig возвращает конфигурацию по умолчанию (только консоль)
func DefaultConfig() *Config {
	return &Config{
		MaxSize:    10,
		MaxAge:     7,
		MaxBackups: 3,
		Compress:   true,
	}
}
