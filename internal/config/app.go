package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"interview-room/internal/timer"
)

// AppConfig - настройки клиента и локальной заглушки сервиса
type AppConfig struct {
	API struct {
		BaseURL        string `default:"http://localhost:8080/api" env:"API_BASE_URL"`
		TimeoutSeconds int    `default:"30" env:"API_TIMEOUT_SECONDS"`
	}
	Interview struct {
		QuestionSeconds int    `default:"40" env:"QUESTION_SECONDS"`
		UserEmail       string `default:"" env:"USER_EMAIL"`
	}
	Log struct {
		Level  string `default:"info" env:"LOG_LEVEL"`
		Format string `default:"text" env:"LOG_FORMAT"`
		File   string `default:"" env:"LOG_FILE"`
	}
	Stub struct {
		ListenAddr      string `default:":8080" env:"STUB_LISTEN_ADDR"`
		QuestionsFile   string `default:"config/questions.yaml" env:"STUB_QUESTIONS_FILE"`
		QuestionCount   int    `default:"5" env:"STUB_QUESTION_COUNT"`
		ResultsDir      string `default:"" env:"STUB_RESULTS_DIR"`
		AccessLogFormat string `default:"json" env:"STUB_ACCESS_LOG_FORMAT"`
	}
}

// DefaultFiles - файлы конфигурации, которые читаются, если существуют
func DefaultFiles() []string {
	return []string{"config.yml"}
}

// LoadEnv подгружает .env, если он есть
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug(".env не найден, используются переменные окружения")
	}
}

// LoadAppConfig читает конфигурацию из файлов и переменных окружения
func LoadAppConfig(files ...string) (*AppConfig, error) {
	conf := new(AppConfig)
	err := configor.New(&configor.Config{}).Load(conf, files...)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}
	return conf, nil
}

// Validate проверяет корректность конфигурации
func (c *AppConfig) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL должен быть абсолютным URL, получено %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("API_TIMEOUT_SECONDS должно быть больше 0")
	}
	if c.Interview.QuestionSeconds <= 0 || c.Interview.QuestionSeconds > timer.DefaultSeconds {
		return fmt.Errorf("QUESTION_SECONDS должно быть от 1 до %d, получено %d",
			timer.DefaultSeconds, c.Interview.QuestionSeconds)
	}
	if c.Stub.QuestionCount <= 0 {
		return fmt.Errorf("STUB_QUESTION_COUNT должно быть больше 0")
	}
	if c.Stub.AccessLogFormat != "json" && c.Stub.AccessLogFormat != "text" {
		return fmt.Errorf("STUB_ACCESS_LOG_FORMAT должен быть json или text, получено %q", c.Stub.AccessLogFormat)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("неизвестный LOG_LEVEL %q", c.Log.Level)
	}
	return nil
}

// APITimeout возвращает таймаут запросов к сервису
func (c *AppConfig) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}
