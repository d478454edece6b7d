package main

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"interview-room/internal/config"
	"interview-room/internal/logger"
	"interview-room/internal/storage"
	"interview-room/internal/stubapi"
)

func main() {
	config.LoadEnv()

	conf, err := config.LoadAppConfig(config.DefaultFiles()...)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	closeLog, err := logger.Init(conf.Log.Level, conf.Log.Format, conf.Log.File)
	if err != nil {
		log.Fatalf("Ошибка настройки логирования: %v", err)
	}
	defer closeLog()

	bank, err := config.LoadQuestionBank(conf.Stub.QuestionsFile)
	if err != nil {
		log.Fatalf("Ошибка загрузки банка вопросов: %v", err)
	}

	store, err := storage.NewStore(conf.Stub.ResultsDir)
	if err != nil {
		log.Fatalf("Ошибка открытия хранилища: %v", err)
	}

	// журнал запросов пишется отдельно от логов приложения
	accessLog, err := logger.New(conf.Log.Level, conf.Stub.AccessLogFormat, os.Stdout)
	if err != nil {
		log.Fatalf("Ошибка настройки журнала запросов: %v", err)
	}

	server := stubapi.New(bank, store, conf.Stub.QuestionCount, accessLog)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("Gracefully shutting down...")
		if err := server.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
	}()

	log.WithFields(log.Fields{
		"addr":      conf.Stub.ListenAddr,
		"questions": bank.TotalQuestions(),
		"per_set":   conf.Stub.QuestionCount,
	}).Info("Заглушка сервиса интервью запущена")

	if err := server.Listen(conf.Stub.ListenAddr); err != nil {
		log.Fatal(err)
	}
	<-done
	log.Info("HTTP server successfully stopped")
}
