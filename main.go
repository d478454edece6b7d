package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"interview-room/internal/api"
	"interview-room/internal/capture"
	"interview-room/internal/config"
	"interview-room/internal/logger"
	"interview-room/internal/metrics"
	"interview-room/internal/room"
	"interview-room/internal/timer"
)

func main() {
	noSpeech := flag.Bool("no-speech", false, "disable answer capture (every answer is recorded as Skipped)")
	configFile := flag.String("config", "", "path to config.yml")
	flag.Parse()

	config.LoadEnv()

	files := config.DefaultFiles()
	if *configFile != "" {
		files = []string{*configFile}
	}
	conf, err := config.LoadAppConfig(files...)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	closeLog, err := logger.Init(conf.Log.Level, conf.Log.Format, conf.Log.File)
	if err != nil {
		log.Fatalf("Ошибка настройки логирования: %v", err)
	}
	defer closeLog()

	m := metrics.NewMetrics()
	client := api.New(conf.API.BaseURL, conf.APITimeout(), api.WithMetrics(m))

	var recognizer *capture.LineRecognizer
	if !*noSpeech {
		recognizer = capture.NewLineRecognizer()
	}

	fmt.Println("📋 Configuration:")
	fmt.Printf("• Interview service: %s\n", conf.API.BaseURL)
	fmt.Printf("• Time per question: %d s\n", conf.Interview.QuestionSeconds)
	if recognizer != nil {
		fmt.Println("• Answer capture: on 🎙")
	} else {
		fmt.Println("• Answer capture: off ⚠️")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := room.New(room.Config{
		Out:             os.Stdout,
		Questions:       client,
		Scorer:          client,
		History:         client,
		Recognizer:      recognizer,
		Clock:           timer.RealClock(),
		QuestionSeconds: conf.Interview.QuestionSeconds,
		UserID:          conf.Interview.UserEmail,
		Metrics:         m,
	})

	err = r.Run(ctx, os.Stdin)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("комната интервью завершилась с ошибкой")
	}

	s := m.GetSnapshot()
	fmt.Printf("\n📊 Summary: %d sessions (%d completed, %d abandoned), %d answers (%d skipped), %d/%d requests ok\n",
		s.SessionsStarted, s.SessionsCompleted, s.SessionsAbandoned,
		s.AnswersRecorded, s.AnswersSkipped,
		s.APICallsSuccessful, s.APICallsTotal)
	fmt.Println("👋 Goodbye!")
}
