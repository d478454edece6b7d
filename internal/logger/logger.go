package logger

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

// NewFormatter возвращает форматтер логов. JSON использует поля @timestamp и message.
func NewFormatter(format string) (log.Formatter, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return &log.JSONFormatter{
			FieldMap: log.FieldMap{
				log.FieldKeyTime: "@timestamp",
				log.FieldKeyMsg:  "message",
			},
		}, nil
	case FormatText, "":
		return &log.TextFormatter{FullTimestamp: true}, nil
	default:
		return nil, errors.Errorf("неизвестный формат логов %q", format)
	}
}

// Init настраивает стандартный логгер logrus. Если file не пуст, логи пишутся в файл,
// чтобы не мешать интерактивному выводу. Возвращаемая функция закрывает файл.
func Init(level, format, file string) (func(), error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка разбора уровня логирования")
	}
	formatter, err := NewFormatter(format)
	if err != nil {
		return nil, err
	}

	var out io.Writer = os.Stderr
	closer := func() {}
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, errors.Wrapf(err, "ошибка открытия файла логов %s", file)
		}
		out = f
		closer = func() { _ = f.Close() }
	}

	log.SetLevel(lvl)
	log.SetFormatter(formatter)
	log.SetOutput(out)
	return closer, nil
}

// New создает отдельный логгер, например для HTTP middleware
func New(level, format string, out io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка разбора уровня логирования")
	}
	formatter, err := NewFormatter(format)
	if err != nil {
		return nil, err
	}
	logger := log.New()
	logger.SetLevel(lvl)
	logger.SetFormatter(formatter)
	logger.SetOutput(out)
	return logger, nil
}
