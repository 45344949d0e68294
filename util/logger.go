package util

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Logger = NewLogger()

//NewLogger 日志
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetReportCaller(true)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
	})
	return logger
}

//SetLogPath 将日志写到指定文件
func SetLogPath(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	Logger.SetOutput(f)
	return nil
}
