package worker

import (
	"fmt"

	"github.com/feichai0017/resume-analyzer/pkg/logger"
)

// asynqLogger routes asynq's internal log lines into our logger.
type asynqLogger struct {
	l logger.Logger
}

func newAsynqLogger(l logger.Logger) *asynqLogger {
	return &asynqLogger{l: l.Named("asynq")}
}

func (a *asynqLogger) Debug(args ...interface{}) { a.l.Debug(fmt.Sprint(args...)) }
func (a *asynqLogger) Info(args ...interface{})  { a.l.Info(fmt.Sprint(args...)) }
func (a *asynqLogger) Warn(args ...interface{})  { a.l.Warn(fmt.Sprint(args...)) }
func (a *asynqLogger) Error(args ...interface{}) { a.l.Error(fmt.Sprint(args...)) }
func (a *asynqLogger) Fatal(args ...interface{}) { a.l.Fatal(fmt.Sprint(args...)) }
