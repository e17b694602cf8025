package log

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

var feedLog logger

type logger struct {
	debug *log.Logger
	info  *log.Logger
	err   *log.Logger
	dir   string
}

func InitLogger() {
	feedLog = logger{
		debug: log.New(os.Stdout, "[DEBUG] ", 0),
		info:  log.New(os.Stdout, "[INFOM] ", 0),
		err:   log.New(os.Stderr, "[ERROR] ", 0),
		dir:   "",
	}
}

// ResetLogger redirects all output to a per-process file under the daemon
// home directory.
func ResetLogger(feedHome string) {
	if feedHome == "" {
		osHome, err := os.UserHomeDir()
		if err != nil {
			Fatalf("Failed to get user home directory: %v", err)
		}
		feedLog.dir = filepath.Join(osHome, ".pricefeedd", "logs")
	} else {
		feedLog.dir = filepath.Join(feedHome, "logs")
	}

	if err := os.MkdirAll(feedLog.dir, 0755); err != nil {
		Fatalf("Failed to create log directory %s: %v", feedLog.dir, err)
	}

	format := log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile
	name := fmt.Sprintf("%s.%d.log", filepath.Base(os.Args[0]), os.Getpid())
	path := filepath.Join(feedLog.dir, name)
	file, err := os.Create(path)
	if err != nil {
		Fatalf("Failed to create log file: %v", err)
	}

	Infof("From now on, all logs will be written to %s", path)

	feedLog.debug = log.New(file, "[DEBUG] ", format)
	feedLog.info = log.New(file, "[INFOM] ", format)
	feedLog.err = log.New(file, "[ERROR] ", format)
}

func Debug(v ...any) {
	_ = feedLog.debug.Output(2, fmt.Sprint(v...))
}

func Debugf(format string, v ...any) {
	_ = feedLog.debug.Output(2, fmt.Sprintf(format, v...))
}

func Info(v ...any) {
	_ = feedLog.info.Output(2, fmt.Sprint(v...))
}

func Infof(format string, v ...any) {
	_ = feedLog.info.Output(2, fmt.Sprintf(format, v...))
}

func Error(v ...any) {
	_ = feedLog.err.Output(2, fmt.Sprint(v...))
}

func Errorf(format string, v ...any) {
	_ = feedLog.err.Output(2, fmt.Sprintf(format, v...))
}

func Fatal(v ...any) {
	_ = feedLog.err.Output(2, fmt.Sprint(v...))
	log.Fatal(v...)
}

func Fatalf(format string, v ...any) {
	_ = feedLog.err.Output(2, fmt.Sprintf(format, v...))
	log.Fatalf(format, v...)
}
