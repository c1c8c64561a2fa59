package logger

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"
	"time"
)

const (
	DEBUG = iota
	INFO
	WARN
	ERROR
)

var levelName = [...]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

var levelColor = [...]string{
	DEBUG: "\x1b[34m",
	INFO:  "\x1b[32m",
	WARN:  "\x1b[33m",
	ERROR: "\x1b[31m",
}

const (
	colorCyan    = "\x1b[36m"
	colorMagenta = "\x1b[35m"
	colorReset   = "\x1b[0m"
)

func ParseLevel(level string) int {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

const (
	DefaultFileMaxSize = 10485760
	logChanSize        = 1000
)

type Config struct {
	AppName      string
	Level        int
	TrackLine    bool
	EnableFile   bool
	FileMaxSize  int64
	DisableColor bool
}

type logEntry struct {
	time     time.Time
	level    int
	msg      string
	fileName string
	funcName string
	line     int
}

type Logger struct {
	logChan   chan *logEntry
	closeChan chan struct{}
	logFile   *os.File
}

var (
	LOG  *Logger = nil
	CONF *Config = nil
)

func InitLogger(config *Config) {
	if config == nil {
		config = &Config{
			AppName:   "application",
			Level:     DEBUG,
			TrackLine: true,
		}
	}
	if config.FileMaxSize == 0 {
		config.FileMaxSize = DefaultFileMaxSize
	}
	CONF = config
	LOG = &Logger{
		logChan:   make(chan *logEntry, logChanSize),
		closeChan: make(chan struct{}),
	}
	go LOG.writeLoop()
}

func CloseLogger() {
	if LOG == nil {
		return
	}
	LOG.closeChan <- struct{}{}
	<-LOG.closeChan
	LOG = nil
	CONF = nil
}

func (l *Logger) writeLoop() {
	remain := -1
	for {
		select {
		case <-l.closeChan:
			remain = len(l.logChan)
		case entry := <-l.logChan:
			l.write(entry)
			if remain > 0 {
				remain--
			}
		}
		if remain == 0 {
			if l.logFile != nil {
				_ = l.logFile.Close()
			}
			l.closeChan <- struct{}{}
			return
		}
	}
}

func (l *Logger) write(entry *logEntry) {
	var sb strings.Builder
	color := !CONF.DisableColor
	if color {
		sb.WriteString(colorCyan)
	}
	sb.WriteString("[")
	sb.WriteString(entry.time.Format("2006-01-02 15:04:05.000"))
	sb.WriteString("]")
	if color {
		sb.WriteString(colorReset)
	}
	sb.WriteString(" ")
	if color {
		sb.WriteString(levelColor[entry.level])
	}
	sb.WriteString("[")
	sb.WriteString(levelName[entry.level])
	sb.WriteString("]")
	if color {
		sb.WriteString(colorReset)
	}
	sb.WriteString(" ")
	sb.WriteString(entry.msg)
	if entry.fileName != "" {
		sb.WriteString(" ")
		if color {
			sb.WriteString(colorMagenta)
		}
		sb.WriteString(fmt.Sprintf("[%s:%d %s()]", entry.fileName, entry.line, entry.funcName))
		if color {
			sb.WriteString(colorReset)
		}
	}
	sb.WriteString("\n")
	logData := sb.String()
	_, _ = os.Stderr.WriteString(logData)
	if CONF.EnableFile {
		l.writeFile(logData)
	}
}

func (l *Logger) writeFile(logData string) {
	fileName := "./log/" + CONF.AppName + ".log"
	if l.logFile == nil {
		_ = os.MkdirAll("./log", 0755)
		file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			_, _ = os.Stderr.WriteString(fmt.Sprintf("open log file error: %v\n", err))
			return
		}
		l.logFile = file
	}
	stat, err := l.logFile.Stat()
	if err == nil && stat.Size() >= CONF.FileMaxSize {
		_ = l.logFile.Close()
		timeStr := time.Now().Format("20060102150405")
		_ = os.Rename(fileName, fileName+"."+timeStr+".log")
		file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			_, _ = os.Stderr.WriteString(fmt.Sprintf("open new log file error: %v\n", err))
			l.logFile = nil
			return
		}
		l.logFile = file
	}
	_, _ = l.logFile.WriteString(logData)
}

func formatLog(level int, msg string, param []any) {
	entry := &logEntry{
		time:  time.Now(),
		level: level,
		msg:   fmt.Sprintf(msg, param...),
	}
	if CONF.TrackLine {
		entry.fileName, entry.line, entry.funcName = getLineFunc()
	}
	LOG.logChan <- entry
}

func getLineFunc() (fileName string, line int, funcName string) {
	pc, file, line, ok := runtime.Caller(3)
	if !ok {
		return "???", -1, "???"
	}
	fileName = path.Base(file)
	funcName = runtime.FuncForPC(pc).Name()
	split := strings.Split(funcName, ".")
	if len(split) != 0 {
		funcName = split[len(split)-1]
	}
	return fileName, line, funcName
}

func Debug(msg string, param ...any) {
	if LOG == nil || CONF.Level > DEBUG {
		return
	}
	formatLog(DEBUG, msg, param)
}

func Info(msg string, param ...any) {
	if LOG == nil || CONF.Level > INFO {
		return
	}
	formatLog(INFO, msg, param)
}

func Warn(msg string, param ...any) {
	if LOG == nil || CONF.Level > WARN {
		return
	}
	formatLog(WARN, msg, param)
}

func Error(msg string, param ...any) {
	if LOG == nil || CONF.Level > ERROR {
		return
	}
	formatLog(ERROR, msg, param)
}

func Stack() string {
	buf := make([]byte, 1024)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) {
			return string(buf[:n])
		}
		buf = make([]byte, 2*len(buf))
	}
}
