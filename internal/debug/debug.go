package debug

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Debug levels
const (
	LevelOff     = 0 // No output
	LevelInfo    = 1 // Important info (mode changes, startup)
	LevelLive    = 2 // Live info (axis moves, servo, commands)
	LevelVerbose = 3 // Verbose (sensor samples, dropped input)
	LevelTrace   = 4 // Trace (GPIO, very low level)
)

var (
	level  int
	logger = newLogger(os.Stdout)
)

func newLogger(w io.Writer) *log.Logger {
	l := log.New()
	l.SetOutput(w)
	// Filtering is done against level; logrus only formats.
	l.SetLevel(log.TraceLevel)
	l.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000000",
	})
	return l
}

// Init initializes the debug system with a level (0-4).
// 0 = no output
// 1 = important info (mode changes, startup steps)
// 2 = live info (axis moves, servo writes, commands)
// 3 = verbose (sensor samples, ignored commands, peer frames)
// 4 = trace (GPIO, very low level)
func Init(debugLevel int) {
	level = debugLevel
}

// SetOutput redirects all debug output, e.g. to tee into the web status stream.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Logger exposes the underlying logrus logger for callers that need fields.
func Logger() *log.Logger {
	return logger
}

// Level returns the current debug level.
func Level() int {
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return level >= minLevel
}

// --- Level 1 functions (Info): important info ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	if level >= LevelInfo {
		logger.Infof(format, args...)
	}
}

// Warn prints a level 1 warning.
func Warn(format string, args ...interface{}) {
	if level >= LevelInfo {
		logger.Warnf(format, args...)
	}
}

// Mode prints a control mode change (level 1).
func Mode(name string, value interface{}) {
	if level >= LevelInfo {
		logger.WithField("mode", name).Infof("%s -> %v", name, value)
	}
}

// Value prints a named value (level 1).
func Value(name string, value interface{}) {
	if level >= LevelInfo {
		logger.Infof("  %s = %v", name, value)
	}
}

// --- Level 2 functions (Live): real-time info ---

// Live prints a level 2 message (live info).
func Live(format string, args ...interface{}) {
	if level >= LevelLive {
		logger.WithField("live", true).Infof(format, args...)
	}
}

// Axis prints a motor axis direction change (level 2).
func Axis(axis string, direction string, applied bool) {
	if level >= LevelLive {
		logger.WithFields(log.Fields{"axis": axis, "applied": applied}).Infof("Motor %s: %s", axis, direction)
	}
}

// Servo prints a servo write (level 2).
func Servo(angle int, pulseUs int64) {
	if level >= LevelLive {
		logger.WithField("servo", angle).Infof("Servo angle -> %d°, pulse %d us", angle, pulseUs)
	}
}

// Command prints an inbound command (level 2).
func Command(source, name string, value interface{}) {
	if level >= LevelLive {
		logger.WithFields(log.Fields{"source": source, "param": name}).Infof("%s <- %v", name, value)
	}
}

// --- Level 3 functions (Verbose): everything ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	if level >= LevelVerbose {
		logger.Debugf(format, args...)
	}
}

// Printf is an alias for Verbose.
func Printf(format string, args ...interface{}) {
	Verbose(format, args...)
}

// PrintStruct prints a struct in formatted form (level 3).
func PrintStruct(name string, v interface{}) {
	if level >= LevelVerbose {
		logger.Debugf("%s: %+v", name, v)
	}
}

// Sensors prints an IR sensor sample (level 3).
func Sensors(left, right bool) {
	if level >= LevelVerbose {
		logger.WithFields(log.Fields{"left": left, "right": right}).Debug("IR sample")
	}
}

// Section prints a section separator (level 3).
func Section(name string) {
	if level >= LevelVerbose {
		logger.Debug("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		logger.Debugf("  %s", name)
		logger.Debug("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	}
}

// Step prints a numbered step (level 3).
func Step(num int, description string) {
	if level >= LevelVerbose {
		logger.Debugf("Step %d: %s", num, description)
	}
}

// --- Level 4 functions (Trace): very low level ---

// Trace prints a level 4 message (trace, GPIO).
func Trace(format string, args ...interface{}) {
	if level >= LevelTrace {
		logger.Tracef(format, args...)
	}
}

// GPIO prints a GPIO operation (level 4).
func GPIO(operation string, pin int, value interface{}) {
	if level >= LevelTrace {
		logger.WithField("pin", pin).Tracef("[GPIO] %s value=%v", operation, value)
	}
}

// --- General functions ---

// Error prints a debug error (level 1+).
func Error(err error) {
	if level >= LevelInfo {
		logger.Error(err)
	}
}

// Fmt returns a formatted string only if debug is enabled.
func Fmt(format string, args ...interface{}) string {
	if level > 0 {
		return fmt.Sprintf(format, args...)
	}
	return ""
}
