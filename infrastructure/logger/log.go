package logger

import (
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
)

// backendLog is the logging backend used to create all subsystem loggers.
var backendLog = NewBackend()

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = make(map[string]*Logger)

// RegisterSubSystem registers a new subsystem logger, should be called in
// a global variable. Returns the existing logger if the subsystem is
// already registered.
func RegisterSubSystem(subsystem string) *Logger {
	log, ok := subsystemLoggers[subsystem]
	if !ok {
		log = backendLog.Logger(subsystem)
		subsystemLoggers[subsystem] = log
	}
	return log
}

// SupportedSubsystems returns a sorted slice of the registered subsystems
// for logging purposes.
func SupportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsystem := range subsystemLoggers {
		subsystems = append(subsystems, subsystem)
	}

	// Sort the subsystems for stable display.
	sort.Strings(subsystems)
	return subsystems
}

// SetLogLevel sets the logging level for the provided subsystem. Invalid
// subsystems and invalid log levels are rejected.
func SetLogLevel(subsystem string, logLevel string) error {
	log, ok := subsystemLoggers[subsystem]
	if !ok {
		return errors.Errorf("couldn't find subsystem %s", subsystem)
	}

	level, ok := LevelFromString(logLevel)
	if !ok {
		return errors.Errorf("couldn't parse log level %s", logLevel)
	}

	log.SetLevel(level)
	return nil
}

// SetLogLevels sets the log level for all registered subsystem loggers to
// the passed level.
func SetLogLevels(logLevel string) error {
	level, ok := LevelFromString(logLevel)
	if !ok {
		return errors.Errorf("couldn't parse log level %s", logLevel)
	}

	for _, log := range subsystemLoggers {
		log.SetLevel(level)
	}
	return nil
}

// InitLog attaches log file and error log file to the backend log and
// launches it.
func InitLog(logFile, errLogFile string) {
	// 280 MB (MB=1000^2 bytes)
	err := backendLog.AddLogFileWithCustomRotator(logFile, LevelTrace, 1000*280, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s\n",
			logFile, LevelTrace, err)
		os.Exit(1)
	}
	err = backendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding log file %s as log rotator for level %s: %s\n",
			errLogFile, LevelWarn, err)
		os.Exit(1)
	}

	InitLogStdout(LevelInfo)
}

// InitLogStdout attaches stdout to the backend log and launches it.
func InitLogStdout(logLevel Level) {
	err := backendLog.AddLogWriter(os.Stdout, logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error adding stdout to the logger for level %s: %s\n",
			logLevel, err)
		os.Exit(1)
	}

	err = backendLog.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting the logger: %s\n", err)
		os.Exit(1)
	}
}
