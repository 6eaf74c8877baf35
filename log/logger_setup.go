package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	errSubloggerConfigIsNil  = errors.New("sublogger config is nil")
	errUnhandledOutputWriter = errors.New("unhandled output writer")
	errSubLoggerNotFound     = errors.New("sub logger not found")
	errFileNameUnset         = errors.New("file output requested without a filename")
)

func boolPtr(b bool) *bool {
	return &b
}

func getWriters(s *SubLoggerConfig) (io.Writer, error) {
	if s == nil {
		return nil, errSubloggerConfigIsNil
	}
	mw, err := MultiWriter()
	if err != nil {
		return nil, err
	}
	outputWriters := strings.Split(s.Output, "|")
	for x := range outputWriters {
		var writer io.Writer
		switch strings.ToLower(outputWriters[x]) {
		case "stdout", "console":
			writer = os.Stdout
		case "stderr":
			writer = os.Stderr
		case "file":
			if globalLogFile == nil {
				return nil, errFileNameUnset
			}
			writer = globalLogFile
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, outputWriters[x])
		}
		err = mw.Add(writer)
		if err != nil {
			return nil, err
		}
	}
	return mw, nil
}

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() Config {
	return Config{
		Enabled: boolPtr(true),
		SubLoggerConfig: SubLoggerConfig{
			Level:  "INFO|WARN|ERROR",
			Output: "console",
		},
		AdvancedSettings: advancedSettings{
			ShowLogSystemName: boolPtr(true),
			Spacer:            spacer,
			TimeStampFormat:   timestampFormat,
			Headers: headers{
				Info:  "[INFO]",
				Warn:  "[WARN]",
				Debug: "[DEBUG]",
				Error: "[ERROR]",
			},
		},
	}
}

// mergeDefaults returns a copy of c with every unset setting taken from
// GenDefaultSettings
func mergeDefaults(c *Config) *Config {
	defaults := GenDefaultSettings()
	merged := *c
	if merged.Enabled == nil {
		merged.Enabled = defaults.Enabled
	}
	if merged.Level == "" {
		merged.Level = defaults.Level
	}
	if merged.Output == "" {
		merged.Output = defaults.Output
	}
	a, def := &merged.AdvancedSettings, defaults.AdvancedSettings
	if a.ShowLogSystemName == nil {
		a.ShowLogSystemName = def.ShowLogSystemName
	}
	if a.Spacer == "" {
		a.Spacer = def.Spacer
	}
	if a.TimeStampFormat == "" {
		a.TimeStampFormat = def.TimeStampFormat
	}
	if a.Headers.Info == "" {
		a.Headers.Info = def.Headers.Info
	}
	if a.Headers.Warn == "" {
		a.Headers.Warn = def.Headers.Warn
	}
	if a.Headers.Debug == "" {
		a.Headers.Debug = def.Headers.Debug
	}
	if a.Headers.Error == "" {
		a.Headers.Error = def.Headers.Error
	}
	return &merged
}

func newLogger(c *Config) Logger {
	return Logger{
		TimestampFormat:   c.AdvancedSettings.TimeStampFormat,
		Spacer:            c.AdvancedSettings.Spacer,
		ErrorHeader:       c.AdvancedSettings.Headers.Error,
		InfoHeader:        c.AdvancedSettings.Headers.Info,
		WarnHeader:        c.AdvancedSettings.Headers.Warn,
		DebugHeader:       c.AdvancedSettings.Headers.Debug,
		ShowLogSystemName: c.AdvancedSettings.ShowLogSystemName != nil && *c.AdvancedSettings.ShowLogSystemName,
	}
}

func configureSubLogger(subLogger, levels string, output io.Writer) error {
	logPtr, found := subLoggers[subLogger]
	if !found {
		return fmt.Errorf("%w: %v", errSubLoggerNotFound, subLogger)
	}
	logPtr.output = output
	logPtr.Levels = splitLevel(levels)
	return nil
}

// SetupGlobalLogger applies the config to every registered sub logger,
// then applies any sub logger specific overrides
func SetupGlobalLogger(c *Config) error {
	if c == nil {
		defaults := GenDefaultSettings()
		c = &defaults
	}
	c = mergeDefaults(c)
	mu.Lock()
	defer mu.Unlock()
	if globalLogFile != nil {
		_ = globalLogFile.Close()
		globalLogFile = nil
	}
	if c.LoggerFileConfig != nil && c.LoggerFileConfig.FileName != "" {
		f, err := os.OpenFile(c.LoggerFileConfig.FileName, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		globalLogFile = f
	}
	globalLogConfig = c
	enabled := c.Enabled == nil || *c.Enabled
	for _, sl := range subLoggers {
		if !enabled {
			sl.Levels = Levels{}
			continue
		}
		output, err := getWriters(&c.SubLoggerConfig)
		if err != nil {
			return err
		}
		sl.output = output
		sl.Levels = splitLevel(c.Level)
	}
	for x := range c.SubLoggers {
		output, err := getWriters(&c.SubLoggers[x])
		if err != nil {
			return err
		}
		err = configureSubLogger(strings.ToUpper(c.SubLoggers[x].Name), c.SubLoggers[x].Level, output)
		if err != nil {
			return err
		}
	}
	logger = newLogger(c)
	return nil
}

// SetOutput redirects every sub logger to the supplied writer, mostly
// useful for capturing logs
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	for _, sl := range subLoggers {
		sl.output = w
	}
}

func splitLevel(level string) (l Levels) {
	enabledLevels := strings.Split(level, "|")
	for x := range enabledLevels {
		switch strings.ToUpper(enabledLevels[x]) {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

func registerNewSubLogger(subLogger string) *SubLogger {
	temp := &SubLogger{
		name:   strings.ToUpper(subLogger),
		output: os.Stdout,
	}
	temp.Levels = splitLevel("INFO|WARN|ERROR")
	subLoggers[temp.name] = temp
	return temp
}

// register all loggers at package init()
func init() {
	Global = registerNewSubLogger("LOG")
	BackTester = registerNewSubLogger("BACKTESTER")
	Portfolio = registerNewSubLogger("PORTFOLIO")
	Exchange = registerNewSubLogger("EXCHANGE")
	Strategy = registerNewSubLogger("STRATEGY")
	Statistics = registerNewSubLogger("STATISTICS")
	Database = registerNewSubLogger("DATABASE")
	ConfigMgr = registerNewSubLogger("CONFIG")
	logger = newLogger(globalLogConfigDefaults())
}

func globalLogConfigDefaults() *Config {
	c := GenDefaultSettings()
	return &c
}
