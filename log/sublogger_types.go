package log

import "io"

// Global vars related to the logger package
var (
	subLoggers = map[string]*SubLogger{}

	Global     *SubLogger
	BackTester *SubLogger
	Portfolio  *SubLogger
	Exchange   *SubLogger
	Strategy   *SubLogger
	Statistics *SubLogger
	Database   *SubLogger
	ConfigMgr  *SubLogger
)

// SubLogger routes log events for one part of the backtester
type SubLogger struct {
	name string
	Levels
	output io.Writer
}

// logFields is used to store data in a non-global manner
// so logs cannot be modified mid-log
type logFields struct {
	info   bool
	warn   bool
	debug  bool
	error  bool
	name   string
	output io.Writer
	logger Logger
}
