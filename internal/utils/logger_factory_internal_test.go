package utils

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testSinkSchemeConstant        = "ghpublishtest"
	testSinkURLTemplateConstant   = "ghpublishtest://%s"
	testInfoMessageConstant       = "pushed branch"
	testErrorMessageConstant      = "unable to push"
	testCallerFileConstant        = "logger_factory_internal_test.go"
	testStacktraceKeyConstant     = "stacktrace"
	testRepeatedMessageCount      = 150
	testInvalidLogSettingConstant = "verbose"
)

var testConsoleTimestampPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}`)

type bufferSink struct {
	mutex  sync.Mutex
	buffer bytes.Buffer
}

func (sink *bufferSink) Write(data []byte) (int, error) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	return sink.buffer.Write(data)
}

func (sink *bufferSink) Sync() error {
	return nil
}

func (sink *bufferSink) Close() error {
	return nil
}

func (sink *bufferSink) lines() []string {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	return strings.Split(strings.TrimRight(sink.buffer.String(), "\n"), "\n")
}

var (
	testSinkRegistration sync.Once
	testSinksMutex       sync.Mutex
	testSinks = map[string]*bufferSink{}
)

func newCapturingFactory(testInstance *testing.T) (*LoggerFactory, *bufferSink) {
	testInstance.Helper()
	testSinkRegistration.Do(func() {
		registrationError := zap.RegisterSink(testSinkSchemeConstant, func(sinkURL *url.URL) (zap.Sink, error) {
			testSinksMutex.Lock()
			defer testSinksMutex.Unlock()
			return testSinks[sinkURL.Host], nil
		})
		require.NoError(testInstance, registrationError)
	})

	sinkName := strings.ToLower(regexp.MustCompile(`[^A-Za-z0-9]+`).ReplaceAllString(testInstance.Name(), "-"))
	sink := &bufferSink{}
	testSinksMutex.Lock()
	testSinks[sinkName] = sink
	testSinksMutex.Unlock()

	return &LoggerFactory{outputPaths: []string{fmt.Sprintf(testSinkURLTemplateConstant, sinkName)}}, sink
}

func TestCreateLoggerConsoleOutput(testInstance *testing.T) {
	loggerFactory, sink := newCapturingFactory(testInstance)
	logger, creationError := loggerFactory.CreateLogger(LogLevelInfo, LogFormatConsole)
	require.NoError(testInstance, creationError)

	logger.Info(testInfoMessageConstant, zap.String("remote", "origin"))
	logger.Error(testErrorMessageConstant)
	require.NoError(testInstance, logger.Sync())

	outputLines := sink.lines()
	require.Len(testInstance, outputLines, 2)

	infoColumns := strings.Split(outputLines[0], "\t")
	require.GreaterOrEqual(testInstance, len(infoColumns), 3)
	require.Regexp(testInstance, testConsoleTimestampPattern, infoColumns[0])
	require.Equal(testInstance, "INFO", infoColumns[1])
	require.Equal(testInstance, testInfoMessageConstant, infoColumns[2])
	require.False(testInstance, json.Valid([]byte(outputLines[0])))

	require.Contains(testInstance, outputLines[1], "\tERROR\t"+testErrorMessageConstant)
	for _, outputLine := range outputLines {
		require.NotContains(testInstance, outputLine, testCallerFileConstant)
	}
}

func TestCreateLoggerStructuredOutput(testInstance *testing.T) {
	loggerFactory, sink := newCapturingFactory(testInstance)
	logger, creationError := loggerFactory.CreateLogger(LogLevelDebug, LogFormatStructured)
	require.NoError(testInstance, creationError)

	logger.Debug(testInfoMessageConstant)
	logger.Error(testErrorMessageConstant)
	require.NoError(testInstance, logger.Sync())

	outputLines := sink.lines()
	require.Len(testInstance, outputLines, 2)

	var debugEntry map[string]any
	require.NoError(testInstance, json.Unmarshal([]byte(outputLines[0]), &debugEntry))
	require.Equal(testInstance, "debug", debugEntry["level"])
	require.Equal(testInstance, testInfoMessageConstant, debugEntry["msg"])
	require.IsType(testInstance, float64(0), debugEntry["ts"])
	require.Contains(testInstance, debugEntry["caller"], testCallerFileConstant)
	require.NotContains(testInstance, debugEntry, testStacktraceKeyConstant)

	var errorEntry map[string]any
	require.NoError(testInstance, json.Unmarshal([]byte(outputLines[1]), &errorEntry))
	require.Equal(testInstance, "error", errorEntry["level"])
	require.Contains(testInstance, errorEntry, testStacktraceKeyConstant)
}

func TestCreateLoggerKeepsRepeatedEntries(testInstance *testing.T) {
	testCases := []struct {
		name      string
		logFormat LogFormat
	}{
		{name: "structured", logFormat: LogFormatStructured},
		{name: "console", logFormat: LogFormatConsole},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			loggerFactory, sink := newCapturingFactory(subTest)
			logger, creationError := loggerFactory.CreateLogger(LogLevelInfo, testCase.logFormat)
			require.NoError(subTest, creationError)

			for iteration := 0; iteration < testRepeatedMessageCount; iteration++ {
				logger.Info(testInfoMessageConstant)
			}
			require.NoError(subTest, logger.Sync())
			require.Len(subTest, sink.lines(), testRepeatedMessageCount)
		})
	}
}

func TestCreateLoggerHonorsLevel(testInstance *testing.T) {
	loggerFactory, sink := newCapturingFactory(testInstance)
	logger, creationError := loggerFactory.CreateLogger(LogLevelWarn, LogFormatConsole)
	require.NoError(testInstance, creationError)

	logger.Info(testInfoMessageConstant)
	logger.Warn(testErrorMessageConstant)
	require.NoError(testInstance, logger.Sync())

	outputLines := sink.lines()
	require.Len(testInstance, outputLines, 1)
	require.Contains(testInstance, outputLines[0], "\tWARN\t"+testErrorMessageConstant)
}

func TestCreateLoggerRejectsUnsupportedSettings(testInstance *testing.T) {
	testCases := []struct {
		name            string
		logLevel        LogLevel
		logFormat       LogFormat
		expectedMessage string
	}{
		{
			name:            "log_level",
			logLevel:        LogLevel(testInvalidLogSettingConstant),
			logFormat:       LogFormatStructured,
			expectedMessage: "unsupported log level: verbose",
		},
		{
			name:            "log_format",
			logLevel:        LogLevelInfo,
			logFormat:       LogFormat(testInvalidLogSettingConstant),
			expectedMessage: "unsupported log format: verbose",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			logger, creationError := NewLoggerFactory().CreateLogger(testCase.logLevel, testCase.logFormat)
			require.Nil(subTest, logger)
			require.EqualError(subTest, creationError, testCase.expectedMessage)
		})
	}
}

func TestNormalizeLogSettings(testInstance *testing.T) {
	require.Equal(testInstance, LogLevelWarn, NormalizeLogLevel("  WARN "))
	require.Equal(testInstance, LogFormatStructured, NormalizeLogFormat("Structured"))
}
