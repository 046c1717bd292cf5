// Package testutil provides helpers for tests that assert on log output.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lucas-albers-lz4/imgembed/pkg/log"
)

// CaptureLogOutput runs testFunc with the logger writing to a buffer at
// logLevel and returns what was written. Output and level are restored
// afterwards. A panic in testFunc is returned as an error.
//
//	output, err := testutil.CaptureLogOutput(log.LevelDebug, func() {
//	    log.Info("This will be captured")
//	})
func CaptureLogOutput(logLevel log.Level, testFunc func()) (string, error) {
	originalLevel := log.CurrentLevel()

	var logBuf bytes.Buffer
	restoreLog := log.SetOutput(&logBuf)
	defer restoreLog()

	log.SetLevel(logLevel)
	defer log.SetLevel(originalLevel)

	panicErr := runRecovered(testFunc)
	return logBuf.String(), panicErr
}

func runRecovered(testFunc func()) (panicErr error) {
	defer func() {
		if r := recover(); r != nil {
			panicErr = fmt.Errorf("panic during log capture: %v", r)
		}
	}()
	testFunc()
	return nil
}

// ContainsLog checks if the log output contains the specified message
func ContainsLog(output, message string) bool {
	return strings.Contains(output, message)
}

// CaptureJSONLogs is CaptureLogOutput with LOG_FORMAT forced to json. It
// returns the raw output and one map per log line.
func CaptureJSONLogs(t *testing.T, logLevel log.Level, testFunc func()) (logOutput string, parsedLogs []map[string]interface{}, err error) {
	t.Helper()
	t.Setenv(log.FormatEnvVar, "json")

	originalLevel := log.CurrentLevel()
	var logBuf bytes.Buffer
	restoreLog := log.SetOutput(&logBuf)
	defer restoreLog()

	log.SetLevel(logLevel)
	defer log.SetLevel(originalLevel)

	panicErr := runRecovered(testFunc)
	logOutput = logBuf.String()
	if panicErr != nil {
		return logOutput, nil, panicErr
	}

	for i, line := range strings.Split(strings.TrimSpace(logOutput), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]interface{}
		if unmarshalErr := json.Unmarshal([]byte(line), &entry); unmarshalErr != nil {
			return logOutput, parsedLogs, fmt.Errorf("failed to unmarshal log line %d as JSON: %w\nLine content: %s", i+1, unmarshalErr, line)
		}
		parsedLogs = append(parsedLogs, entry)
	}
	return logOutput, parsedLogs, nil
}

// AssertLogContainsJSON fails the test unless some entry in logs holds every
// key-value pair of expectedLog.
func AssertLogContainsJSON(t *testing.T, logs []map[string]interface{}, expectedLog map[string]interface{}) {
	t.Helper()
	for _, entry := range logs {
		if containsAll(entry, expectedLog) {
			return
		}
	}
	assert.Fail(t, "Expected log entry not found",
		"Expected log containing:\n%s\n\nActual captured logs:\n%s", prettyJSON(expectedLog), prettyJSON(logs))
}

// AssertLogDoesNotContainJSON fails the test if any entry in logs holds every
// key-value pair of unexpectedLog.
func AssertLogDoesNotContainJSON(t *testing.T, logs []map[string]interface{}, unexpectedLog map[string]interface{}) {
	t.Helper()
	for _, entry := range logs {
		if containsAll(entry, unexpectedLog) {
			assert.Fail(t, "Unexpected log entry found",
				"Found log entry:\n%s\n\nUnexpected log containing:\n%s", prettyJSON(entry), prettyJSON(unexpectedLog))
			return
		}
	}
}

func prettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// containsAll compares top-level keys only. JSON numbers decode as float64,
// so int expectations are converted before comparing.
func containsAll(actual, expected map[string]interface{}) bool {
	for key, expectedValue := range expected {
		actualValue, ok := actual[key]
		if !ok {
			return false
		}
		if f, isFloat := actualValue.(float64); isFloat {
			switch ev := expectedValue.(type) {
			case float64:
				if f != ev {
					return false
				}
			case int:
				if f != float64(ev) {
					return false
				}
			case int64:
				if f != float64(ev) {
					return false
				}
			default:
				return false
			}
			continue
		}
		if actualValue != expectedValue {
			return false
		}
	}
	return true
}
