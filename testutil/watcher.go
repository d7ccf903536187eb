package testutil

import (
	"runtime"
	"strings"
	"testing"
)

// CallWatcher records calls made against a mock so tests can assert on
// call counts and arguments. Calls are keyed by the short method name
// of the AddCall caller.
type CallWatcher struct {
	functionCalls map[string][][]interface{}
}

func NewCallWatcher() *CallWatcher {
	return &CallWatcher{functionCalls: make(map[string][][]interface{})}
}

func (w *CallWatcher) GetCall(funcName string) [][]interface{} {
	return w.functionCalls[funcName]
}

func (w *CallWatcher) GetCallCount(funcName string) int {
	return len(w.functionCalls[funcName])
}

func (w *CallWatcher) VerifyCount(funcName string, want int, t *testing.T) {
	t.Helper()
	if got := w.GetCallCount(funcName); got != want {
		t.Errorf("%s call count got=%d want=%d", funcName, got, want)
	}
}

func (w *CallWatcher) AddCall(args ...interface{}) {
	pc := make([]uintptr, 15)
	n := runtime.Callers(2, pc)
	frames := runtime.CallersFrames(pc[:n])
	frame, _ := frames.Next()

	funcName := frame.Func.Name()
	if idx := strings.LastIndex(funcName, "."); idx >= 0 {
		funcName = funcName[idx+1:]
	}
	funcName = strings.TrimSuffix(funcName, "-fm")

	calls := w.functionCalls[funcName]
	w.functionCalls[funcName] = append(calls, args)
}
