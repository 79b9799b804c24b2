package main

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
)

func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	app.errorLog.Output(2, trace)

	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (app *application) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// stdLogger adapts the INFO/ERROR loggers to services.Logger.
type stdLogger struct {
	info *log.Logger
	err  *log.Logger
}

func (l *stdLogger) Infof(format string, args ...any) {
	l.info.Output(2, fmt.Sprintf(format, args...))
}

func (l *stdLogger) Errorf(format string, args ...any) {
	l.err.Output(2, fmt.Sprintf(format, args...))
}
