package logging

import "go.uber.org/zap"

// New returns a sugared logger named after the component. It builds on the global
// logger so it follows whatever config.New installed.
func New(component string) *zap.SugaredLogger {
	return zap.L().Named(component).Sugar()
}
