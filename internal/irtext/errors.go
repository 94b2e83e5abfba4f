package irtext

import (
	"fmt"

	"llnode/internal/diag"
)

// LoadError describes why a module text could not be loaded. Where is a
// path into the document such as "functions[main].blocks[entry].instrs[2]".
type LoadError struct {
	Path  string
	Where string
	Code  diag.Code
	Msg   string
	Err   error
}

func (e *LoadError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	switch {
	case e.Where != "":
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Where, msg)
	default:
		return fmt.Sprintf("%s: %s", e.Path, msg)
	}
}

func (e *LoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Diagnostic converts e for reporting through a diag.Reporter.
func (e *LoadError) Diagnostic(module string) diag.Diagnostic {
	return diag.NewError(e.Code, diag.Location{Module: module}, e.Error())
}

func (l *loader) errorf(code diag.Code, where, format string, args ...any) *LoadError {
	return &LoadError{Path: l.path, Where: where, Code: code, Msg: fmt.Sprintf(format, args...)}
}

func (l *loader) wrap(code diag.Code, where string, err error) *LoadError {
	return &LoadError{Path: l.path, Where: where, Code: code, Err: err}
}
