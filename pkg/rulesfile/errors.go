package rulesfile

import (
	"fmt"
)

// ErrRulesExtension indicates the rules file path has an invalid extension.
type ErrRulesExtension struct {
	Path string
}

func (e *ErrRulesExtension) Error() string {
	return fmt.Sprintf("rules file path must end with .yaml or .yml: %s", e.Path)
}

// WrapRulesExtension creates a new ErrRulesExtension error.
func WrapRulesExtension(path string) error {
	return &ErrRulesExtension{Path: path}
}

// ErrRulesFileNotExist indicates the rules file does not exist.
type ErrRulesFileNotExist struct {
	Path string
	Err  error
}

func (e *ErrRulesFileNotExist) Error() string {
	return fmt.Sprintf("rules file does not exist: %s (%v)", e.Path, e.Err)
}

func (e *ErrRulesFileNotExist) Unwrap() error {
	return e.Err
}

// WrapRulesFileNotExist creates a new ErrRulesFileNotExist error.
func WrapRulesFileNotExist(path string, err error) error {
	return &ErrRulesFileNotExist{Path: path, Err: err}
}

// ErrRulesFileRead indicates an error occurred while reading the rules file.
type ErrRulesFileRead struct {
	Path string
	Err  error
}

func (e *ErrRulesFileRead) Error() string {
	return fmt.Sprintf("failed to read rules file '%s': %v", e.Path, e.Err)
}

func (e *ErrRulesFileRead) Unwrap() error {
	return e.Err
}

// WrapRulesFileRead creates a new ErrRulesFileRead error.
func WrapRulesFileRead(path string, err error) error {
	return &ErrRulesFileRead{Path: path, Err: err}
}

// ErrRulesFileEmpty indicates the rules file holds no rules.
type ErrRulesFileEmpty struct {
	Path string
}

func (e *ErrRulesFileEmpty) Error() string {
	return fmt.Sprintf("rules file is empty: %s", e.Path)
}

// WrapRulesFileEmpty creates a new ErrRulesFileEmpty error.
func WrapRulesFileEmpty(path string) error {
	return &ErrRulesFileEmpty{Path: path}
}

// ErrRulesFileParse indicates the rules file content is not valid YAML for
// the expected structure.
type ErrRulesFileParse struct {
	Path string
	Err  error
}

func (e *ErrRulesFileParse) Error() string {
	return fmt.Sprintf("failed to parse rules file '%s': %v", e.Path, e.Err)
}

func (e *ErrRulesFileParse) Unwrap() error {
	return e.Err
}

// WrapRulesFileParse creates a new ErrRulesFileParse error.
func WrapRulesFileParse(path string, err error) error {
	return &ErrRulesFileParse{Path: path, Err: err}
}

// ErrInvalidRule indicates a single rule failed validation.
type ErrInvalidRule struct {
	Path     string
	Index    int
	Platform string
	Reason   string
	Err      error
}

func (e *ErrInvalidRule) Error() string {
	msg := fmt.Sprintf("invalid rule at index %d", e.Index)
	if e.Platform != "" {
		msg += fmt.Sprintf(" (platform '%s')", e.Platform)
	}
	msg += fmt.Sprintf(" in rules file '%s': %s", e.Path, e.Reason)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ErrInvalidRule) Unwrap() error {
	return e.Err
}

// WrapInvalidRule creates a new ErrInvalidRule error.
func WrapInvalidRule(path string, index int, platform, reason string, err error) error {
	return &ErrInvalidRule{Path: path, Index: index, Platform: platform, Reason: reason, Err: err}
}

// ErrInvalidPlacement indicates an unknown placement value.
type ErrInvalidPlacement struct {
	Path      string
	Placement string
}

func (e *ErrInvalidPlacement) Error() string {
	return fmt.Sprintf("invalid placement '%s' in rules file '%s': must be 'before' or 'after'", e.Placement, e.Path)
}

// WrapInvalidPlacement creates a new ErrInvalidPlacement error.
func WrapInvalidPlacement(path, placement string) error {
	return &ErrInvalidPlacement{Path: path, Placement: placement}
}
