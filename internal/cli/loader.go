package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/roommates/internal/ir"
)

// LoadMode controls how errors are handled during instance loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// InstanceFile is one decoded instance file.
type InstanceFile struct {
	Path     string
	Instance ir.Instance
}

// LoadResult contains the instances loaded from a file or directory.
type LoadResult struct {
	Files     []InstanceFile
	FileCount int // Number of instance files found
}

// LoadError represents an error that occurred during instance loading.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Directory scan error
	ErrCodeNoFiles      = "E003" // No instance files found
	ErrCodeLoadFailed   = "E004" // File read failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeDecodeFailed = "E008" // JSON/YAML/CUE decode failed
	ErrCodeInvalid      = "E009" // Instance failed validation
	ErrCodeDatabase     = "E010" // Run log error
)

// instanceExts lists the recognised instance file extensions.
var instanceExts = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
	".cue":  true,
}

// LoadInstances loads one instance file, or every instance file under a
// directory (sorted by path).
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
//
// Instances are decoded but not validated.
func LoadInstances(path string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing path: %v", err)}}
	}

	var files []string
	if info.IsDir() {
		files, err = FindInstanceFiles(path)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
		}
		if len(files) == 0 {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no instance files found in %s", path)}}
		}
	} else {
		files = []string{path}
	}

	result := &LoadResult{FileCount: len(files)}
	var errs []error
	for _, file := range files {
		inst, err := LoadInstanceFile(file)
		if err != nil {
			errs = append(errs, err)
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Files = append(result.Files, InstanceFile{Path: file, Instance: inst})
	}

	return result, errs
}

// FindInstanceFiles walks the directory and returns all instance file paths,
// sorted.
func FindInstanceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && instanceExts[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// LoadInstanceFile decodes one instance file by extension.
func LoadInstanceFile(path string) (ir.Instance, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !instanceExts[ext] {
		return ir.Instance{}, &LoadError{
			Code:    ErrCodeGeneric,
			Path:    path,
			Message: fmt.Sprintf("unsupported file type %q (want .json, .yaml, .yml or .cue)", ext),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ir.Instance{}, &LoadError{Code: ErrCodeLoadFailed, Path: path, Message: err.Error()}
	}

	switch ext {
	case ".cue":
		return decodeCUE(path, data)
	case ".yaml", ".yml":
		var inst ir.Instance
		if err := yaml.Unmarshal(data, &inst); err != nil {
			return ir.Instance{}, &LoadError{Code: ErrCodeDecodeFailed, Path: path, Message: err.Error()}
		}
		return inst, nil
	default:
		var inst ir.Instance
		if err := json.Unmarshal(data, &inst); err != nil {
			return ir.Instance{}, &LoadError{Code: ErrCodeDecodeFailed, Path: path, Message: err.Error()}
		}
		return inst, nil
	}
}

// decodeCUE evaluates a CUE file whose top-level fields map each participant
// to its list. Field order is declaration order; definitions and hidden
// fields are ignored.
func decodeCUE(path string, data []byte) (ir.Instance, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return ir.Instance{}, cueLoadError(ErrCodeBuildFailed, path, err)
	}

	iter, err := value.Fields()
	if err != nil {
		return ir.Instance{}, cueLoadError(ErrCodeDecodeFailed, path, err)
	}

	var order []string
	prefs := make(map[string][]string)
	for iter.Next() {
		id := iter.Label()
		var list []string
		if err := iter.Value().Decode(&list); err != nil {
			return ir.Instance{}, cueLoadError(ErrCodeDecodeFailed, path, fmt.Errorf("preferences of %q: %w", id, err))
		}
		order = append(order, id)
		prefs[id] = list
	}

	return ir.NewInstance(order, prefs), nil
}

// cueLoadError converts a CUE error to a LoadError with position info.
func cueLoadError(code, path string, err error) *LoadError {
	loadErr := &LoadError{Code: code, Path: path, Message: err.Error()}
	var cueErr cueerrors.Error
	if errors.As(err, &cueErr) {
		loadErr.Message = cueErr.Error()
		loadErr.Pos = cueErr.Position()
	}
	return loadErr
}
