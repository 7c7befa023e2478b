package gamescript

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/godo.v2/glob"
	"voyager.com/handrecorder/recorder"
)

type ScriptTestResult struct {
	Filename string
	Hands    []*HandResult
	Failures []error
	Disabled bool
}

func (s *ScriptTestResult) addError(e error) {
	s.Failures = append(s.Failures, e)
}

func (s *ScriptTestResult) Passed() bool {
	return len(s.Failures) == 0
}

// TestDriver runs hand scripts, captures the results
// and outputs them at the end.
type TestDriver struct {
	ScriptResult map[string]*ScriptTestResult
	ScriptFiles  []string
	runner       *Runner
	out          io.Writer
}

func NewTestDriver(cfg recorder.Config, logger *zerolog.Logger, out io.Writer) *TestDriver {
	if out == nil {
		out = os.Stdout
	}
	return &TestDriver{
		ScriptResult: make(map[string]*ScriptTestResult),
		ScriptFiles:  make([]string, 0),
		runner:       NewRunner(cfg, logger),
		out:          out,
	}
}

func (t *TestDriver) RunHandScript(filename string) *ScriptTestResult {
	fmt.Fprintf(t.out, "Running hand script: %s\n", filename)
	result := &ScriptTestResult{Filename: filename, Failures: make([]error, 0)}
	t.ScriptResult[filename] = result
	t.ScriptFiles = append(t.ScriptFiles, filename)

	script, err := ReadHandScript(filename)
	if err != nil {
		result.addError(err)
		return result
	}
	if script.Disabled {
		result.Disabled = true
		return result
	}

	hands, err := t.runner.Run(filename, script)
	result.Hands = hands
	for _, h := range hands {
		for _, e := range h.Failures {
			result.addError(e)
		}
	}
	if err != nil {
		result.addError(err)
	}
	return result
}

func (t *TestDriver) ReportResult() bool {
	passed := true
	for _, scriptFile := range t.ScriptFiles {
		result := t.ScriptResult[scriptFile]
		if result.Disabled {
			fmt.Fprintf(t.out, "Script %s is disabled\n", result.Filename)
			continue
		}

		if !result.Passed() {
			passed = false
			// failed and report errors
			fmt.Fprintf(t.out, "Script %s failed\n", scriptFile)
			fmt.Fprintf(t.out, "===========================\n")
			for _, e := range result.Failures {
				fmt.Fprintf(t.out, "%s\n", e.Error())
			}
			fmt.Fprintf(t.out, "===========================\n")
		}
	}
	return passed
}

// ScriptFiles returns the yaml files under fileOrDir, or fileOrDir itself when it is a file.
// When testName is set only files whose name contains it are returned.
func ScriptFiles(fileOrDir string, testName string) ([]string, error) {
	info, err := os.Stat(fileOrDir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s does not exist", fileOrDir)
	} else if err != nil {
		return nil, errors.Wrapf(err, "Cannot stat %s", fileOrDir)
	}
	patterns := []string{fileOrDir}
	if info.IsDir() {
		patterns = []string{
			fmt.Sprintf("%s/*.yaml", fileOrDir),
			fmt.Sprintf("%s/**/*.yaml", fileOrDir),
		}
	}
	files, _, err := glob.Glob(patterns)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to get hand script file(s) from: %s", fileOrDir)
	}

	seen := mapset.NewSet()
	out := make([]string, 0, len(files))
	for _, file := range files {
		if file.IsDir() || seen.Contains(file.Path) {
			continue
		}
		seen.Add(file.Path)
		if testName != "" && !strings.Contains(file.Name(), testName) {
			continue
		}
		out = append(out, file.Path)
	}
	sort.Strings(out)
	return out, nil
}

// RunHandScriptTests runs the scripts found in fileOrDir and reports the results.
func (t *TestDriver) RunHandScriptTests(fileOrDir string, testName string) error {
	files, err := ScriptFiles(fileOrDir, testName)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("No hand scripts found in %s", fileOrDir)
	}
	for _, file := range files {
		fmt.Fprintf(t.out, "----------------------------------------------\n")
		t.RunHandScript(file)
		fmt.Fprintf(t.out, "----------------------------------------------\n")
	}

	if !t.ReportResult() {
		return fmt.Errorf("One or more scripts failed")
	}
	fmt.Fprintf(t.out, "All scripts passed\n")
	return nil
}
