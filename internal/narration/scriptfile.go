package narration

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"newscast/internal/fileutil"
)

// ScriptFile is the YAML form of a script plus its measured timing.
type ScriptFile struct {
	Script     `yaml:",inline"`
	GapSeconds *float64 `yaml:"gap_seconds,omitempty"`
}

// WriteScriptFile stores the script with per-line durations from parts when given.
func WriteScriptFile(path string, script Script, parts []Part, gap float64) error {
	out := ScriptFile{Script: Script{Date: script.Date, Lines: append([]Line(nil), script.Lines...)}, GapSeconds: &gap}
	for i := range out.Lines {
		if i < len(parts) {
			out.Lines[i].Duration = parts[i].Duration
		}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode script: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode script: %w", err)
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// ReadScriptFile loads a script written by WriteScriptFile or by hand.
func ReadScriptFile(path string) (ScriptFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScriptFile{}, fmt.Errorf("read script: %w", err)
	}
	var sf ScriptFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		return ScriptFile{}, fmt.Errorf("parse script %s: %w", path, err)
	}
	if len(sf.Lines) == 0 {
		return ScriptFile{}, fmt.Errorf("parse script %s: no segments", path)
	}
	return sf, nil
}
