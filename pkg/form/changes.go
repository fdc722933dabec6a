package form

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	json "github.com/goccy/go-json"
)

// Changes returns an RFC 7386 merge patch describing how the current values
// differ from the values last saved, or the mount values before any save. An
// unchanged form yields "{}".
func (f *Form) Changes() ([]byte, error) {
	f.initialMu.RLock()
	original, err := json.Marshal(f.initial)
	f.initialMu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("form: marshal initial values: %w", err)
	}
	current, err := json.Marshal(f.Values())
	if err != nil {
		return nil, fmt.Errorf("form: marshal current values: %w", err)
	}
	patch, err := jsonpatch.CreateMergePatch(original, current)
	if err != nil {
		return nil, fmt.Errorf("form: create merge patch: %w", err)
	}
	return patch, nil
}

// rebase makes values the baseline for Changes.
func (f *Form) rebase(values map[string]any) {
	f.initialMu.Lock()
	defer f.initialMu.Unlock()
	f.initial = make(map[string]any, len(values))
	for name, value := range values {
		f.initial[name] = value
	}
}
