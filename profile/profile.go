// Copyright (C) 2026 Mucgly Authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package profile loads a default delimiter configuration from a YAML file,
// so a deployment can ship its own hook.Config template instead of the
// built-in "-<" / ">-" default.
//
// Uses sigs.k8s.io/yaml, which converts YAML to JSON and unmarshals with
// encoding/json, hence the json struct tags below rather than yaml tags.
package profile

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/SnellerInc/mucgly/hook"
)

// Triple mirrors one multi-hook entry in a profile file.
type Triple struct {
	Begin   string `json:"begin"`
	End     string `json:"end"`
	Suspend string `json:"suspend,omitempty"`
}

// Doc is the on-disk shape of a profile file. Either Multi is set (multi-hook
// mode) or Begin/End are (single mode); setting both is rejected.
type Doc struct {
	Begin  string  `json:"begin,omitempty"`
	End    string  `json:"end,omitempty"`
	Escape string  `json:"escape,omitempty"`
	Eater  string  `json:"eater,omitempty"`
	Multi  []Triple `json:"multi,omitempty"`
}

// Load reads path and builds a hook.Config from it, starting from
// hook.Default() and applying the profile's overrides. A begin given without
// an end sets both delimiters to it, as ":hook <a>" does; an end given
// without a begin is ignored.
func Load(path string) (*hook.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: reading %s: %w", path, err)
	}
	var doc Doc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("profile: parsing %s: %w", path, err)
	}
	if len(doc.Multi) > 0 && (doc.Begin != "" || doc.End != "") {
		return nil, fmt.Errorf("profile: %s sets both multi and begin/end", path)
	}

	cfg := hook.Default()

	if len(doc.Multi) > 0 {
		for i, t := range doc.Multi {
			if err := cfg.AddMulti(t.Begin, t.End, t.Suspend, t.Suspend != ""); err != nil {
				return nil, fmt.Errorf("profile: %s multi[%d]: %w", path, i, err)
			}
		}
	} else if doc.Begin != "" {
		cfg.SetBeginEnd(doc.Begin, doc.End, doc.End != "")
	}

	if doc.Escape != "" {
		cfg.Set(hook.Escape, doc.Escape)
	}
	if doc.Eater != "" {
		cfg.SetEater(doc.Eater, true)
	}

	return cfg, nil
}
