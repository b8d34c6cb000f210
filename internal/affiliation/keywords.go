// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package affiliation

import (
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// LoadKeywords reads a YAML keyword file of the form
//
//	company: [inc, ltd, ...]
//	academic: [university, ...]
//
// A list that is missing from the file falls back to its default. An empty
// list (`company: []`) is honoured as empty.
func LoadKeywords(path string) (Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("reading keywords file: %w", err)
	}

	var raw struct {
		Company  *[]string `yaml:"company"`
		Academic *[]string `yaml:"academic"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Keywords{}, fmt.Errorf("parsing keywords file %s: %w", path, err)
	}

	kw := Keywords{Company: DefaultCompanyKeywords, Academic: DefaultAcademicKeywords}
	if raw.Company != nil {
		kw.Company = *raw.Company
	}
	if raw.Academic != nil {
		kw.Academic = *raw.Academic
	}
	return kw, nil
}

// WriteKeywords writes kw to w as YAML in the format LoadKeywords reads.
func WriteKeywords(w io.Writer, kw Keywords) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(kw)
}
