// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package affiliation

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeywords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Keywords
	}{
		{
			name:    "both lists",
			content: "company: [labs, gmbh]\nacademic: [universität]\n",
			want:    Keywords{Company: []string{"labs", "gmbh"}, Academic: []string{"universität"}},
		},
		{
			name:    "missing academic falls back",
			content: "company: [labs]\n",
			want:    Keywords{Company: []string{"labs"}, Academic: DefaultAcademicKeywords},
		},
		{
			name:    "explicit empty list kept",
			content: "company: []\n",
			want:    Keywords{Company: []string{}, Academic: DefaultAcademicKeywords},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "keywords.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := LoadKeywords(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadKeywordsErrors(t *testing.T) {
	_, err := LoadKeywords(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading keywords file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("company: {not: [a list"), 0o644))
	_, err = LoadKeywords(path)
	assert.ErrorContains(t, err, "parsing keywords file")
}

func TestWriteKeywordsRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteKeywords(&buf, Default().Keywords()))

	path := filepath.Join(t.TempDir(), "keywords.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := LoadKeywords(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultCompanyKeywords, got.Company)
	assert.Equal(t, DefaultAcademicKeywords, got.Academic)
}
