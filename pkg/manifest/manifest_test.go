package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revset/checkout/pkg/errors"
	"github.com/revset/checkout/pkg/filesystem"
	"github.com/revset/checkout/pkg/manifest"
	"github.com/revset/checkout/pkg/types"
)

const sampleManifest = `
entries:
  - path: stale/old.txt
    change: remove
    old: {content: aaa111, type: regular}
  - path: bin/tool
    change: add
    new: {content: bbb222, type: executable}
  - path: docs/readme.md
    change: modify
    old: {content: ccc333, type: regular}
    new: {content: ddd444, type: regular}
  - path: scripts/run
    change: modify
    old: {content: eee555, type: regular}
    new: {content: eee555, type: executable}
`

func TestParse(t *testing.T) {
	entries, err := manifest.Parse([]byte(sampleManifest))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, types.LeftOnly("stale/old.txt", types.FileMetadata{
		ContentID: "aaa111", FileType: types.FileTypeRegular,
	}), entries[0])

	assert.Equal(t, types.RightOnly("bin/tool", types.FileMetadata{
		ContentID: "bbb222", FileType: types.FileTypeExecutable,
	}), entries[1])

	assert.Equal(t, types.Changed("docs/readme.md",
		types.FileMetadata{ContentID: "ccc333", FileType: types.FileTypeRegular},
		types.FileMetadata{ContentID: "ddd444", FileType: types.FileTypeRegular},
	), entries[2])

	assert.Equal(t, types.Changed("scripts/run",
		types.FileMetadata{ContentID: "eee555", FileType: types.FileTypeRegular},
		types.FileMetadata{ContentID: "eee555", FileType: types.FileTypeExecutable},
	), entries[3])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown change kind",
			doc: `
entries:
  - path: a.txt
    change: teleport
`,
		},
		{
			name: "missing path",
			doc: `
entries:
  - change: remove
    old: {content: aaa, type: regular}
`,
		},
		{
			name: "add without new metadata",
			doc: `
entries:
  - path: a.txt
    change: add
`,
		},
		{
			name: "modify without old metadata",
			doc: `
entries:
  - path: a.txt
    change: modify
    new: {content: bbb, type: regular}
`,
		},
		{
			name: "invalid file type",
			doc: `
entries:
  - path: a.txt
    change: add
    new: {content: bbb, type: pipe}
`,
		},
		{
			name: "not yaml",
			doc:  "entries: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
		})
	}
}

func TestLoad(t *testing.T) {
	fs := filesystem.NewMemory()
	require.NoError(t, fs.WriteFile("/diff.yaml", []byte(sampleManifest), 0644))

	entries, err := manifest.Load("/diff.yaml", fs)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := manifest.Load("/nope.yaml", filesystem.NewMemory())
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestRead))
}

func TestParseDefaultsToRegular(t *testing.T) {
	entries, err := manifest.Parse([]byte(`
entries:
  - path: a.txt
    change: add
    new: {content: abc}
`))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, types.FileTypeRegular, entries[0].Right.FileType)
}
