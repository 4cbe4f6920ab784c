package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// ConfigTestSuite runs every test from an empty temporary working directory.
type ConfigTestSuite struct {
	suite.Suite
	tempDir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) SetupTest() {
	s.tempDir = s.T().TempDir()
	s.T().Chdir(s.tempDir)
}

func (s *ConfigTestSuite) TestDefaults() {
	cfg, err := LoadConfig("")
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "images", cfg.Data.ImageFolder)
	assert.Equal(s.T(), "splits", cfg.Data.SplitDir)
	assert.Equal(s.T(), "train", cfg.Data.Split)
	assert.Equal(s.T(), "captions.json", cfg.Data.CaptionsFile)
	assert.Equal(s.T(), "vocab.json", cfg.Data.VocabFile)
	assert.Equal(s.T(), "train", cfg.Data.Mode)
	assert.Empty(s.T(), cfg.Data.SplitFile)
	assert.Equal(s.T(), 5, cfg.Output.Preview)
	assert.False(s.T(), cfg.Output.Verify)
}

func (s *ConfigTestSuite) TestFileInWorkingDirectory() {
	content := `
data:
  imageFolder: /data/flickr8k/images
  splitFile: /data/flickr8k/val.txt
  mode: eval
output:
  verify: true
  workers: 4
`
	require.NoError(s.T(), os.WriteFile(filepath.Join(s.tempDir, "captions.yaml"), []byte(content), 0o644))

	cfg, err := LoadConfig("")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "/data/flickr8k/images", cfg.Data.ImageFolder)
	assert.Equal(s.T(), "/data/flickr8k/val.txt", cfg.Data.SplitFile)
	assert.Equal(s.T(), "eval", cfg.Data.Mode)
	assert.True(s.T(), cfg.Output.Verify)
	assert.Equal(s.T(), 4, cfg.Output.Workers)
	// Untouched keys keep their defaults.
	assert.Equal(s.T(), "vocab.json", cfg.Data.VocabFile)
}

func (s *ConfigTestSuite) TestExplicitJSONFile() {
	path := filepath.Join(s.tempDir, "other.json")
	require.NoError(s.T(), os.WriteFile(path, []byte(`{"data": {"vocabFile": "v.json"}, "output": {"preview": 0}}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "v.json", cfg.Data.VocabFile)
	assert.Equal(s.T(), 0, cfg.Output.Preview)
}

func (s *ConfigTestSuite) TestMissingExplicitFile() {
	_, err := LoadConfig(filepath.Join(s.tempDir, "missing.yaml"))
	assert.Error(s.T(), err)
}

func (s *ConfigTestSuite) TestEnvironmentOverrides() {
	s.T().Setenv("CAPTIONS_DATA_IMAGEFOLDER", "/mnt/images")
	s.T().Setenv("CAPTIONS_OUTPUT_VERIFY", "true")

	cfg, err := LoadConfig("")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "/mnt/images", cfg.Data.ImageFolder)
	assert.True(s.T(), cfg.Output.Verify)
}
