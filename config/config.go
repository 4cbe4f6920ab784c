package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable overrides, e.g.
// CAPTIONS_DATA_IMAGEFOLDER overrides data.imageFolder.
const EnvPrefix = "CAPTIONS"

// Config stores the configuration of the captions command.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Data   DataConfig   `mapstructure:"data"`
	Output OutputConfig `mapstructure:"output"`
}

// DataConfig locates the inputs of a caption dataset.
type DataConfig struct {
	ImageFolder  string `mapstructure:"imageFolder"`
	SplitFile    string `mapstructure:"splitFile"`
	SplitDir     string `mapstructure:"splitDir"`
	Split        string `mapstructure:"split"`
	CaptionsFile string `mapstructure:"captionsFile"`
	VocabFile    string `mapstructure:"vocabFile"`

	// Mode selects the transforms: "train" or anything else for eval.
	Mode string `mapstructure:"mode"`
}

// OutputConfig controls what the command reports.
type OutputConfig struct {
	PlotDir string `mapstructure:"plotDir"`
	Preview int    `mapstructure:"preview"`
	Verify  bool   `mapstructure:"verify"`
	Workers int    `mapstructure:"workers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.imageFolder", "images")
	v.SetDefault("data.splitFile", "")
	v.SetDefault("data.splitDir", "splits")
	v.SetDefault("data.split", "train")
	v.SetDefault("data.captionsFile", "captions.json")
	v.SetDefault("data.vocabFile", "vocab.json")
	v.SetDefault("data.mode", "train")
	v.SetDefault("output.plotDir", "")
	v.SetDefault("output.preview", 5)
	v.SetDefault("output.verify", false)
	v.SetDefault("output.workers", 0)
}

// LoadConfig reads configuration from configPath (YAML, JSON or TOML, by
// extension) and from environment variables. An empty configPath looks for
// "captions.yaml" in the working directory; a missing file there is not an
// error and defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("captions")
		v.SetConfigType("yaml")
	}
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	return &cfg, nil
}
