package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/semver-release/pkg/version"
)

const (
	SourcePullRequest = "pull-request"
	SourceSinceTag    = "since-tag"
)

type Config struct {
	MajorKeyword   string   `yaml:"major_keyword" validate:"required"`
	MinorKeywords  []string `yaml:"minor_keywords" validate:"required,min=1,dive,required"`
	TagPrefix      string   `yaml:"tag_prefix"`
	CommitsFrom    string   `yaml:"commits_from" validate:"oneof=pull-request since-tag"`
	Release        Release  `yaml:"release"`
	TriggerRelease bool     `yaml:"-"`
	Output         string   `yaml:"-" validate:"oneof=text json"`
	Repo           string   `yaml:"-" validate:"required"`
	Token          string   `yaml:"-" validate:"required"`
	APIURL         string   `yaml:"-" validate:"omitempty,url"`
	EventName      string   `yaml:"-"`
	EventPath      string   `yaml:"-"`
	PullNumber     int      `yaml:"-" validate:"gte=0"`
	Branch         string   `yaml:"-"`
	OutputFile     string   `yaml:"-"`
}

type Release struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

func Default() *Config {
	return &Config{
		MajorKeyword:  version.DefaultMajorKeyword,
		MinorKeywords: version.SplitKeywords(version.DefaultMinorKeywords),
		CommitsFrom:   SourcePullRequest,
		Output:        "text",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MergeFlags(cfg *Config, flags *pflag.FlagSet) *Config {
	if v, err := flags.GetString("major-keyword"); err == nil && v != "" {
		cfg.MajorKeyword = v
	}
	if v, err := flags.GetString("minor-keywords"); err == nil && v != "" {
		cfg.MinorKeywords = version.SplitKeywords(v)
	}
	if v, err := flags.GetString("trigger-release"); err == nil {
		cfg.TriggerRelease = strings.EqualFold(strings.TrimSpace(v), "true")
	}
	if v, err := flags.GetString("tag-prefix"); err == nil && v != "" {
		cfg.TagPrefix = v
	}
	if v, err := flags.GetString("commits-from"); err == nil && v != "" {
		cfg.CommitsFrom = v
	}
	if v, err := flags.GetString("output"); err == nil && v != "" {
		cfg.Output = v
	}
	if v, err := flags.GetString("repo"); err == nil && v != "" {
		cfg.Repo = v
	}
	if v, err := flags.GetString("github-token"); err == nil && v != "" {
		cfg.Token = v
	}
	if v, err := flags.GetString("api-url"); err == nil && v != "" {
		cfg.APIURL = v
	}
	if v, err := flags.GetString("event-name"); err == nil && v != "" {
		cfg.EventName = v
	}
	if v, err := flags.GetString("event-path"); err == nil && v != "" {
		cfg.EventPath = v
	}
	if v, err := flags.GetInt("pull-request"); err == nil && v > 0 {
		cfg.PullNumber = v
	}
	if v, err := flags.GetString("branch"); err == nil && v != "" {
		cfg.Branch = v
	}
	if v, err := flags.GetString("github-output"); err == nil && v != "" {
		cfg.OutputFile = v
	}
	return cfg
}

var validate = validator.New()

// Validate checks required settings and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Policy returns the version policy configured by c.
func (c *Config) Policy() version.Policy {
	return version.Policy{
		MajorKeyword:  c.MajorKeyword,
		MinorKeywords: c.MinorKeywords,
	}
}

func describe(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Token":
		return "GitHub token is not provided"
	case "Repo":
		return "repository (owner/repo) is not provided"
	}
	switch fe.Tag() {
	case "required", "min":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Namespace(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Namespace(), fe.Tag())
	}
}
