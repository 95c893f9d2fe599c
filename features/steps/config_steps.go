//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"audio-extractor/cmd"
	"audio-extractor/infrastructure/config"

	"github.com/cucumber/godog"
)

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	output     *bytes.Buffer
	envVars    []string
	err        error
}

// SharedConfigContext is reset before each scenario via Before hook
var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		*testCtx = configContext{
			tempDir:    tempDir,
			configPath: filepath.Join(tempDir, "config.yaml"),
			output:     &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		for _, name := range testCtx.envVars {
			os.Unsetenv(name)
		}
		return c, nil
	})

	ctx.Step(`^a config file containing:$`, testCtx.aConfigFileContaining)
	ctx.Step(`^no config file$`, testCtx.noConfigFile)
	ctx.Step(`^the environment variable "([^"]*)" is "([^"]*)"$`, testCtx.theEnvironmentVariableIs)
	ctx.Step(`^I load the configuration$`, testCtx.iLoadTheConfiguration)
	ctx.Step(`^the config value "([^"]*)" should be "([^"]*)"$`, testCtx.theConfigValueShouldBe)
	ctx.Step(`^the extracted audio directory should end with "([^"]*)"$`, testCtx.theExtractedAudioDirectoryShouldEndWith)
	ctx.Step(`^I set config "([^"]*)" to "([^"]*)"$`, testCtx.iSetConfigTo)
	ctx.Step(`^I show the config$`, testCtx.iShowTheConfig)
	ctx.Step(`^the config command should fail with "([^"]*)"$`, testCtx.theConfigCommandShouldFailWith)
	ctx.Step(`^the config output should contain "([^"]*)"$`, testCtx.theConfigOutputShouldContain)
}

func (c *configContext) aConfigFileContaining(content *godog.DocString) error {
	return os.WriteFile(c.configPath, []byte(content.Content), 0644)
}

func (c *configContext) noConfigFile() error {
	return nil
}

func (c *configContext) theEnvironmentVariableIs(name, value string) error {
	c.envVars = append(c.envVars, name)
	return os.Setenv(name, value)
}

func (c *configContext) iLoadTheConfiguration() error {
	cfg, err := config.LoadOptional(c.configPath)
	if err != nil {
		return fmt.Errorf("unexpected error loading config: %w", err)
	}
	c.cfg = cfg
	return nil
}

func (c *configContext) theConfigValueShouldBe(key, expected string) error {
	if c.cfg == nil {
		return fmt.Errorf("config was not loaded")
	}
	got, err := config.NewConfigManager(c.cfg, c.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s %q, got %q", key, expected, got)
	}
	return nil
}

func (c *configContext) theExtractedAudioDirectoryShouldEndWith(suffix string) error {
	layout, err := c.cfg.Layout()
	if err != nil {
		return err
	}
	if !strings.HasSuffix(filepath.ToSlash(layout.ExtractedDir), suffix) {
		return fmt.Errorf("expected extracted directory ending with %q, got %q", suffix, layout.ExtractedDir)
	}
	return nil
}

func (c *configContext) iSetConfigTo(key, value string) error {
	if c.cfg == nil {
		if err := c.iLoadTheConfiguration(); err != nil {
			return err
		}
	}
	c.err = cmd.RunConfigSetWithDependencies(c.cfg, c.configPath, key, value, c.output)
	return nil
}

func (c *configContext) iShowTheConfig() error {
	if c.cfg == nil {
		if err := c.iLoadTheConfiguration(); err != nil {
			return err
		}
	}
	c.err = cmd.RunConfigShowWithDependencies(c.cfg, c.configPath, c.output)
	return c.err
}

func (c *configContext) theConfigCommandShouldFailWith(text string) error {
	if c.err == nil {
		return fmt.Errorf("expected an error containing %q, got none", text)
	}
	if !strings.Contains(c.err.Error(), text) {
		return fmt.Errorf("expected error containing %q, got %q", text, c.err.Error())
	}
	return nil
}

func (c *configContext) theConfigOutputShouldContain(text string) error {
	if !strings.Contains(c.output.String(), text) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", text, c.output.String())
	}
	return nil
}

// splitList splits a comma separated step argument
func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
