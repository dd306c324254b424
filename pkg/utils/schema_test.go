package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

type testFeed struct {
	Depth int  `yaml:"depth"`
	Ticks bool `yaml:"ticks"`
}

type testConfig struct {
	LogLevel string   `yaml:"log_level"`
	Tokens   []string `yaml:"tokens"`
	Feed     testFeed `yaml:"feed"`
	Secret   string   `yaml:"-"`
}

func (suite *UtilsTestSuite) TestGetSchemaFromConfigUsesYAMLNames() {
	schema, err := GetSchemaFromConfig(&testConfig{}, "test-config")
	suite.Require().NoError(err)

	var result map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schema), &result))

	suite.Equal("test-config", result["title"])

	properties, ok := result["properties"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(properties, "log_level")
	suite.Contains(properties, "tokens")
	suite.Contains(properties, "feed")
	suite.NotContains(properties, "Secret")
	suite.NotContains(properties, "LogLevel")
}
