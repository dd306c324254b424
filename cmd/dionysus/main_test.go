package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/dionysus/internal/backtest"
	"github.com/rxtech-lab/dionysus/internal/counselor"
	"github.com/rxtech-lab/dionysus/internal/oracle"
	"github.com/rxtech-lab/dionysus/internal/strategy"
	"github.com/rxtech-lab/dionysus/internal/types"
	"github.com/stretchr/testify/suite"
)

type CLITestSuite struct {
	suite.Suite
	tempDir string
	output  *bytes.Buffer
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLITestSuite))
}

func (suite *CLITestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
	suite.output = &bytes.Buffer{}
}

func (suite *CLITestSuite) run(args ...string) error {
	app := newApp()
	app.Writer = suite.output
	app.ErrWriter = io.Discard

	argv := append([]string{"dionysus", "--log-level", "error", "--env-file", filepath.Join(suite.tempDir, "missing.env")}, args...)

	return app.Run(context.Background(), argv)
}

func (suite *CLITestSuite) TestSchemaToStdout() {
	suite.Require().NoError(suite.run("schema"))
	suite.Contains(suite.output.String(), `"counselors"`)
}

func (suite *CLITestSuite) TestSchemaToFile() {
	path := filepath.Join(suite.tempDir, "schema", "records.json")

	suite.Require().NoError(suite.run("schema", "--output", path))

	content, err := os.ReadFile(path)
	suite.Require().NoError(err)
	suite.Contains(string(content), `"oracle"`)
}

func (suite *CLITestSuite) TestCounselor() {
	suite.Require().NoError(suite.run("counselor", "MACD-CROSSOVER", "12", "26", "9"))

	out := suite.output.String()
	suite.Contains(out, "macd-crossover(12, 26, 9)")
	suite.Contains(out, "MACD 12 26 9")
}

func (suite *CLITestSuite) TestCounselorRejectsUnknownKeyword() {
	suite.Error(suite.run("counselor", "MOON", "1"))
}

func (suite *CLITestSuite) TestBacktestBrownian() {
	reportPath := filepath.Join(suite.tempDir, "report.yaml")

	err := suite.run("backtest",
		"--token", "BTC/USDT",
		"--resolution", "1h",
		"--count", "120",
		"--seed", "7",
		"--counselor", "MEAN-REVERSION 20",
		"--quiet",
		"--output", reportPath,
	)
	suite.Require().NoError(err)
	suite.Contains(suite.output.String(), "BTC/USDT")
	suite.Contains(suite.output.String(), "Delphi 1h")

	report, err := backtest.ReadReport(reportPath)
	suite.Require().NoError(err)
	suite.Equal("BTC/USDT", report.Token)
	suite.Equal("1h", report.Resolution)
	suite.Equal(120, report.Samples)
	suite.True(report.StartingCapital.Equal(report.StartingCapital.Round(2)))
}

func (suite *CLITestSuite) backtestMark(seed string) string {
	reportPath := filepath.Join(suite.tempDir, "seed-"+seed+".yaml")

	suite.Require().NoError(suite.run("backtest",
		"--token", "BTC/USDT",
		"--resolution", "1h",
		"--count", "60",
		"--seed", seed,
		"--quiet",
		"--output", reportPath,
	))

	report, err := backtest.ReadReport(reportPath)
	suite.Require().NoError(err)

	return report.MarkPrice.String()
}

func (suite *CLITestSuite) TestBacktestSeedIsReproducible() {
	first := suite.backtestMark("7")
	suite.Equal(first, suite.backtestMark("7"))
	suite.NotEqual(first, suite.backtestMark("8"))
}

func (suite *CLITestSuite) TestBacktestUsesRecord() {
	recordsPath := filepath.Join(suite.tempDir, "records.yaml")
	token := types.NewPair("ETH", "USDT")
	s := strategy.New(oracle.Delphi, types.NewTimeWindow(types.Hour(), 50), counselor.MeanReversion(10))
	suite.Require().NoError(strategy.SaveRecords(recordsPath, []strategy.Record{strategy.NewRecord(token, s)}))

	err := suite.run("backtest", "--token", "ETH/USDT", "--records", recordsPath, "--count", "60", "--quiet")
	suite.Require().NoError(err)
	suite.Contains(suite.output.String(), "ETH/USDT")
	suite.Contains(suite.output.String(), "Delphi 1h")
}

func (suite *CLITestSuite) TestBacktestMissingRecord() {
	recordsPath := filepath.Join(suite.tempDir, "records.yaml")
	s := strategy.New(oracle.Delphi, types.NewTimeWindow(types.Hour(), 50), counselor.MeanReversion(10))
	suite.Require().NoError(strategy.SaveRecords(recordsPath, []strategy.Record{strategy.NewRecord(types.NewPair("ETH", "USDT"), s)}))

	err := suite.run("backtest", "--token", "BTC/USDT", "--records", recordsPath, "--quiet")
	suite.Error(err)
	suite.Contains(err.Error(), "no record for BTC/USDT")
}

func (suite *CLITestSuite) TestBacktestUnknownSource() {
	err := suite.run("backtest", "--source", "ftp", "--quiet")
	suite.Error(err)
	suite.Contains(err.Error(), "unknown source")
}

func (suite *CLITestSuite) TestBacktestEmptyStore() {
	err := suite.run("backtest", "--source", "store", "--store", filepath.Join(suite.tempDir, "samples.duckdb"), "--quiet")
	suite.Error(err)
}

func (suite *CLITestSuite) TestFetchRejectsBrownian() {
	err := suite.run("fetch", "--token", "BTC/USDT", "--store", filepath.Join(suite.tempDir, "samples.duckdb"), "--source", "brownian")
	suite.Error(err)
}

func (suite *CLITestSuite) TestConfigSchema() {
	suite.Require().NoError(suite.run("schema", "--kind", "config"))
	suite.Contains(suite.output.String(), `"touch_interval"`)
	suite.Contains(suite.output.String(), `"dionysus-config"`)
}
