package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eventdriven/gobacktester/backtester/common"
	"github.com/eventdriven/gobacktester/backtester/config"
	"github.com/eventdriven/gobacktester/backtester/engine"
	"github.com/eventdriven/gobacktester/backtester/eventhandlers/strategies"
	"github.com/eventdriven/gobacktester/backtester/report"
	"github.com/eventdriven/gobacktester/database"
	"github.com/eventdriven/gobacktester/database/repository/results"
	"github.com/eventdriven/gobacktester/log"
	"github.com/urfave/cli/v2"
)

var (
	configPath   string
	csvPath      string
	databasePath string
	storeResults bool
	printJSON    bool
	verbose      bool
	reportPath   string
	envFile      string
)

const debugLevels = "INFO|DEBUG|WARN|ERROR"

var errNoDataSource = errors.New("no csv data configured, set data-settings csv-path or --csv")

func main() {
	app := cli.NewApp()
	app.Name = "backtester"
	app.Version = common.Version
	app.EnableBashCompletion = true
	app.Usage = "event driven backtesting of trading strategies against historical ticks"
	app.Commands = []*cli.Command{
		runCommand,
		listRunsCommand,
		listStrategiesCommand,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var runCommand = &cli.Command{
	Name:   "run",
	Usage:  "executes a backtest from a config file",
	Action: runBacktest,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Value:       filepath.Join("backtester", "config", "examples", "sma-aapl.json"),
			Usage:       "the config file to load",
			Destination: &configPath,
		},
		&cli.StringFlag{
			Name:        "env-file",
			Usage:       "loads BACKTESTER_ prefixed overrides from a dotenv file",
			Destination: &envFile,
		},
		&cli.StringFlag{
			Name:        "csv",
			Usage:       "overrides the config's csv data path",
			Destination: &csvPath,
		},
		&cli.BoolFlag{
			Name:        "store",
			Usage:       "stores the results in the configured database",
			Destination: &storeResults,
		},
		&cli.StringFlag{
			Name:        "dbpath",
			Usage:       "overrides the config's database path",
			Destination: &databasePath,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "prints the full results as json",
			Destination: &printJSON,
		},
		&cli.StringFlag{
			Name:        "report",
			Usage:       "writes an html report of the run to this directory",
			Destination: &reportPath,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "enables debug logging of every event",
			Destination: &verbose,
		},
	},
}

var listRunsCommand = &cli.Command{
	Name:   "runs",
	Usage:  "lists results stored in the database",
	Action: listRuns,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:        "dbpath",
			Value:       config.DefaultDatabasePath,
			Usage:       "the database to read",
			Destination: &databasePath,
		},
	},
}

var listStrategiesCommand = &cli.Command{
	Name:   "strategies",
	Usage:  "lists the builtin strategies",
	Action: listStrategies,
}

func runBacktest(c *cli.Context) error {
	if envFile != "" {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
	}
	cfg, err := config.ReadConfigFromFile(configPath)
	if err != nil {
		return err
	}
	if csvPath != "" {
		cfg.DataSettings.CSVPath = csvPath
	}
	if databasePath != "" {
		cfg.DatabaseSettings.Path = databasePath
	}
	if storeResults {
		cfg.DatabaseSettings.Enabled = true
	}
	if err = setupLogger(cfg); err != nil {
		return err
	}
	if cfg.DataSettings.CSVPath == "" {
		return errNoDataSource
	}
	cfg.PrintSetting()

	bt, err := engine.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	if err = bt.Run(); err != nil {
		return err
	}
	stats := bt.Statistic()
	stats.PrintResult()

	if printJSON {
		var out string
		if out, err = stats.Serialise(); err != nil {
			return err
		}
		fmt.Println(out)
	}

	if reportPath != "" {
		r := report.Data{
			Statistic:  stats,
			Positions:  bt.Portfolio().GetPositions(),
			OutputPath: reportPath,
		}
		if _, err = r.GenerateReport(); err != nil {
			return err
		}
	}

	if !cfg.DatabaseSettings.Enabled {
		return nil
	}
	db, err := database.Connect(c.Context, cfg.DatabaseSettings.Path)
	if err != nil {
		return err
	}
	defer closeDatabase(db)
	id, err := results.Insert(c.Context, db, stats)
	if err != nil {
		return err
	}
	log.Infof(log.Database, "results stored as run %v in %v", id, cfg.DatabaseSettings.Path)
	return nil
}

func setupLogger(cfg *config.Config) error {
	logCfg := log.GenDefaultSettings()
	if cfg.LogSettings != nil {
		logCfg = *cfg.LogSettings
	}
	if verbose {
		logCfg.Level = debugLevels
	}
	return log.SetupGlobalLogger(&logCfg)
}

func listRuns(c *cli.Context) error {
	db, err := database.Connect(c.Context, databasePath)
	if err != nil {
		return err
	}
	defer closeDatabase(db)
	runs, err := results.ListRuns(c.Context, db)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs stored")
		return nil
	}
	for i := range runs {
		fmt.Printf("%v %v %v strategies=%v final=%v return=%v%% drawdown=%v%% fills=%v\n",
			runs[i].InsertedAt.Format("2006-01-02 15:04:05"),
			runs[i].ID,
			runs[i].Nickname,
			runs[i].Strategies,
			runs[i].FinalValue.StringFixed(2),
			runs[i].ReturnPercent.StringFixed(4),
			runs[i].MaxDrawdownPercent.StringFixed(4),
			runs[i].FillEvents)
	}
	return nil
}

func listStrategies(_ *cli.Context) error {
	for _, s := range strategies.GetStrategies() {
		desc := ""
		if d, ok := s.(strategies.Describer); ok {
			desc = d.Description()
		}
		fmt.Printf("%v: %v\n", s.Name(), desc)
	}
	return nil
}

func closeDatabase(db *database.Instance) {
	if err := db.CloseConnection(); err != nil {
		log.Errorln(log.Database, err)
	}
}
