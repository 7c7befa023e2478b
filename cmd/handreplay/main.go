package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"voyager.com/handrecorder/gamescript"
	"voyager.com/handrecorder/logging"
	"voyager.com/handrecorder/recorder"
	"voyager.com/handrecorder/util"
)

func main() {
	var envFile = flag.String("env", ".env", "loads environment variables from the file when it exists")
	var handScript = flag.String("hand-script", "gamescript/testdata/scripts", "replays hand script files")
	var testName = flag.String("testname", "", "replays a specific script")
	var export = flag.Bool("export", false, "prints the final ledger of every hand as JSON")
	flag.Parse()

	// A missing env file is fine; variables may come from the shell.
	_ = godotenv.Load(*envFile)
	zerolog.SetGlobalLevel(util.Env.GetLogLevel())
	logger := logging.GetZeroLogger("main::handreplay", nil)

	driver := gamescript.NewTestDriver(recorder.ConfigFromEnv(), logger, os.Stdout)
	err := driver.RunHandScriptTests(*handScript, *testName)
	if *export {
		exportHands(driver, logger)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Hand replay failed")
		os.Exit(1)
	}
}

func exportHands(driver *gamescript.TestDriver, logger *zerolog.Logger) {
	for _, scriptFile := range driver.ScriptFiles {
		result := driver.ScriptResult[scriptFile]
		for _, h := range result.Hands {
			if h.Ledger == nil {
				continue
			}
			data, err := h.Ledger.ExportJSON()
			if err != nil {
				logger.Error().Err(err).Str(logging.HandIDKey, h.HandID).Msg("Cannot export hand")
				continue
			}
			fmt.Printf("%s\n%s\n", h.HandID, data)
		}
	}
}
