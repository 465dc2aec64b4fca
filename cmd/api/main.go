package main

import (
	"indexcap/cmd"
	"indexcap/internal/logger"
	"log"
	"os"
)

func main() {
	logger.Info("starting api, commit %s", os.Getenv("commit_hash"))
	apiHandler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	err = apiHandler.StartApi(3009)
	if err != nil {
		log.Fatal(err)
	}
}
