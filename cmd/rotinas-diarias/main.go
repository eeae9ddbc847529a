package main

import (
	"fmt"
	"log"

	"cep-tracker-api/config"
	"cep-tracker-api/services"

	"github.com/joho/godotenv"
)

// Intended to run once a day from cron. Individual send failures are logged
// and counted but never change the exit code; a non-zero exit means the
// evaluation itself could not run.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	config.ReloadMailerConfig()
	config.InitDB()

	log.Println("Iniciando rotinas diárias de email...")

	svc := services.NewRotinasService(config.DB)
	summary, err := svc.Run()
	if err != nil {
		log.Fatalf("rotinas diárias falharam: %v", err)
	}

	fmt.Printf("Run %s: %d notificações geradas, %d enviadas, %d falhas\n",
		summary.RunID, summary.Geradas, summary.Enviadas, summary.Falhas)
	log.Println("Rotinas finalizadas.")
}
