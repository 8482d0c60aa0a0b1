package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"viralScriptAi/internal/config"
	"viralScriptAi/internal/tuning"
)

func main() {
	var (
		datasetURI  = flag.String("dataset", "", "gs:// URI of the exported JSONL dataset")
		displayName = flag.String("name", "viral-script-tuning", "Display name for the tuned model")
		jobName     = flag.String("status", "", "Fetch the state of an existing tuning job instead of creating one")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load .env: %v", err)
	}
	cfg := config.FromEnv()

	client, err := tuning.NewClient(tuning.Config{
		Project:   cfg.Tuning.Project,
		Location:  cfg.Tuning.Location,
		BaseModel: cfg.Tuning.BaseModel,
	})
	if err != nil {
		log.Fatalf("tuning client: %v", err)
	}

	ctx := context.Background()

	if *jobName != "" {
		job, err := client.GetJob(ctx, *jobName)
		if err != nil {
			log.Fatalf("get job: %v", err)
		}
		log.Printf("job %s: state=%s tuned_model=%s", job.Name, job.State, job.TunedModel)
		return
	}

	if *datasetURI == "" {
		log.Fatal("-dataset is required to create a tuning job")
	}

	job, err := client.CreateJob(ctx, *datasetURI, *displayName)
	if err != nil {
		log.Fatalf("create job: %v", err)
	}
	log.Printf("submitted tuning job %s (base model %s)", job.Name, job.BaseModel)
}
