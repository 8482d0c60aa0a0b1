package tuning

import (
	"context"
	"fmt"
	"strings"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
)

// Config describes the Vertex AI fine-tuning target.
type Config struct {
	Project            string
	Location           string
	BaseModel          string
	ServiceAccount     string
	ServiceAccountJSON string
}

// Job summarizes a submitted or fetched tuning job.
type Job struct {
	Name       string
	State      string
	BaseModel  string
	TunedModel string
}

// Client manages supervised tuning jobs on Vertex AI.
type Client struct {
	cfg Config
}

// NewClient validates the configuration and returns a tuning client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Project) == "" || strings.TrimSpace(cfg.Location) == "" {
		return nil, fmt.Errorf("tuning: missing project or location")
	}
	if strings.TrimSpace(cfg.BaseModel) == "" {
		cfg.BaseModel = "gemini-2.5-flash"
	}
	return &Client{cfg: cfg}, nil
}

// CreateJob submits a supervised tuning job over a JSONL dataset stored in
// Cloud Storage (gs:// URI).
func (c *Client) CreateJob(ctx context.Context, datasetURI, displayName string) (Job, error) {
	if !strings.HasPrefix(datasetURI, "gs://") {
		return Job{}, fmt.Errorf("tuning: dataset URI must be a gs:// path, got %q", datasetURI)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = "viral-script-tuning"
	}

	client, err := c.newGenAiClient(ctx)
	if err != nil {
		return Job{}, err
	}
	defer client.Close()

	parent := fmt.Sprintf("projects/%s/locations/%s", c.cfg.Project, c.cfg.Location)
	job, err := client.CreateTuningJob(ctx, &aiplatformpb.CreateTuningJobRequest{
		Parent: parent,
		TuningJob: &aiplatformpb.TuningJob{
			TunedModelDisplayName: displayName,
			SourceModel: &aiplatformpb.TuningJob_BaseModel{
				BaseModel: c.cfg.BaseModel,
			},
			TuningSpec: &aiplatformpb.TuningJob_SupervisedTuningSpec{
				SupervisedTuningSpec: &aiplatformpb.SupervisedTuningSpec{
					TrainingDatasetUri: datasetURI,
				},
			},
		},
	})
	if err != nil {
		return Job{}, fmt.Errorf("tuning: create job: %w", err)
	}

	return toJob(job), nil
}

// GetJob fetches the current state of a tuning job by resource name.
func (c *Client) GetJob(ctx context.Context, name string) (Job, error) {
	client, err := c.newGenAiClient(ctx)
	if err != nil {
		return Job{}, err
	}
	defer client.Close()

	job, err := client.GetTuningJob(ctx, &aiplatformpb.GetTuningJobRequest{Name: name})
	if err != nil {
		return Job{}, fmt.Errorf("tuning: get job %s: %w", name, err)
	}

	return toJob(job), nil
}

func (c *Client) newGenAiClient(ctx context.Context) (*aiplatform.GenAiTuningClient, error) {
	options := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", c.cfg.Location)),
	}
	if c.cfg.ServiceAccountJSON != "" {
		options = append(options, option.WithCredentialsJSON([]byte(c.cfg.ServiceAccountJSON)))
	} else if c.cfg.ServiceAccount != "" {
		options = append(options, option.WithCredentialsFile(c.cfg.ServiceAccount))
	}

	client, err := aiplatform.NewGenAiTuningClient(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("tuning: genai tuning client: %w", err)
	}
	return client, nil
}

func toJob(job *aiplatformpb.TuningJob) Job {
	summary := Job{
		Name:      job.GetName(),
		State:     job.GetState().String(),
		BaseModel: job.GetBaseModel(),
	}
	if tuned := job.GetTunedModel(); tuned != nil {
		summary.TunedModel = tuned.GetModel()
	}
	return summary
}
