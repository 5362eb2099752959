package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// JobFile is the optional YAML job description. Every field is optional;
// environment variables and flags override what it sets.
//
//	job:
//	  sources: [bloomberg, fortune]
//	  language: en
//	  from: "2025-04-01"
//	  to: "2025-04-22"
//	  snapshot_path: articles.csv
//	  schedule:
//	    cron: "30 5 * * *"
//	    timezone: Asia/Tokyo
type JobFile struct {
	Job struct {
		Sources        []string `yaml:"sources"`
		Language       string   `yaml:"language"`
		From           string   `yaml:"from"`
		To             string   `yaml:"to"`
		LookbackDays   int      `yaml:"lookback_days"`
		SnapshotPath   string   `yaml:"snapshot_path"`
		CatalogPath    string   `yaml:"catalog_path"`
		PreviewRows    *int     `yaml:"preview_rows"`
		PushgatewayURL string   `yaml:"pushgateway_url"`
		Schedule       struct {
			Cron     string `yaml:"cron"`
			Timezone string `yaml:"timezone"`
		} `yaml:"schedule"`
	} `yaml:"job"`
}

// LoadJobFile reads and parses the YAML job file at path.
// The path comes from a flag or ETL_CONFIG_FILE set by the operator.
func LoadJobFile(path string) (*JobFile, error) {
	// #nosec G304 -- operator supplied path
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}

	var file JobFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse job file: %w", err)
	}
	return &file, nil
}

// apply copies the fields the file sets onto job.
func (f *JobFile) apply(job *JobConfig) {
	j := f.Job
	if len(j.Sources) > 0 {
		job.Sources = j.Sources
	}
	if j.Language != "" {
		job.Language = j.Language
	}
	if j.From != "" {
		job.From = j.From
	}
	if j.To != "" {
		job.To = j.To
	}
	if j.LookbackDays != 0 {
		job.LookbackDays = j.LookbackDays
	}
	if j.SnapshotPath != "" {
		job.SnapshotPath = j.SnapshotPath
	}
	if j.CatalogPath != "" {
		job.CatalogPath = j.CatalogPath
	}
	if j.PreviewRows != nil {
		job.PreviewRows = *j.PreviewRows
	}
	if j.PushgatewayURL != "" {
		job.PushgatewayURL = j.PushgatewayURL
	}
	if j.Schedule.Cron != "" {
		job.CronSchedule = j.Schedule.Cron
	}
	if j.Schedule.Timezone != "" {
		job.Timezone = j.Schedule.Timezone
	}
}
