package main

import (
	"fmt"
	"os"

	"nexusops/internal/domain/models"

	"gopkg.in/yaml.v3"
)

// fixture describes demo data to seed. A custom fixture can be supplied
// with --fixture; the built-in one below covers every resource type.
type fixture struct {
	Projects []fixtureProject `yaml:"projects"`
}

type fixtureProject struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Manager     string          `yaml:"manager"`
	Folders     []fixtureFolder `yaml:"folders"`
}

type fixtureFolder struct {
	Name      string            `yaml:"name"`
	Resources []fixtureResource `yaml:"resources"`
}

type fixtureResource struct {
	Name             string              `yaml:"name"`
	Type             models.ResourceType `yaml:"type"`
	Description      string              `yaml:"description"`
	Quantity         int                 `yaml:"quantity"`
	MaxClaimsPerUser int                 `yaml:"max_claims_per_user"`
	FileName         string              `yaml:"file_name"`
	Content          string              `yaml:"content"`
}

func loadFixture(path string) (*fixture, error) {
	data := []byte(defaultFixture)
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixture %s: %w", path, err)
		}
		data = fileData
	}

	var fix fixture
	if err := yaml.Unmarshal(data, &fix); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if len(fix.Projects) == 0 {
		return nil, fmt.Errorf("fixture contains no projects")
	}
	return &fix, nil
}

const defaultFixture = `
projects:
  - name: Phoenix Migration
    description: Legacy platform migration to the new infrastructure
    manager: Dana Whitfield
    folders:
      - name: Configurations
        resources:
          - name: Staging environment config
            type: Configuration
            description: Environment variables for the staging cluster
            quantity: 5
            max_claims_per_user: 1
            file_name: staging.env
            content: |
              DATABASE_HOST=staging-db.internal
              DATABASE_PORT=5432
              CACHE_TTL_SECONDS=300
          - name: Gateway routing table
            type: Configuration
            description: Edge gateway route definitions
            quantity: 10
            max_claims_per_user: 0
            file_name: routes.yaml
            content: |
              routes:
                - path: /api/v1
                  upstream: phoenix-api
      - name: Certificates
        resources:
          - name: Internal CA bundle
            type: Certificate
            description: Root and intermediate certificates for internal TLS
            quantity: 3
            max_claims_per_user: 1
            file_name: ca-bundle.pem
            content: |
              -----BEGIN CERTIFICATE-----
              MIIBszCCAVmgAwIBAgIUDEMO
              -----END CERTIFICATE-----
      - name: Documentation
        resources:
          - name: Runbook
            type: Documentation
            description: Cutover runbook for the migration weekend
            quantity: 20
            max_claims_per_user: 2
            file_name: runbook.md
            content: |
              # Cutover Runbook

              1. Freeze writes on the legacy cluster.
              2. Run the final sync job.
              3. Flip DNS to the new gateway.

  - name: Atlas Analytics
    description: Customer analytics pipeline
    manager: Marcus Chen
    folders:
      - name: Access Keys
        resources:
          - name: Read-only warehouse key
            type: AccessKey
            description: Scoped key for querying the analytics warehouse
            quantity: 4
            max_claims_per_user: 1
            file_name: warehouse-readonly.key
            content: |
              atlas_ro_4f8a2b91c3d7e605
      - name: Data Samples
        resources:
          - name: January events sample
            type: DataSample
            description: Anonymized event export for pipeline testing
            quantity: 8
            max_claims_per_user: 0
            file_name: events-sample.csv
            content: |
              event_id,event_type,occurred_at
              1,page_view,2026-01-03T10:15:00Z
              2,signup,2026-01-03T10:16:42Z
`
