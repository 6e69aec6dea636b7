package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	"nexusops/internal/blob"
	"nexusops/internal/config"
	"nexusops/internal/domain/services"
	"nexusops/internal/repository/postgres"
	"nexusops/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	clearData := flag.Bool("clear-data", false, "Clear all rows (keep schema)")
	fixturePath := flag.String("fixture", "", "Path to a YAML fixture file (default: built-in demo data)")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *clearData {
		log.Printf("🧹 Clearing data only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	// Exit early if schema-only mode
	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *clearData {
		log.Println("🧹 Clearing existing rows...")
		if err := clearAllData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared successfully")
		return
	}

	// Load the fixture
	fix, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	projectRepo := postgres.NewProjectRepository(repoConfig)
	folderRepo := postgres.NewFolderRepository(repoConfig)
	resourceRepo := postgres.NewResourceRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	blobs, err := blob.New(cfg.DataDir, logger)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}

	// Create services
	projectService := service.NewProjectService(projectRepo, folderRepo, resourceRepo, txManager, blobs, logger)
	folderService := service.NewFolderService(folderRepo, resourceRepo, projectRepo, txManager, blobs, logger)
	resourceService := service.NewResourceService(resourceRepo, folderRepo, blobs, logger)

	// Seed the fixture through the service layer so validation,
	// defaulting and blob writes behave exactly as the API does
	log.Printf("📝 Seeding %d project(s)...", len(fix.Projects))

	for _, p := range fix.Projects {
		project, err := projectService.CreateProject(ctx, &services.CreateProjectRequest{
			Name:        p.Name,
			Description: p.Description,
			Manager:     p.Manager,
		})
		if err != nil {
			log.Printf("❌ Failed to create project '%s': %v", p.Name, err)
			continue
		}
		log.Printf("✅ Created project: %s (ID: %s)", project.Name, project.ID)

		for _, f := range p.Folders {
			if _, err := folderService.CreateFolder(ctx, &services.CreateFolderRequest{
				ProjectID: project.ID,
				Name:      f.Name,
			}); err != nil {
				log.Printf("❌ Failed to create folder '%s/%s': %v", p.Name, f.Name, err)
				continue
			}

			for _, r := range f.Resources {
				resource, err := resourceService.CreateResource(ctx, &services.CreateResourceRequest{
					ProjectID:        project.ID,
					FolderName:       f.Name,
					Name:             r.Name,
					Type:             r.Type,
					Description:      r.Description,
					Quantity:         r.Quantity,
					MaxClaimsPerUser: r.MaxClaimsPerUser,
					FileName:         r.FileName,
					File:             strings.NewReader(r.Content),
				})
				if err != nil {
					log.Printf("❌ Failed to create resource '%s': %v", r.FileName, err)
					continue
				}
				log.Printf("  ✓ %s/%s (stock: %d)", f.Name, resource.FileName, resource.TotalQuantity)
			}
		}
	}

	log.Println("🎉 Seeding complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	createProjects := `
		CREATE TABLE IF NOT EXISTS ` + tables.Projects + ` (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			manager TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createProjects); err != nil {
		return err
	}

	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES ` + tables.Projects + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(project_id, name)
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	createResources := `
		CREATE TABLE IF NOT EXISTS ` + tables.Resources + ` (
			id UUID PRIMARY KEY,
			project_id UUID NOT NULL REFERENCES ` + tables.Projects + `(id) ON DELETE CASCADE,
			folder_name TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			total_quantity INTEGER NOT NULL CHECK (total_quantity >= 0),
			available_quantity INTEGER NOT NULL CHECK (available_quantity >= 0),
			max_claims_per_user INTEGER NOT NULL DEFAULT 0 CHECK (max_claims_per_user >= 0),
			file_name TEXT NOT NULL,
			file_size BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createResources); err != nil {
		return err
	}

	// Claims deliberately carry no foreign key to resources: the audit
	// trail must survive resource deletion.
	createClaims := `
		CREATE TABLE IF NOT EXISTS ` + tables.Claims + ` (
			id UUID PRIMARY KEY,
			resource_id UUID NOT NULL,
			borrower_name TEXT NOT NULL,
			borrower_dept TEXT NOT NULL DEFAULT '',
			borrower_contact TEXT NOT NULL DEFAULT '',
			purpose TEXT NOT NULL DEFAULT '',
			quantity INTEGER NOT NULL DEFAULT 1,
			claim_date TIMESTAMPTZ NOT NULL
		)
	`
	if _, err := pool.Exec(ctx, createClaims); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_project ON ` + tables.Folders + `(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `resources_project_folder ON ` + tables.Resources + `(project_id, folder_name)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `claims_resource_borrower ON ` + tables.Claims + `(resource_id, borrower_name)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `claims_date ON ` + tables.Claims + `(claim_date DESC)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Claims,
		tables.Resources,
		tables.Folders,
		tables.Projects,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}

// clearAllData deletes every row while keeping the schema
func clearAllData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.Claims,
		tables.Resources,
		tables.Folders,
		tables.Projects,
	}

	for _, table := range tableNames {
		if _, err := pool.Exec(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	return nil
}
