package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"tably_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// LoadArchetypeTable loads the archetype chemistry/energy catalog. When
// ARCHETYPE_S3_BUCKET is set the catalog JSON is fetched from S3; otherwise the
// built-in catalog is used. The returned table is immutable reference data,
// loaded once at startup.
func LoadArchetypeTable(ctx context.Context) *models.ArchetypeTable {
	bucket := os.Getenv("ARCHETYPE_S3_BUCKET")
	if bucket == "" {
		log.Println("Using built-in archetype catalog")
		return models.NewArchetypeTable(models.DefaultArchetypeCatalog())
	}

	key := os.Getenv("ARCHETYPE_S3_KEY")
	if key == "" {
		key = "config/archetypes.json"
	}

	catalog, err := fetchArchetypeCatalog(ctx, bucket, key)
	if err != nil {
		log.Printf("⚠️ Failed to load archetype catalog from s3://%s/%s, falling back to built-in: %v", bucket, key, err)
		return models.NewArchetypeTable(models.DefaultArchetypeCatalog())
	}

	log.Printf("✅ Loaded archetype catalog from s3://%s/%s (%d archetypes, %d chemistry pairs)",
		bucket, key, len(catalog.Archetypes), len(catalog.Chemistry))
	return models.NewArchetypeTable(*catalog)
}

func fetchArchetypeCatalog(ctx context.Context, bucket, key string) (*models.ArchetypeCatalog, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)

	output, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog object: %w", err)
	}
	defer output.Body.Close()

	body, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog object: %w", err)
	}

	var catalog models.ArchetypeCatalog
	if err := json.Unmarshal(body, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	if len(catalog.Archetypes) == 0 {
		return nil, fmt.Errorf("catalog object contains no archetypes")
	}
	return &catalog, nil
}
