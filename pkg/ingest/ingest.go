// Package ingest populates the vector store from a product-catalog CSV.
//
// Each CSV row becomes one document: a structured text block built from the
// title, description, category, and brand columns, with every column kept as
// cleaned metadata.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/zubale/querybot/pkg/embeddings"
	"github.com/zubale/querybot/pkg/vector"
)

// maxMetadataValueLen caps stored metadata strings.
const maxMetadataValueLen = 1000

// batchSize is the number of documents added to the vector store per call.
const batchSize = 64

// Ingester embeds product documents and upserts them into the vector store.
type Ingester struct {
	embedder embeddings.Embedder
	driver   vector.Driver
	logger   *zap.Logger
}

// NewIngester creates a new Ingester.
func NewIngester(embedder embeddings.Embedder, driver vector.Driver, logger *zap.Logger) *Ingester {
	return &Ingester{
		embedder: embedder,
		driver:   driver,
		logger:   logger,
	}
}

// IngestPath reads the product CSV at path and ingests every row.
// Returns the number of documents ingested.
func (i *Ingester) IngestPath(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	return i.Ingest(ctx, f)
}

// Ingest reads product CSV rows from r and upserts one document per row.
func (i *Ingester) Ingest(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("reading csv header: %w", err)
	}

	var (
		batch    []vector.Document
		ingested int
		rowNum   int
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ingested, fmt.Errorf("reading csv row %d: %w", rowNum+1, err)
		}
		rowNum++

		row := make(map[string]string, len(header))
		for col, name := range header {
			if col < len(record) {
				row[name] = record[col]
			}
		}

		doc, err := i.buildDocument(ctx, row, rowNum)
		if err != nil {
			return ingested, err
		}

		batch = append(batch, doc)
		if len(batch) >= batchSize {
			if err := i.driver.Add(ctx, batch); err != nil {
				return ingested, fmt.Errorf("adding documents: %w", err)
			}
			ingested += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := i.driver.Add(ctx, batch); err != nil {
			return ingested, fmt.Errorf("adding documents: %w", err)
		}
		ingested += len(batch)
	}

	i.logger.Info("ingested product documents",
		zap.Int("count", ingested),
	)

	return ingested, nil
}

// buildDocument converts one CSV row into an embedded document.
func (i *Ingester) buildDocument(ctx context.Context, row map[string]string, rowNum int) (vector.Document, error) {
	content := BuildContent(row)

	embedding, err := i.embedder.Embed(ctx, content)
	if err != nil {
		return vector.Document{}, fmt.Errorf("embedding row %d: %w", rowNum, err)
	}

	id := row["id"]
	if id == "" {
		id = strconv.Itoa(rowNum)
	}

	return vector.Document{
		ID:        "product_" + id,
		Content:   content,
		Metadata:  CleanMetadata(row),
		Embedding: embedding,
	}, nil
}

// BuildContent renders the structured document text for one product row.
// Missing fields render as "N/A".
func BuildContent(row map[string]string) string {
	return fmt.Sprintf(
		"Product Name: %s\nDescription: %s\nCategory: %s\nBrand: %s",
		orNA(row["title"]),
		orNA(row["description"]),
		orNA(row["category"]),
		orNA(row["brand"]),
	)
}

// CleanMetadata normalizes raw CSV fields for storage: empty values become
// "N/A", numeric strings become numbers, and long strings are truncated.
func CleanMetadata(row map[string]string) map[string]any {
	cleaned := make(map[string]any, len(row))
	for key, value := range row {
		switch {
		case value == "":
			cleaned[key] = "N/A"
		default:
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				cleaned[key] = n
			} else if f, err := strconv.ParseFloat(value, 64); err == nil {
				cleaned[key] = f
			} else if len(value) > maxMetadataValueLen {
				cleaned[key] = value[:maxMetadataValueLen] + "..."
			} else {
				cleaned[key] = value
			}
		}
	}
	return cleaned
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
