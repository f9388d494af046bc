package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

// S3StationStore keeps the whole station list in a single JSON object, so a
// replace is one PutObject and readers see either the old or the new list.
type S3StationStore struct {
	client     S3Client
	bucketName string
	key        string
	clock      clock
}

// StationListRecord is the stored object body.
type StationListRecord struct {
	Stations    []models.Station `json:"stations"`
	LastUpdated int64            `json:"lastUpdated"`
}

func NewS3StationStore(client S3Client, bucketName, key string) *S3StationStore {
	if key == "" {
		key = "stations.json"
	}
	return &S3StationStore{
		client:     client,
		bucketName: bucketName,
		key:        key,
		clock:      systemClock{},
	}
}

func (c *S3StationStore) ReadAll(ctx context.Context) ([]models.Station, error) {
	if c.bucketName == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return []models.Station{}, nil
		}
		return nil, fmt.Errorf("getting station list from S3: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var record StationListRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding station list record: %w", err)
	}
	if record.Stations == nil {
		record.Stations = []models.Station{}
	}

	return record.Stations, nil
}

func (c *S3StationStore) ReplaceAll(ctx context.Context, stations []models.Station) error {
	if c.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	record := StationListRecord{
		Stations:    models.DedupeByID(stations),
		LastUpdated: c.clock.Now().Unix(),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding station list record: %w", err)
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucketName),
		Key:         aws.String(c.key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("saving to S3: %w", err)
	}

	log.Debug().Int("station_count", len(record.Stations)).Msg("Saved station list to S3")
	return nil
}

func (c *S3StationStore) Clear(ctx context.Context) error {
	if c.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	if _, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(c.key),
	}); err != nil {
		return fmt.Errorf("deleting station list from S3: %w", err)
	}
	return nil
}
