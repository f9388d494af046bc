package cache

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/config"
	"github.com/kiran-mendhe-8/Home-Assignment-BP/backend-go/internal/models"
	"github.com/rs/zerolog/log"
)

const (
	pointerPK      = "pointer"
	pointerSK      = "current"
	snapshotPrefix = "snapshot#"
	dynamoMaxBatch = 25
	baseRetryDelay = 100 * time.Millisecond
)

// DynamoStationStore keeps each station list as a snapshot of items under one
// partition key, plus a pointer item naming the live snapshot. ReplaceAll
// writes the new snapshot before flipping the pointer, so readers never see
// a mix of old and new stations.
type DynamoStationStore struct {
	client DynamoDBClient
	table  string
	config *config.CacheConfig
	clock  clock
	sleep  func(time.Duration)
}

type snapshotPointer struct {
	PK        string `dynamodbav:"pk"`
	SK        string `dynamodbav:"sk"`
	Snapshot  string `dynamodbav:"snapshot"`
	Count     int    `dynamodbav:"count"`
	UpdatedAt int64  `dynamodbav:"updatedAt"`
}

type stationItem struct {
	PK       string         `dynamodbav:"pk"`
	SK       string         `dynamodbav:"sk"`
	Position int            `dynamodbav:"position"`
	Station  models.Station `dynamodbav:"station"`
}

func NewDynamoStationStore(client DynamoDBClient, cacheConfig *config.CacheConfig) *DynamoStationStore {
	if cacheConfig == nil {
		cacheConfig = config.DefaultCacheConfig()
	}
	return &DynamoStationStore{
		client: client,
		table:  cacheConfig.DynamoTable,
		config: cacheConfig,
		clock:  systemClock{},
		sleep:  time.Sleep,
	}
}

func (c *DynamoStationStore) ReadAll(ctx context.Context) ([]models.Station, error) {
	pointer, err := c.currentPointer(ctx)
	if err != nil {
		return nil, err
	}
	if pointer == nil {
		return []models.Station{}, nil
	}

	items, err := c.querySnapshot(ctx, pointer.Snapshot)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})

	stations := make([]models.Station, len(items))
	for i, item := range items {
		stations[i] = item.Station
	}
	return stations, nil
}

func (c *DynamoStationStore) ReplaceAll(ctx context.Context, stations []models.Station) error {
	stations = models.DedupeByID(stations)

	previous, err := c.currentPointer(ctx)
	if err != nil {
		return err
	}

	snapshot := uuid.NewString()
	requests := make([]types.WriteRequest, 0, len(stations))
	for i, st := range stations {
		item, err := attributevalue.MarshalMap(stationItem{
			PK:       snapshotPrefix + snapshot,
			SK:       st.ID,
			Position: i,
			Station:  st,
		})
		if err != nil {
			return fmt.Errorf("marshaling station %s: %w", st.ID, err)
		}
		requests = append(requests, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
	}

	if err := c.writeBatches(ctx, requests); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", snapshot, err)
	}

	pointer, err := attributevalue.MarshalMap(snapshotPointer{
		PK:        pointerPK,
		SK:        pointerSK,
		Snapshot:  snapshot,
		Count:     len(stations),
		UpdatedAt: c.clock.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshaling snapshot pointer: %w", err)
	}
	if _, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.table),
		Item:      pointer,
	}); err != nil {
		return fmt.Errorf("switching snapshot pointer: %w", err)
	}

	log.Debug().
		Str("snapshot", snapshot).
		Int("station_count", len(stations)).
		Msg("Saved station snapshot to DynamoDB")

	if previous != nil {
		c.dropSnapshot(ctx, previous.Snapshot)
	}
	return nil
}

func (c *DynamoStationStore) Clear(ctx context.Context) error {
	previous, err := c.currentPointer(ctx)
	if err != nil {
		return err
	}
	if previous == nil {
		return nil
	}

	if _, err := c.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(c.table),
		Key:       pointerKey(),
	}); err != nil {
		return fmt.Errorf("deleting snapshot pointer: %w", err)
	}

	c.dropSnapshot(ctx, previous.Snapshot)
	return nil
}

func pointerKey() map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pk": &types.AttributeValueMemberS{Value: pointerPK},
		"sk": &types.AttributeValueMemberS{Value: pointerSK},
	}
}

func (c *DynamoStationStore) currentPointer(ctx context.Context) (*snapshotPointer, error) {
	result, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.table),
		Key:            pointerKey(),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("getting snapshot pointer from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var pointer snapshotPointer
	if err := attributevalue.UnmarshalMap(result.Item, &pointer); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot pointer: %w", err)
	}
	return &pointer, nil
}

func (c *DynamoStationStore) querySnapshot(ctx context.Context, snapshot string) ([]stationItem, error) {
	var items []stationItem
	var startKey map[string]types.AttributeValue

	for {
		out, err := c.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(c.table),
			KeyConditionExpression: aws.String("pk = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: snapshotPrefix + snapshot},
			},
			ConsistentRead:    aws.Bool(true),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("querying snapshot %s: %w", snapshot, err)
		}

		var page []stationItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshaling stations: %w", err)
		}
		items = append(items, page...)

		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// dropSnapshot deletes an unreferenced snapshot. Failures only leave
// unreachable items behind, so they are logged and not returned.
func (c *DynamoStationStore) dropSnapshot(ctx context.Context, snapshot string) {
	items, err := c.querySnapshot(ctx, snapshot)
	if err != nil {
		log.Warn().Err(err).Str("snapshot", snapshot).Msg("Could not list old snapshot for deletion")
		return
	}

	requests := make([]types.WriteRequest, 0, len(items))
	for _, item := range items {
		requests = append(requests, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{
					"pk": &types.AttributeValueMemberS{Value: item.PK},
					"sk": &types.AttributeValueMemberS{Value: item.SK},
				},
			},
		})
	}

	if err := c.writeBatches(ctx, requests); err != nil {
		log.Warn().Err(err).Str("snapshot", snapshot).Msg("Could not delete old snapshot")
		return
	}
	log.Debug().Str("snapshot", snapshot).Int("deleted", len(requests)).Msg("Deleted old station snapshot")
}

// writeBatches sends requests in chunks of the configured batch size and
// resends unprocessed items with exponential backoff.
func (c *DynamoStationStore) writeBatches(ctx context.Context, requests []types.WriteRequest) error {
	batchSize := c.config.BatchSize
	if batchSize <= 0 || batchSize > dynamoMaxBatch {
		batchSize = dynamoMaxBatch
	}
	maxRetries := c.config.MaxBatchRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	for i := 0; i < len(requests); i += batchSize {
		end := i + batchSize
		if end > len(requests) {
			end = len(requests)
		}

		pending := requests[i:end]
		var lastErr error
		for retry := 0; retry < maxRetries && len(pending) > 0; retry++ {
			if retry > 0 {
				c.sleep(time.Duration(1<<(retry-1)) * baseRetryDelay)
			}

			out, err := c.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					c.table: pending,
				},
			})
			if err != nil {
				lastErr = err
				continue
			}
			lastErr = nil
			pending = out.UnprocessedItems[c.table]
		}

		if lastErr != nil {
			return fmt.Errorf("batch writing after %d retries: %w", maxRetries, lastErr)
		}
		if len(pending) > 0 {
			return fmt.Errorf("batch writing after %d retries: %d items unprocessed", maxRetries, len(pending))
		}
	}

	return nil
}
