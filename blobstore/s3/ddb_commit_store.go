package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/anonlattice/blobstore"
)

// CommitStore wraps a blob store with a DynamoDB pointer to the latest
// committed snapshot. This enables safe concurrent writers.
//
// DynamoDB provides the compare-and-swap semantics that S3 lacks:
//   - snapshot content is written to the wrapped store
//   - Commit appends a version row with a conditional write
//   - Latest reads the highest version row
//
// Table schema:
//   - Partition key: base_uri (string) - the S3 prefix/path
//   - Sort key: version (number) - monotonically increasing version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name anonlattice-commits \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type CommitStore struct {
	blobstore.Store
	ddbClient DDBClient
	tableName string
	baseURI   string
}

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// ErrConcurrentModification is returned when a concurrent commit wins the version.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// NewCommitStore creates a new commit store over store.
// The baseURI should be "s3://bucket/prefix" format used as partition key.
func NewCommitStore(store blobstore.Store, ddbClient DDBClient, tableName, baseURI string) *CommitStore {
	return &CommitStore{
		Store:     store,
		ddbClient: ddbClient,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

// Latest returns the name and version of the latest committed blob.
// It returns blobstore.ErrNotFound if nothing has been committed.
func (s *CommitStore) Latest(ctx context.Context) (string, uint64, error) {
	resp, err := s.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: s.baseURI},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to query DynamoDB: %w", err)
	}

	if len(resp.Items) == 0 {
		return "", 0, blobstore.ErrNotFound
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return "", 0, errors.New("invalid version attribute in DynamoDB")
	}
	nameAttr, ok := item["blob_name"].(*types.AttributeValueMemberS)
	if !ok {
		return "", 0, errors.New("invalid blob_name attribute in DynamoDB")
	}

	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("failed to parse version: %w", err)
	}

	return nameAttr.Value, version, nil
}

// Commit atomically points the latest version at name and returns the new version.
// The blob must already be written.
func (s *CommitStore) Commit(ctx context.Context, name string) (uint64, error) {
	_, current, err := s.Latest(ctx)
	if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return 0, err
	}

	next := current + 1

	// Conditional put: only succeed if this version doesn't exist yet
	_, err = s.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri":  &types.AttributeValueMemberS{Value: s.baseURI},
			"version":   &types.AttributeValueMemberN{Value: strconv.FormatUint(next, 10)},
			"blob_name": &types.AttributeValueMemberS{Value: name},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return 0, ErrConcurrentModification
		}
		return 0, fmt.Errorf("failed to commit version to DynamoDB: %w", err)
	}

	return next, nil
}
