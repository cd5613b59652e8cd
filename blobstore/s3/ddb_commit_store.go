package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/hupe1980/bitagg/blobstore"
)

// PointerName is the base name of blobs kept in DynamoDB by DDBCommitStore.
const PointerName = "CURRENT"

// ErrConcurrentModification is returned when another writer committed the
// same pointer version first.
var ErrConcurrentModification = errors.New("s3: concurrent modification detected")

// DDBClient is the subset of the DynamoDB API used by DDBCommitStore.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

// DDBCommitStore wraps a BlobStore and keeps pointer blobs (base name
// CURRENT) in DynamoDB. Every pointer write is a new item version guarded by
// a conditional put, so concurrent writers cannot overwrite each other.
//
// Table schema:
//   - Partition key: pointer (string), the base URI joined with the blob name
//   - Sort key: version (number)
//
//	aws dynamodb create-table \
//	  --table-name bitagg-commits \
//	  --attribute-definitions AttributeName=pointer,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=pointer,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBCommitStore struct {
	store   blobstore.BlobStore
	ddb     DDBClient
	table   string
	baseURI string
}

var _ blobstore.BlobStore = (*DDBCommitStore)(nil)

// NewDDBCommitStore wraps store. baseURI, e.g. "s3://bucket/prefix",
// namespaces the pointers of this store within the table.
func NewDDBCommitStore(store blobstore.BlobStore, ddb DDBClient, table, baseURI string) *DDBCommitStore {
	return &DDBCommitStore{store: store, ddb: ddb, table: table, baseURI: baseURI}
}

func isPointer(name string) bool {
	return path.Base(name) == PointerName
}

func (s *DDBCommitStore) partition(name string) string {
	return s.baseURI + "/" + name
}

// Open serves pointers from the latest committed version.
func (s *DDBCommitStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	if !isPointer(name) {
		return s.store.Open(ctx, name)
	}
	version, target, err := s.latest(ctx, name)
	if err != nil {
		return nil, err
	}
	if version == 0 || target == "" {
		return nil, fmt.Errorf("%w: %s", blobstore.ErrNotFound, name)
	}
	return &pointerBlob{data: []byte(target)}, nil
}

// Create buffers pointer writes and commits them on Close.
func (s *DDBCommitStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if !isPointer(name) {
		return s.store.Create(ctx, name)
	}
	return &pointerWriter{ctx: ctx, store: s, name: name}, nil
}

// Put commits pointers conditionally and forwards other blobs.
func (s *DDBCommitStore) Put(ctx context.Context, name string, data []byte) error {
	if !isPointer(name) {
		return s.store.Put(ctx, name, data)
	}
	if len(data) == 0 {
		return errors.New("s3: empty pointer")
	}
	return s.commit(ctx, name, string(data))
}

// Delete commits an empty tombstone version for pointers.
func (s *DDBCommitStore) Delete(ctx context.Context, name string) error {
	if !isPointer(name) {
		return s.store.Delete(ctx, name)
	}
	version, target, err := s.latest(ctx, name)
	if err != nil || version == 0 || target == "" {
		return err
	}
	return s.commit(ctx, name, "")
}

// List delegates to the wrapped store; pointers are not listed.
func (s *DDBCommitStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.store.List(ctx, prefix)
}

func (s *DDBCommitStore) latest(ctx context.Context, name string) (uint64, string, error) {
	resp, err := s.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		KeyConditionExpression: aws.String("pointer = :p"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":p": &types.AttributeValueMemberS{Value: s.partition(name)},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("s3: query commits: %w", err)
	}
	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	v, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("s3: commit item without version")
	}
	t, ok := item["target"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("s3: commit item without target")
	}
	version, err := strconv.ParseUint(v.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("s3: commit version: %w", err)
	}
	return version, t.Value, nil
}

func (s *DDBCommitStore) commit(ctx context.Context, name, target string) error {
	current, _, err := s.latest(ctx, name)
	if err != nil {
		return err
	}

	_, err = s.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item: map[string]types.AttributeValue{
			"pointer": &types.AttributeValueMemberS{Value: s.partition(name)},
			"version": &types.AttributeValueMemberN{Value: strconv.FormatUint(current+1, 10)},
			"target":  &types.AttributeValueMemberS{Value: target},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var cond *types.ConditionalCheckFailedException
		if errors.As(err, &cond) {
			return fmt.Errorf("%s: %w", name, ErrConcurrentModification)
		}
		return fmt.Errorf("s3: commit %s: %w", name, err)
	}
	return nil
}

type pointerBlob struct {
	data []byte
}

func (b *pointerBlob) Close() error { return nil }

func (b *pointerBlob) Size() int64 { return int64(len(b.data)) }

func (b *pointerBlob) Bytes() ([]byte, error) { return b.data, nil }

func (b *pointerBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if off >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *pointerBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	if off >= int64(len(b.data)) {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	end := min(off+length, int64(len(b.data)))
	return io.NopCloser(bytes.NewReader(b.data[off:end])), nil
}

type pointerWriter struct {
	ctx    context.Context
	store  *DDBCommitStore
	name   string
	buf    bytes.Buffer
	closed bool
}

func (w *pointerWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	return w.buf.Write(p)
}

func (w *pointerWriter) Close() error {
	if w.closed {
		return io.ErrClosedPipe
	}
	w.closed = true
	return w.store.Put(w.ctx, w.name, w.buf.Bytes())
}

func (w *pointerWriter) Sync() error { return nil }
