package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tanzeem/pickup/internal/tanzeem"
)

// NATS stores snapshots in a JetStream key-value bucket.
type NATS struct {
	conn *nats.Conn
	kv   jetstream.KeyValue
}

// OpenNATS connects to url and gets or creates the bucket.
func OpenNATS(ctx context.Context, url, bucket string) (*NATS, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating jetstream context: %w", err)
	}

	kv, err := js.KeyValue(ctx, bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "pickup state snapshots",
			History:     5,
		})
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening kv bucket %q: %w", bucket, err)
	}

	return &NATS{conn: conn, kv: kv}, nil
}

func (n *NATS) Load(ctx context.Context, key string) ([]byte, error) {
	entry, err := n.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, tanzeem.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("getting snapshot: %w", err)
	}
	return entry.Value(), nil
}

func (n *NATS) Save(ctx context.Context, key string, data []byte) error {
	if _, err := n.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("putting snapshot: %w", err)
	}
	return nil
}

func (n *NATS) Check(context.Context) error {
	if !n.conn.IsConnected() {
		return fmt.Errorf("nats connection %s", n.conn.Status())
	}
	return nil
}

func (n *NATS) Close() { n.conn.Close() }
