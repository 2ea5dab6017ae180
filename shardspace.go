package influxcluster

import (
	"context"
	"encoding/json"
	"net/http"
)

// ShardSpace describes how series matching a regex are sharded and
// retained, in the server's wire shape.
type ShardSpace struct {
	Name              string `json:"name"`
	RetentionPolicy   string `json:"retentionPolicy"`
	ShardDuration     string `json:"shardDuration"`
	Regex             string `json:"regex"`
	ReplicationFactor uint16 `json:"replicationFactor"`
	Split             uint16 `json:"split"`
}

// DefaultShardSpace returns the server defaults: keep data 60 days
// in 14-day shards, match every series, no replication or splitting.
func DefaultShardSpace() ShardSpace {
	return ShardSpace{
		RetentionPolicy:   "60d",
		ShardDuration:     "14d",
		Regex:             "/.*/",
		ReplicationFactor: 1,
		Split:             1,
	}
}

// CreateShardSpace adds a shard space to the database. Requires
// cluster admin privileges.
func (d *Database) CreateShardSpace(ctx context.Context, space ShardSpace) error {
	payload, err := json.Marshal(space)
	if err != nil {
		return err
	}
	_, err = d.cluster.do(ctx, http.MethodPost,
		[]string{"cluster", "shard_spaces", d.Name}, nil, payload)
	return err
}

// UpdateShardSpace replaces an existing shard space's settings.
// Requires cluster admin privileges.
func (d *Database) UpdateShardSpace(ctx context.Context, space ShardSpace) error {
	payload, err := json.Marshal(space)
	if err != nil {
		return err
	}
	_, err = d.cluster.do(ctx, http.MethodPost,
		[]string{"cluster", "shard_spaces", d.Name, space.Name}, nil, payload)
	return err
}

// DeleteShardSpace removes a shard space by name. Requires cluster
// admin privileges.
func (d *Database) DeleteShardSpace(ctx context.Context, name string) error {
	_, err := d.cluster.do(ctx, http.MethodDelete,
		[]string{"cluster", "shard_spaces", d.Name, name}, nil, nil)
	return err
}
