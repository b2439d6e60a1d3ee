package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
// The server and the worker must use different node IDs.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new internal int64 ID. Internal IDs never leave the API.
func New() int64 {
	return node.Generate().Int64()
}

// NewPublicID returns the identifier exposed to API clients for workspaces
// and members. UUIDv7 keeps public IDs time-ordered like the internal ones.
func NewPublicID() string {
	v, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v.String()
}
