package order

import (
	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
)

// NumberSource hands out order numbers
type NumberSource interface {
	Next() string
}

// SnowflakeNumbers issues "SO"-prefixed snowflake ids, which are unique and
// increasing for a given node.
type SnowflakeNumbers struct {
	node *snowflake.Node
}

func NewSnowflakeNumbers(nodeID int64) (*SnowflakeNumbers, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, errors.Wrap(err, "create snowflake node")
	}
	return &SnowflakeNumbers{node: node}, nil
}

func (s *SnowflakeNumbers) Next() string {
	return "SO" + s.node.Generate().String()
}
