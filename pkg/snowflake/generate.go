package snowflake

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// GeneratorType 区分不同实体的 ID 序列，避免单节点时钟回拨时互相影响
type GeneratorType int

const (
	GeneratorTypeUser GeneratorType = iota
	GeneratorTypeAsset
	GeneratorTypeMessage
)

var (
	nodes map[GeneratorType]*snowflake.Node
	once  sync.Once

	errInvalidMachineID   = errors.New("invalid snowflake machine id")
	errGeneratorUninitial = errors.New("snowflake generator is not initialized")
)

func Init(machineID, dataCenterID int64) error {
	var initErr error

	once.Do(func() {
		if machineID < 0 || machineID > 31 {
			initErr = errInvalidMachineID
			return
		}

		base := (dataCenterID << 5) | machineID // datacenterID 和 machineID 都是 0~31

		nodes = make(map[GeneratorType]*snowflake.Node)
		for _, gt := range []GeneratorType{GeneratorTypeUser, GeneratorTypeAsset, GeneratorTypeMessage} {
			node, err := snowflake.NewNode((base + int64(gt)) % 1024)
			if err != nil {
				initErr = err
				return
			}
			nodes[gt] = node
		}
	})

	return initErr
}

func NextID(gt GeneratorType) (int64, error) {
	if nodes == nil {
		return 0, errGeneratorUninitial
	}

	node, ok := nodes[gt]
	if !ok {
		return 0, errGeneratorUninitial
	}

	return node.Generate().Int64(), nil
}
