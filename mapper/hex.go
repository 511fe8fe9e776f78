package mapper

import (
	"github.com/kaiachain/chainetl/common"
)

func hexToUint64(s string) (uint64, error) {
	n, err := common.HexToBig(s)
	if err != nil {
		return 0, err
	}
	return n.Uint64(), nil
}

func hexToInt(s string) (int, error) {
	n, err := hexToUint64(s)
	return int(n), err
}

func normalizedAddress(s string) string {
	addr, err := common.NormalizeAddress(s)
	if err != nil {
		return s
	}
	return addr
}
