package domain

// ReceiptLog is grounded on klaytnetl/domain/receipt_log.py's
// KlaytnRawReceiptLog.
type ReceiptLog struct {
	Address     string
	BlockHash   string
	BlockNumber uint64
	BlockTimestamp float64

	Data   string
	Topics []string

	LogIndex                 int
	Removed                  bool
	TransactionHash          string
	TransactionIndex         int
	TransactionReceiptStatus int
}

// NewReceiptLog validates the required shape of a raw log entry.
func NewReceiptLog(l ReceiptLog) (ReceiptLog, error) {
	if err := requireAddress("log.address", l.Address); err != nil {
		return ReceiptLog{}, err
	}
	if err := requireHash("log.blockHash", l.BlockHash); err != nil {
		return ReceiptLog{}, err
	}
	if err := requireHash("log.transactionHash", l.TransactionHash); err != nil {
		return ReceiptLog{}, err
	}
	if err := nonNegativeInt("log.logIndex", int64(l.LogIndex)); err != nil {
		return ReceiptLog{}, err
	}
	return l, nil
}
